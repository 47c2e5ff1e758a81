package google

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/textutil"
)

const (
	booksFavicon     = "https://books.google.com/favicon.ico"
	booksSiteName    = "books.google.com"
	wikiFavicon      = "https://en.wikipedia.org/static/favicon/wikipedia.ico"
	wikiSiteName     = "wikipedia.org"
	wikiArticleURL   = "https://en.wikipedia.org/wiki/"
	screenshotFormat = "/placeholder.svg?height=160&width=320&text=%s"
)

type Config struct {
	BooksURL   string
	WikiURL    string
	NewsURL    string
	NewsAPIKey string
	MaxResults int
}

// Client - веб-выдача без ключа Google: книги, затем википедия, затем новости.
// Побеждает первый уровень, вернувший хотя бы одну запись.
type Client struct {
	cfg     Config
	fetcher *search.Fetcher
	logger  *zap.Logger
}

func New(cfg Config, fetcher *search.Fetcher, logger *zap.Logger) *Client {
	if cfg.BooksURL == "" {
		cfg.BooksURL = "https://www.googleapis.com/books/v1/volumes"
	}
	if cfg.WikiURL == "" {
		cfg.WikiURL = "https://en.wikipedia.org/w/api.php"
	}
	if cfg.NewsURL == "" {
		cfg.NewsURL = "https://newsapi.org/v2/everything"
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{cfg: cfg, fetcher: fetcher, logger: logger}
}

func (c *Client) Name() string { return domain.SourceGoogle }

type tier struct {
	name  string
	fetch func(ctx context.Context, query string) ([]domain.WebResult, error)
}

func (c *Client) tiers() []tier {
	tiers := []tier{
		{name: "books", fetch: c.books},
		{name: "wikipedia", fetch: c.wikipedia},
	}
	if c.cfg.NewsAPIKey != "" {
		tiers = append(tiers, tier{name: "news", fetch: c.news})
	}
	return tiers
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.WebResult, error) {
	var lastErr error
	for _, t := range c.tiers() {
		results, err := t.fetch(ctx, query)
		if err != nil {
			c.logger.Warn("web tier failed",
				zap.String("tier", t.name),
				zap.Error(err),
			)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		lastErr = nil
		if len(results) > 0 {
			return results, nil
		}
		c.logger.Debug("web tier returned nothing", zap.String("tier", t.name))
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return []domain.WebResult{}, nil
}

type booksResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Description         string   `json:"description"`
			Authors             []string `json:"authors"`
			PageCount           int      `json:"pageCount"`
			PublishedDate       string   `json:"publishedDate"`
			InfoLink            string   `json:"infoLink"`
			CanonicalVolumeLink string   `json:"canonicalVolumeLink"`
			ImageLinks          struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

func (c *Client) books(ctx context.Context, query string) ([]domain.WebResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.cfg.MaxResults))

	var resp booksResponse
	if err := c.fetcher.DoJSON(ctx, search.Get(c.cfg.BooksURL+"?"+params.Encode(), nil), &resp); err != nil {
		return nil, fmt.Errorf("books: %w", err)
	}

	results := make([]domain.WebResult, 0, len(resp.Items))
	for _, it := range resp.Items {
		v := it.VolumeInfo

		content := v.Description
		if content == "" {
			content = bookBlurb(v.Authors, v.PageCount, v.PublishedDate)
		}
		link := v.InfoLink
		if link == "" {
			link = v.CanonicalVolumeLink
		}
		screenshot := v.ImageLinks.Thumbnail
		if screenshot == "" {
			screenshot = fmt.Sprintf(screenshotFormat, "Book")
		}

		results = append(results, domain.WebResult{
			Title:      v.Title,
			Content:    content,
			URL:        link,
			Favicon:    booksFavicon,
			SiteName:   booksSiteName,
			Screenshot: screenshot,
		})
	}
	return results, nil
}

func bookBlurb(authors []string, pages int, published string) string {
	author := "Unknown author"
	if len(authors) > 0 {
		author = strings.Join(authors, ", ")
	}

	parts := []string{"Book by " + author + "."}
	if pages > 0 {
		parts = append(parts, strconv.Itoa(pages)+" pages.")
	}
	if published != "" {
		parts = append(parts, "Published: "+published)
	}
	return strings.Join(parts, " ")
}

type wikiResponse struct {
	Query *struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

func (r *wikiResponse) Validate() error {
	if r.Query == nil {
		return errors.New("query missing")
	}
	return nil
}

func (c *Client) wikipedia(ctx context.Context, query string) ([]domain.WebResult, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("format", "json")
	params.Set("origin", "*")
	params.Set("srlimit", strconv.Itoa(c.cfg.MaxResults))

	var resp wikiResponse
	if err := c.fetcher.DoJSON(ctx, search.Get(c.cfg.WikiURL+"?"+params.Encode(), nil), &resp); err != nil {
		return nil, fmt.Errorf("wikipedia: %w", err)
	}

	results := make([]domain.WebResult, 0, len(resp.Query.Search))
	for _, it := range resp.Query.Search {
		results = append(results, domain.WebResult{
			Title:      it.Title,
			Content:    textutil.StripHTML(it.Snippet),
			URL:        WikiArticleURL(it.Title),
			Favicon:    wikiFavicon,
			SiteName:   wikiSiteName,
			Screenshot: fmt.Sprintf(screenshotFormat, "Wikipedia"),
		})
	}
	return results, nil
}

// QueryEscape трогает символы, которые в путях статей остаются как есть
var wikiUnescape = strings.NewReplacer(
	"%28", "(",
	"%29", ")",
	"%27", "'",
	"%21", "!",
	"%2A", "*",
)

// WikiArticleURL: пробелы -> "_", ()'!*~ остаются как есть, остальное экранируется
func WikiArticleURL(title string) string {
	return wikiArticleURL + wikiUnescape.Replace(url.QueryEscape(strings.ReplaceAll(title, " ", "_")))
}

type newsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (r *newsResponse) Validate() error {
	if r.Articles == nil {
		return errors.New("articles missing")
	}
	return nil
}

func (c *Client) news(ctx context.Context, query string) ([]domain.WebResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", strconv.Itoa(c.cfg.MaxResults))
	params.Set("apiKey", c.cfg.NewsAPIKey)

	var resp newsResponse
	if err := c.fetcher.DoJSON(ctx, search.Get(c.cfg.NewsURL+"?"+params.Encode(), nil), &resp); err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}

	results := make([]domain.WebResult, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		screenshot := a.URLToImage
		if screenshot == "" {
			screenshot = fmt.Sprintf(screenshotFormat, "News")
		}
		results = append(results, domain.WebResult{
			Title:      a.Title,
			Content:    a.Description,
			URL:        a.URL,
			Favicon:    newsFavicon(a.Source.Name),
			SiteName:   a.Source.Name,
			Screenshot: screenshot,
		})
	}
	return results, nil
}

func newsFavicon(siteName string) string {
	letter := ""
	for _, r := range siteName {
		letter = strings.ToUpper(string(r))
		break
	}
	return "/placeholder.svg?height=16&width=16&text=" + url.QueryEscape(letter)
}
