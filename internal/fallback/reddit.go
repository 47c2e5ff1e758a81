package fallback

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/kitbuilder587/multisearch/internal/domain"
)

const (
	postCount   = 3
	aiSubreddit = "ArtificialIntelligence"
	base36      = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	subreddits = []string{"technology", "programming", "AskReddit", "science", "explainlikeimfive", "todayilearned"}
	authors    = []string{"user123", "redditfan", "techexpert", "curious_mind", "knowledge_seeker"}
	aiTopics   = []string{
		"Latest developments in AI research",
		"How AI is changing the job market",
		"Ethical considerations in AI development",
		"AI tools that are revolutionizing content creation",
		"The future of AI in healthcare",
	}
)

// Generator собирает правдоподобные посты форума, когда настоящий поиск недоступен.
// Состояния между вызовами нет: каждый вызов берет свой *rand.Rand.
type Generator struct {
	now     func() time.Time
	newRand func() *rand.Rand
}

type Option func(*Generator)

// WithRand - детерминированный источник случайности для тестов
func WithRand(f func() *rand.Rand) Option {
	return func(g *Generator) { g.newRand = f }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func New(opts ...Option) *Generator {
	g := &Generator{
		now: time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RedditPosts - ровно три записи той же формы, что и у настоящего адаптера
func (g *Generator) RedditPosts(query string) []domain.RedditResult {
	rng := g.newRand()
	isAI := strings.Contains(strings.ToLower(query), "ai")
	year := g.now().Year()

	posts := make([]domain.RedditResult, 0, postCount)
	for i := 0; i < postCount; i++ {
		subreddit := aiSubreddit
		if !isAI {
			subreddit = subreddits[rng.IntN(len(subreddits))]
		}
		upvotes := rng.Int64N(10000)
		comments := rng.Int64N(500)
		hoursAgo := rng.IntN(48)

		var title, content string
		if isAI {
			title = fmt.Sprintf("%s: %s", aiTopics[i%len(aiTopics)], query)
			content = fmt.Sprintf("This is a discussion about %s and how it relates to artificial intelligence. "+
				"Many experts believe that AI will continue to evolve rapidly in the coming years, "+
				"with significant implications for various industries and society as a whole.", query)
		} else {
			title = fmt.Sprintf("%s: What you need to know in %d", query, year)
			content = fmt.Sprintf("This post discusses everything about %s. It covers the latest developments, "+
				"common misconceptions, and practical applications. "+
				"The community has been very engaged with this topic recently.", query)
		}

		post := domain.RedditResult{
			Title:        title,
			Content:      content,
			URL:          postURL(subreddit, postID(rng), title),
			Subreddit:    subreddit,
			Author:       authors[rng.IntN(len(authors))],
			Upvotes:      upvotes,
			CommentCount: comments,
			Awards:       awardsFor(upvotes),
			IsTextPost:   i != 0,
			CreatedAt:    createdAt(hoursAgo),
		}
		if i == 0 {
			post.Thumbnail = "/placeholder.svg?height=96&width=96&text=" + url.QueryEscape(subreddit)
		}
		posts = append(posts, post)
	}
	return posts
}

// RedditPosts - то же самое с генератором по умолчанию
func RedditPosts(query string) []domain.RedditResult {
	return New().RedditPosts(query)
}

func awardsFor(upvotes int64) []string {
	switch {
	case upvotes > 5000:
		return []string{"Gold", "Silver"}
	case upvotes > 1000:
		return []string{"Silver"}
	default:
		return []string{}
	}
}

func createdAt(hoursAgo int) string {
	if hoursAgo <= 1 {
		return "just now"
	}
	return fmt.Sprintf("%d hours ago", hoursAgo)
}

func postID(rng *rand.Rand) string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = base36[rng.IntN(len(base36))]
	}
	return string(b)
}

func postURL(subreddit, id, title string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(title)), "_")
	return "https://www.reddit.com/r/" + subreddit + "/comments/" + id + "/" + url.PathEscape(slug)
}
