package service

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/metrics"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/settle"
)

const trendingTitleLimit = 10

type Suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

type TitleSearcher interface {
	Titles(ctx context.Context, query string, limit int) ([]string, error)
}

type TrendingServiceDeps struct {
	Google  Suggester
	YouTube TitleSearcher
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Timeout time.Duration
	Now     func() time.Time
}

// TrendingService раскладывает подсказки платформ по категориям.
// Упавшая платформа заменяется шаблонными подсказками, ошибка наружу не уходит.
type TrendingService struct {
	google  Suggester
	youtube TitleSearcher
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	now     func() time.Time
}

func NewTrendingService(deps TrendingServiceDeps) *TrendingService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = 5 * time.Second
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &TrendingService{
		google:  deps.Google,
		youtube: deps.YouTube,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		timeout: deps.Timeout,
		now:     deps.Now,
	}
}

func (s *TrendingService) Suggest(ctx context.Context, query, platform string) (map[string]domain.Suggestions, error) {
	start := time.Now()
	platforms := domain.Platforms(platform)
	if platforms == nil {
		s.recordRequest("validation_error", start)
		return nil, domain.ErrInvalidPlatform
	}
	query = strings.TrimSpace(query)

	results := make([]domain.Suggestions, len(platforms))
	tasks := make([]settle.Task, len(platforms))
	for i, p := range platforms {
		tasks[i] = settle.Task{
			Name: p,
			Run: func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, s.timeout)
				defer cancel()

				items, err := s.fetch(ctx, p, query)
				if err != nil {
					return err
				}
				results[i] = CategorizeSuggestions(items, query)
				return nil
			},
		}
	}

	out := make(map[string]domain.Suggestions, len(platforms))
	for i, o := range settle.All(ctx, tasks...) {
		if o.Err != nil {
			s.logger.Warn("trending suggestions failed, using templates",
				zap.String("platform", o.Name),
				zap.Error(o.Err),
			)
			if s.metrics != nil {
				s.metrics.RecordFallback("trending_" + o.Name)
			}
			out[o.Name] = TemplateSuggestions(o.Name, query, s.now().Year())
			continue
		}
		out[o.Name] = results[i]
	}

	s.recordRequest("success", start)
	return out, nil
}

func (s *TrendingService) fetch(ctx context.Context, platform, query string) ([]string, error) {
	switch platform {
	case domain.PlatformGoogle:
		if s.google == nil {
			return nil, search.ErrSourceUnavailable
		}
		return s.google.Suggest(ctx, query)
	default:
		if s.youtube == nil {
			return nil, search.ErrSourceUnavailable
		}
		return s.youtube.Titles(ctx, query, trendingTitleLimit)
	}
}

func (s *TrendingService) recordRequest(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRequest("trending", status, time.Since(start))
	}
}

var (
	questionWords    = []string{"how", "what", "why", "when", "where"}
	prepositionWords = []string{"for", "with", "without", "vs", "versus", "in", "on", "to", "near"}
	comparisonWords  = []string{"vs", "versus", "or", "compared", "better than"}
)

// CategorizeSuggestions: вопрос, предлог, сравнение, буква после запроса, иначе тренд.
// Подсказки без вхождения запроса отбрасываются.
func CategorizeSuggestions(items []string, query string) domain.Suggestions {
	out := domain.NewSuggestions()
	lq := strings.ToLower(query)

	for _, item := range items {
		li := strings.ToLower(item)
		if lq != "" && !strings.Contains(li, lq) {
			continue
		}

		switch {
		case isQuestion(li):
			out.Questions = append(out.Questions, item)
		case containsWord(li, prepositionWords):
			out.Prepositions = append(out.Prepositions, item)
		case containsWord(li, comparisonWords):
			out.Comparisons = append(out.Comparisons, item)
		default:
			if letter, ok := letterAfter(li, lq); ok {
				out.Alphabetical[letter] = append(out.Alphabetical[letter], item)
			} else {
				out.Trending = append(out.Trending, item)
			}
		}
	}
	return out
}

func isQuestion(s string) bool {
	for _, w := range questionWords {
		if strings.HasPrefix(s, w+" ") || strings.Contains(s, " "+w+" ") {
			return true
		}
	}
	return false
}

func containsWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, " "+w+" ") {
			return true
		}
	}
	return false
}

// letterAfter - латинская буква сразу за префиксом длины запроса
func letterAfter(s, prefix string) (string, bool) {
	n := utf8.RuneCountInString(prefix)
	runes := []rune(s)
	if n >= len(runes) {
		return "", false
	}
	c := unicode.ToUpper(runes[n])
	if c < 'A' || c > 'Z' {
		return "", false
	}
	return string(c), true
}

type suggestionTemplates struct {
	questions    []string
	prepositions []string
	comparisons  []string
	alphabetical map[string][]string
	trending     []string
}

// для коротких запросов (меньше трех символов) - общий набор про AI
var generalTemplates = map[string]suggestionTemplates{
	domain.PlatformGoogle: {
		questions: []string{
			"what is artificial intelligence",
			"how does AI work",
			"what can AI do",
			"how to use AI for business",
			"what is the future of AI",
		},
		prepositions: []string{
			"AI for small business",
			"AI in healthcare",
			"AI with python",
			"AI for content creation",
			"AI in education",
		},
		comparisons: []string{
			"AI vs machine learning",
			"ChatGPT vs Bard",
			"AI or human writers",
			"GPT-4 vs GPT-3.5",
			"AI compared to human intelligence",
		},
		alphabetical: map[string][]string{
			"A": {"AI art generators", "AI assistants for productivity"},
			"B": {"Best AI tools {year}", "Business applications of AI"},
			"C": {"ChatGPT alternatives", "Custom AI models"},
			"F": {"Free AI tools", "Future of AI technology"},
			"T": {"Top AI companies", "Text to image AI"},
		},
		trending: []string{
			"AI image generator",
			"ChatGPT login",
			"AI video creator",
			"AI detector",
			"AI voice generator",
			"AI writing assistant",
			"AI code helper",
		},
	},
	domain.PlatformYouTube: {
		questions: []string{
			"what is AI explained simply",
			"how does artificial intelligence work",
			"what can AI do in {year}",
			"how to create AI art",
			"what is machine learning vs AI",
		},
		prepositions: []string{
			"AI for beginners tutorial",
			"AI in our daily life",
			"AI with no coding",
			"AI for content creators",
			"AI in the future",
		},
		comparisons: []string{
			"AI vs human artists",
			"ChatGPT vs Google Bard comparison",
			"AI or human intelligence",
			"Midjourney vs DALL-E",
			"AI compared to human creativity",
		},
		alphabetical: map[string][]string{
			"A": {"AI art tutorial", "AI assistants review"},
			"B": {"Best AI tools demonstration", "Build your own AI"},
			"C": {"ChatGPT tutorial", "Create AI images"},
			"F": {"Free AI tools walkthrough", "Future of AI documentary"},
			"H": {"How to use AI for YouTube", "How AI is changing everything"},
			"T": {"Top 10 AI tools", "Text to video AI"},
		},
		trending: []string{
			"I tried using AI for a week",
			"AI tools that will replace your job",
			"How to make money with AI",
			"AI image generation tutorial",
			"The dark side of AI",
			"AI tools every creator needs",
			"Future of AI explained",
		},
	},
}

var queryTemplates = map[string]suggestionTemplates{
	domain.PlatformGoogle: {
		questions: []string{
			"what is {q}",
			"how does {q} work",
			"what can {q} do",
			"how to use {q} effectively",
			"what are the benefits of {q}",
		},
		prepositions: []string{
			"{q} for beginners",
			"{q} in business",
			"{q} with examples",
			"{q} for free",
			"{q} in {year}",
		},
		comparisons: []string{
			"{q} vs alternatives",
			"{q} or competitors",
			"{q} compared to others",
			"is {q} better than others",
		},
		alphabetical: map[string][]string{
			"A": {"{q} advanced techniques", "{q} applications"},
			"B": {"{q} best practices", "{q} benefits"},
			"C": {"{q} cost", "{q} courses"},
			"F": {"{q} for free", "{q} features"},
			"H": {"{q} how to start", "{q} help"},
			"T": {"{q} tutorial", "{q} tips"},
		},
		trending: []string{
			"{q} latest updates",
			"{q} new features",
			"{q} review",
			"{q} alternatives",
			"{q} pricing",
			"{q} free trial",
		},
	},
	domain.PlatformYouTube: {
		questions: []string{
			"what is {q} explained",
			"how to use {q} tutorial",
			"what can {q} do for creators",
			"how to get started with {q}",
			"what are the best {q} techniques",
		},
		prepositions: []string{
			"{q} for beginners",
			"{q} in action",
			"{q} with examples",
			"{q} for YouTube",
			"{q} in {year} review",
		},
		comparisons: []string{
			"{q} vs alternatives comparison",
			"{q} or competitors which is better",
			"{q} compared to others live test",
			"is {q} better than the competition",
		},
		alphabetical: map[string][]string{
			"A": {"{q} advanced tutorial", "{q} all features"},
			"B": {"{q} best practices guide", "{q} behind the scenes"},
			"C": {"{q} complete walkthrough", "{q} creator tips"},
			"F": {"{q} for free guide", "{q} full review"},
			"H": {"{q} how to master", "{q} hands-on"},
			"T": {"{q} tips and tricks", "{q} tutorial for beginners"},
		},
		trending: []string{
			"{q} that will blow your mind",
			"I tried {q} for 30 days",
			"{q} review: the truth",
			"{q} is changing everything",
			"{q} secrets nobody tells you",
			"{q} ultimate guide {year}",
		},
	},
}

// TemplateSuggestions - детерминированные подсказки, когда платформа недоступна
func TemplateSuggestions(platform, query string, year int) domain.Suggestions {
	set := queryTemplates
	if utf8.RuneCountInString(query) < 3 {
		set = generalTemplates
	}
	tpl, ok := set[platform]
	if !ok {
		return domain.NewSuggestions()
	}

	r := strings.NewReplacer("{q}", query, "{year}", strconv.Itoa(year))
	fill := func(items []string) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = r.Replace(it)
		}
		return out
	}

	out := domain.Suggestions{
		Questions:    fill(tpl.questions),
		Prepositions: fill(tpl.prepositions),
		Comparisons:  fill(tpl.comparisons),
		Alphabetical: make(map[string][]string, len(tpl.alphabetical)),
		Trending:     fill(tpl.trending),
	}
	for letter, items := range tpl.alphabetical {
		out.Alphabetical[letter] = fill(items)
	}
	return out
}
