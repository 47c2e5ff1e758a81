package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/llm"
	"github.com/kitbuilder587/multisearch/internal/metrics"
)

const jsonOnlyInstruction = "Respond with a single JSON object and nothing else. The object must have this shape: "

type contentSpec struct {
	system string
	prompt string
	shape  string
	sample string
	decode func(raw string) (any, error)
}

var contentSpecs = map[domain.ContentKind]contentSpec{
	domain.ContentHashtags: {
		system: "You are a professional social media strategist. Based on the transcript, generate a list of relevant and trending hashtags.",
		prompt: "Generate a list of hashtags based on this transcript: %q",
		shape:  `{"content": ["#hashtag", ...]}`,
		sample: `{"content":["#trending","#explore","#contentcreator"]}`,
		decode: decodeList,
	},
	domain.ContentPosts: {
		system: "You are a professional social media strategist. Based on the transcript, generate a list of relevant and trending social media posts.",
		prompt: "Generate a list of social media posts based on this transcript: %q",
		shape:  `{"content": ["post text", ...]}`,
		sample: `{"content":["Big news today. Here is what you need to know.","Three takeaways worth sharing."]}`,
		decode: decodeList,
	},
	domain.ContentArticle: {
		system: "You are a professional content writer. Based on the transcript, create a structured article with a title, and multiple headings each followed by a paragraph.",
		prompt: "Generate a well-structured article based on this transcript: %q",
		shape:  `{"content": "article text in markdown"}`,
		sample: `{"content":"# Overview\n\n## Key points\n\nA short summary of the transcript."}`,
		decode: decodeText,
	},
	domain.ContentScript: {
		system: "You are a professional social media strategist. Based on the transcript, generate a relevant and trending 30 to 45 seconds social media reel script.",
		prompt: "Generate a relevant and trending 30 to 45 seconds social media reel script based on this transcript: %q",
		shape:  `{"content": "script text"}`,
		sample: `{"content":"HOOK: Stop scrolling.\nBODY: Here is the one thing to know.\nCTA: Follow for more."}`,
		decode: decodeText,
	},
	domain.ContentTopics: {
		system: "You are an expert trend researcher and content strategist. Based on the given search term, generate trending topics in a structured format: multiple categories with 4-6 topics each, and a list of 5 featured trending topics.",
		prompt: "Generate trending topics based on this term: %q.",
		shape:  `{"categories": [{"name": "category", "topics": ["topic", ...]}], "featured": ["topic", ...]}`,
		sample: `{"categories":[{"name":"Basics","topics":["Getting started","Common mistakes","Tools","Best practices"]}],"featured":["Getting started","Tools","Trends","Case studies","FAQ"]}`,
		decode: decodeTopics,
	},
}

type ContentServiceDeps struct {
	LLM      llm.Client
	Provider string
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Timeout  time.Duration
}

// ContentService - генерация текстов по расшифровке видео или поисковому термину
type ContentService struct {
	llm      llm.Client
	provider string
	logger   *zap.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
}

func NewContentService(deps ContentServiceDeps) *ContentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Provider == "" {
		deps.Provider = "unknown"
	}
	if deps.Timeout <= 0 {
		deps.Timeout = 60 * time.Second
	}
	return &ContentService{
		llm:      deps.LLM,
		provider: deps.Provider,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		timeout:  deps.Timeout,
	}
}

// Generate возвращает один из domain.TextListContent, domain.TextContent, domain.TopicsContent
func (s *ContentService) Generate(ctx context.Context, req domain.ContentRequest) (any, error) {
	spec, ok := contentSpecs[req.Kind]
	if !ok {
		return nil, domain.ErrUnknownContent
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Sanitize()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.llm.CompleteWithSystem(ctx, spec.system+" "+jsonOnlyInstruction+spec.shape, fmt.Sprintf(spec.prompt, req.Text))
	if err != nil {
		s.recordLLM("error", start)
		s.logger.Warn("content generation failed",
			zap.String("kind", string(req.Kind)),
			zap.String("provider", s.provider),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMFailed, err)
	}

	out, err := spec.decode(raw)
	if err != nil {
		s.recordLLM("invalid_response", start)
		s.logger.Warn("llm returned unexpected shape",
			zap.String("kind", string(req.Kind)),
			zap.Int("response_length", len(raw)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMFailed, err)
	}

	s.recordLLM("success", start)
	s.logger.Debug("content generated",
		zap.String("kind", string(req.Kind)),
		zap.Int("input_length", len(req.Text)),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (s *ContentService) recordLLM(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordLLMRequest(s.provider, status, time.Since(start))
	}
}

var errShape = errors.New("response does not match expected shape")

func decodeList(raw string) (any, error) {
	var out struct {
		Content *[]string `json:"content"`
	}
	if err := llm.DecodeJSON(raw, &out); err != nil {
		return nil, err
	}
	if out.Content == nil {
		return nil, fmt.Errorf("%w: content list missing", errShape)
	}
	return domain.TextListContent{Content: *out.Content}, nil
}

func decodeText(raw string) (any, error) {
	var out struct {
		Content *string `json:"content"`
	}
	if err := llm.DecodeJSON(raw, &out); err != nil {
		return nil, err
	}
	if out.Content == nil || strings.TrimSpace(*out.Content) == "" {
		return nil, fmt.Errorf("%w: content text missing", errShape)
	}
	return domain.TextContent{Content: *out.Content}, nil
}

func decodeTopics(raw string) (any, error) {
	var out struct {
		Categories *[]domain.TopicCategory `json:"categories"`
		Featured   *[]string               `json:"featured"`
	}
	if err := llm.DecodeJSON(raw, &out); err != nil {
		return nil, err
	}
	if out.Categories == nil || out.Featured == nil {
		return nil, fmt.Errorf("%w: categories or featured missing", errShape)
	}
	for i, c := range *out.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: category %d has no name", errShape, i)
		}
		if c.Topics == nil {
			(*out.Categories)[i].Topics = []string{}
		}
	}
	return domain.TopicsContent{Categories: *out.Categories, Featured: *out.Featured}, nil
}

// StubResponder - ответы для LLM_PROVIDER=mock: образец по виду контента из системного промпта
func StubResponder(system, _ string) string {
	for _, spec := range contentSpecs {
		if strings.HasPrefix(system, spec.system) {
			return spec.sample
		}
	}
	return `{"content":""}`
}
