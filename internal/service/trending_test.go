package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitbuilder587/multisearch/internal/domain"
)

type fakeSuggester struct {
	items []string
	err   error
	query string
}

func (f *fakeSuggester) Suggest(_ context.Context, query string) ([]string, error) {
	f.query = query
	return f.items, f.err
}

type fakeTitles struct {
	items []string
	err   error
	limit int
}

func (f *fakeTitles) Titles(_ context.Context, _ string, limit int) ([]string, error) {
	f.limit = limit
	return f.items, f.err
}

var trendingNow = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func TestCategorizeSuggestions(t *testing.T) {
	items := []string{
		"how to learn golang",
		"golang for beginners",
		"golang or rust",
		"golangci-lint",
		"golang tutorial",
		"python tutorial",
	}

	got := CategorizeSuggestions(items, "Golang")

	assert.Equal(t, []string{"how to learn golang"}, got.Questions)
	assert.Equal(t, []string{"golang for beginners"}, got.Prepositions)
	assert.Equal(t, []string{"golang or rust"}, got.Comparisons)
	// буква сразу после "golang": "c" в golangci-lint
	assert.Equal(t, map[string][]string{"C": {"golangci-lint"}}, got.Alphabetical)
	// после запроса пробел - в тренды
	assert.Equal(t, []string{"golang tutorial"}, got.Trending)
}

func TestCategorizeSuggestions_VsIsPreposition(t *testing.T) {
	got := CategorizeSuggestions([]string{"go vs rust"}, "go")

	assert.Equal(t, []string{"go vs rust"}, got.Prepositions)
	assert.Empty(t, got.Comparisons)
}

func TestCategorizeSuggestions_EmptyQueryKeepsAll(t *testing.T) {
	got := CategorizeSuggestions([]string{"Weather today", "why is the sky blue"}, "")

	assert.Equal(t, []string{"why is the sky blue"}, got.Questions)
	assert.Equal(t, map[string][]string{"W": {"Weather today"}}, got.Alphabetical)
	assert.NotNil(t, got.Trending)
}

func TestTemplateSuggestions(t *testing.T) {
	got := TemplateSuggestions(domain.PlatformGoogle, "kubernetes", 2026)

	assert.Contains(t, got.Questions, "what is kubernetes")
	assert.Contains(t, got.Prepositions, "kubernetes in 2026")
	assert.Equal(t, []string{"kubernetes tutorial", "kubernetes tips"}, got.Alphabetical["T"])
	for _, items := range [][]string{got.Questions, got.Prepositions, got.Comparisons, got.Trending} {
		for _, s := range items {
			assert.NotContains(t, s, "{q}")
			assert.NotContains(t, s, "{year}")
		}
	}

	yt := TemplateSuggestions(domain.PlatformYouTube, "kubernetes", 2026)
	assert.Contains(t, yt.Trending, "kubernetes ultimate guide 2026")
}

func TestTemplateSuggestions_ShortQuery(t *testing.T) {
	got := TemplateSuggestions(domain.PlatformGoogle, "ai", 2026)

	assert.Contains(t, got.Questions, "what is artificial intelligence")
	assert.Contains(t, got.Alphabetical["B"], "Best AI tools 2026")
}

func TestTemplateSuggestions_Deterministic(t *testing.T) {
	a := TemplateSuggestions(domain.PlatformYouTube, "docker", 2026)
	b := TemplateSuggestions(domain.PlatformYouTube, "docker", 2026)
	assert.Equal(t, a, b)
}

func TestTrendingService_Suggest(t *testing.T) {
	google := &fakeSuggester{items: []string{"golang jobs", "what is golang"}}
	yt := &fakeTitles{items: []string{"Golang explained"}}

	svc := NewTrendingService(TrendingServiceDeps{Google: google, YouTube: yt, Now: trendingNow})

	got, err := svc.Suggest(context.Background(), " golang ", "all")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "golang", google.query)
	assert.Equal(t, trendingTitleLimit, yt.limit)
	assert.Equal(t, []string{"what is golang"}, got[domain.PlatformGoogle].Questions)
	assert.Equal(t, []string{"golang jobs"}, got[domain.PlatformGoogle].Trending)
	assert.Equal(t, []string{"Golang explained"}, got[domain.PlatformYouTube].Trending)
}

func TestTrendingService_SinglePlatform(t *testing.T) {
	yt := &fakeTitles{}
	svc := NewTrendingService(TrendingServiceDeps{Google: &fakeSuggester{}, YouTube: yt})

	got, err := svc.Suggest(context.Background(), "golang", "google")
	require.NoError(t, err)

	assert.Contains(t, got, domain.PlatformGoogle)
	assert.NotContains(t, got, domain.PlatformYouTube)
	assert.Zero(t, yt.limit, "youtube must not be queried")
}

func TestTrendingService_FailureUsesTemplates(t *testing.T) {
	google := &fakeSuggester{err: errors.New("upstream 503")}
	svc := NewTrendingService(TrendingServiceDeps{Google: google, Now: trendingNow})

	got, err := svc.Suggest(context.Background(), "golang", "all")
	require.NoError(t, err)

	assert.Equal(t, TemplateSuggestions(domain.PlatformGoogle, "golang", 2026), got[domain.PlatformGoogle])
	// youtube не настроен
	yt := got[domain.PlatformYouTube]
	require.NotEmpty(t, yt.Trending)
	assert.True(t, strings.Contains(yt.Trending[0], "golang"))
}

func TestTrendingService_InvalidPlatform(t *testing.T) {
	svc := NewTrendingService(TrendingServiceDeps{})

	_, err := svc.Suggest(context.Background(), "golang", "myspace")
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)
}
