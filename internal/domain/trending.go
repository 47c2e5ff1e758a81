package domain

const (
	PlatformAll     = "all"
	PlatformGoogle  = "google"
	PlatformYouTube = "youtube"
)

// Suggestions - подсказки, разложенные по категориям. Буквенные группы
// сериализуются в порядке ключей.
type Suggestions struct {
	Questions    []string            `json:"questions"`
	Prepositions []string            `json:"prepositions"`
	Comparisons  []string            `json:"comparisons"`
	Alphabetical map[string][]string `json:"alphabetical"`
	Trending     []string            `json:"trending"`
}

func NewSuggestions() Suggestions {
	return Suggestions{
		Questions:    []string{},
		Prepositions: []string{},
		Comparisons:  []string{},
		Alphabetical: map[string][]string{},
		Trending:     []string{},
	}
}

// Platforms - какие платформы опрашивать; неизвестная платформа дает пустой набор
func Platforms(platform string) []string {
	switch platform {
	case "", PlatformAll:
		return []string{PlatformGoogle, PlatformYouTube}
	case PlatformGoogle, PlatformYouTube:
		return []string{platform}
	default:
		return nil
	}
}
