package telegram

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/textutil"
)

const (
	maxMessageLen  = 4096
	topPerSource   = 3
	topSuggestions = 5
	maxLineTitle   = 90
)

var sourceTitles = map[string]string{
	domain.SourceYouTube:   "YouTube",
	domain.SourceReddit:    "Reddit",
	domain.SourceGoogle:    "Web",
	domain.SourceX:         "X",
	domain.SourceInstagram: "Instagram",
	domain.SourceTikTok:    "TikTok",
	domain.SourceLinkedIn:  "LinkedIn",
}

var platformTitles = map[string]string{
	domain.PlatformGoogle:  "Google",
	domain.PlatformYouTube: "YouTube",
}

type resultLine struct {
	title string
	url   string
	note  string
}

// FormatAggregate - топ результатов по каждому непустому источнику в порядке AllSources
func FormatAggregate(query string, res *domain.AggregateResult, perSource int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Results for \"%s\"</b>\n", html.EscapeString(query)))

	counts := res.Counts()
	written := 0
	for _, src := range domain.AllSources {
		lines := sourceLines(res, src)
		if len(lines) == 0 {
			continue
		}
		written++

		sb.WriteString(fmt.Sprintf("\n<b>%s</b> (%d)\n", sourceTitles[src], counts[src]))
		for i, l := range lines {
			if i == perSource {
				break
			}
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, formatLine(l)))
		}
	}

	if written == 0 {
		sb.WriteString("\nNothing found.\n")
	}
	if res.Error != "" {
		sb.WriteString(fmt.Sprintf("\n<i>%s</i>", html.EscapeString(res.Error)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatLine(l resultLine) string {
	title := html.EscapeString(textutil.Truncate(l.title, maxLineTitle))
	if title == "" {
		title = html.EscapeString(truncateURL(l.url, 50))
	}

	out := title
	if l.url != "" {
		out = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(l.url), title)
	}
	if l.note != "" {
		out += " · " + html.EscapeString(l.note)
	}
	return out
}

func sourceLines(res *domain.AggregateResult, src string) []resultLine {
	var lines []resultLine
	switch src {
	case domain.SourceYouTube:
		for _, v := range res.YouTube {
			lines = append(lines, resultLine{title: v.Title, url: v.URL, note: v.ChannelName})
		}
	case domain.SourceReddit:
		for _, p := range res.Reddit {
			lines = append(lines, resultLine{title: p.Title, url: p.URL, note: prefixed("r/", p.Subreddit)})
		}
	case domain.SourceGoogle:
		for _, w := range res.Google {
			lines = append(lines, resultLine{title: w.Title, url: w.URL, note: w.SiteName})
		}
	case domain.SourceX:
		for _, t := range res.X {
			lines = append(lines, resultLine{title: oneLine(t.Text), url: t.URL, note: prefixed("@", t.AuthorUsername)})
		}
	case domain.SourceInstagram:
		for _, u := range res.Instagram.Users {
			lines = append(lines, resultLine{title: "@" + u.Username, url: "https://www.instagram.com/" + u.Username + "/", note: u.FullName})
		}
		for _, h := range res.Instagram.Hashtags {
			lines = append(lines, resultLine{title: "#" + h.Name, url: "https://www.instagram.com/explore/tags/" + h.Name + "/", note: textutil.FormatCount(h.MediaCount) + " posts"})
		}
		for _, p := range res.Instagram.Places {
			lines = append(lines, resultLine{title: p.Title, note: p.Subtitle})
		}
	case domain.SourceTikTok:
		for _, e := range res.TikTok {
			switch {
			case e.Type == domain.TikTokVideoEntry && e.Video != nil:
				lines = append(lines, resultLine{title: oneLine(e.Video.Description), url: e.Video.URL, note: prefixed("@", e.Video.Author.Username)})
			case e.Type == domain.TikTokUsersEntry:
				for _, u := range e.Users {
					lines = append(lines, resultLine{title: "@" + u.Username, url: u.URL, note: u.Followers + " followers"})
				}
			}
		}
	case domain.SourceLinkedIn:
		for _, p := range res.LinkedIn {
			lines = append(lines, resultLine{title: oneLine(p.Content), url: p.URL, note: p.Author.Name})
		}
	}
	return lines
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

func oneLine(s string) string {
	return normalizeSpaces(s)
}

// FormatSuggestions - первые подсказки каждой категории по платформам
func FormatSuggestions(query string, byPlatform map[string]domain.Suggestions) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Trending for \"%s\"</b>\n", html.EscapeString(query)))

	for _, p := range []string{domain.PlatformGoogle, domain.PlatformYouTube} {
		s, ok := byPlatform[p]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n", platformTitles[p]))

		writeGroup(&sb, "Questions", s.Questions)
		writeGroup(&sb, "Prepositions", s.Prepositions)
		writeGroup(&sb, "Comparisons", s.Comparisons)
		writeGroup(&sb, "A-Z", flattenAlphabetical(s.Alphabetical))
		writeGroup(&sb, "Trending", s.Trending)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeGroup(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	if len(items) > topSuggestions {
		items = items[:topSuggestions]
	}
	escaped := make([]string, len(items))
	for i, it := range items {
		escaped[i] = html.EscapeString(it)
	}
	sb.WriteString(fmt.Sprintf("<i>%s:</i> %s\n", title, strings.Join(escaped, ", ")))
}

func flattenAlphabetical(m map[string][]string) []string {
	letters := make([]string, 0, len(m))
	for l := range m {
		letters = append(letters, l)
	}
	sort.Strings(letters)

	var out []string
	for _, l := range letters {
		out = append(out, m[l]...)
	}
	return out
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}
		// не режем многобайтовую руну
		for splitPoint > 1 && splitPoint < len(text) && !utf8.RuneStart(text[splitPoint]) {
			splitPoint--
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// ищем пробел или перевод строки, не ломая HTML-теги
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}

		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}

	// внутри тега - ищем конец
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				for j := i + 1; j < len(text) && j < i+50; j++ {
					if text[j] == '\n' || text[j] == ' ' {
						return j + 1
					}
				}
				return i + 1
			}
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}

func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}
