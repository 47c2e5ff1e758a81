package textutil

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var isoDurationRE = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// strict policy вырезает все теги; bluemonday.Policy безопасен для конкурентного использования
var stripPolicy = bluemonday.StrictPolicy()

// ParseDuration переводит ISO-8601 токен (PT1H2M3S) в "1:02:03" или "5:09".
// Если токен не распознан - "0:00".
func ParseDuration(token string) string {
	m := isoDurationRE.FindStringSubmatch(token)
	if m == nil {
		return "0:00"
	}

	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatSeconds - то же самое для длительности, заданной в секундах
func FormatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatCount: >=1M -> "2.3M", >=1K -> "1.5K", иначе число как есть
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// RelativeTime возвращает "just now", "5 minutes ago", "1 hour ago" и т.д.
// Время в будущем считается как "just now".
func RelativeTime(now, t time.Time) string {
	secs := int64(now.Sub(t) / time.Second)
	if secs < 60 {
		return "just now"
	}

	minutes := secs / 60
	if minutes < 60 {
		return ago(minutes, "minute")
	}

	hours := minutes / 60
	if hours < 24 {
		return ago(hours, "hour")
	}

	days := hours / 24
	if days < 7 {
		return ago(days, "day")
	}

	weeks := days / 7
	if weeks < 4 {
		return ago(weeks, "week")
	}

	// 28-29 дней дают 0 месяцев, округляем вверх до одного
	months := max(days/30, 1)
	if months < 12 {
		return ago(months, "month")
	}

	// 360-364 дня: месяцев уже 12, а лет еще 0
	return ago(max(days/365, 1), "year")
}

func ago(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// StripHTML убирает теги и раскодирует сущности (&quot; -> ")
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// Truncate режет строку до max рун
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
