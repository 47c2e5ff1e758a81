package telegram

import (
	"strings"
)

type Command string

const (
	CommandSearch   Command = "search"
	CommandTrending Command = "trending"
)

// /search и обычный текст -> поиск, /trending -> подсказки.
// Суффикс @botname у команды отбрасывается.
func ParseQueryCommand(text string) (query string, cmd Command) {
	text = strings.TrimSpace(text)

	if text == "" {
		return "", CommandSearch
	}

	if !strings.HasPrefix(text, "/") {
		return normalizeSpaces(text), CommandSearch
	}

	parts := strings.SplitN(text, " ", 2)
	command := strings.ToLower(parts[0])
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}

	var rest string
	if len(parts) > 1 {
		rest = normalizeSpaces(parts[1])
	}

	switch command {
	case "/search":
		return rest, CommandSearch
	case "/trending":
		return rest, CommandTrending
	default:
		return text, CommandSearch
	}
}

func normalizeSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
