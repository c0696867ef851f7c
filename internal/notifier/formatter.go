package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"bandex/internal/model"
)

// Telegram rejects messages longer than this many characters.
const maxMessageRunes = 4096

// FormatMenuReport wraps rendered menus into an HTML message. The menus are
// preformatted text so the framed headers keep their alignment.
func FormatMenuReport(title string, date time.Time, menus string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🍽 <b>%s</b> | %s\n\n", html.EscapeString(title), date.Format("02/01/2006")))
	b.WriteString("<pre>")
	b.WriteString(html.EscapeString(strings.TrimRight(menus, "\n")))
	b.WriteString("</pre>")
	return b.String()
}

// FormatRestaurantList formats discovered restaurants for /restaurantes.
func FormatRestaurantList(restaurants []model.Restaurant) string {
	if len(restaurants) == 0 {
		return "Nenhum restaurante encontrado."
	}
	var b strings.Builder
	b.WriteString("🏫 <b>Restaurantes</b>\n\n")
	for _, r := range restaurants {
		b.WriteString(fmt.Sprintf("<code>%3d</code> %s\n", r.ID, html.EscapeString(r.Name)))
	}
	return b.String()
}

// HelpText lists the chat commands.
func HelpText() string {
	return "🍽 <b>Bandex</b>\n\n" +
		"/almoco - almoço de hoje\n" +
		"/jantar - jantar de hoje\n" +
		"/hoje - todas as refeições de hoje\n" +
		"/semana - cardápio da semana\n" +
		"/restaurantes - restaurantes disponíveis"
}

// SplitMessage breaks text into chunks Telegram accepts, cutting at line
// boundaries when possible. Every chunk of a <pre> block is closed and reopened.
func SplitMessage(text string) []string {
	if len([]rune(text)) <= maxMessageRunes {
		return []string{text}
	}
	const open, closeTag = "<pre>", "</pre>"
	limit := maxMessageRunes - len(open) - len(closeTag)

	var chunks []string
	var cur strings.Builder
	curLen := 0
	inPre := false
	flush := func() {
		s := cur.String()
		if inPre {
			s += closeTag
		}
		chunks = append(chunks, s)
		cur.Reset()
		curLen = 0
		if inPre {
			cur.WriteString(open)
			curLen = len(open)
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		n := len([]rune(line))
		if curLen+n > limit && curLen > 0 {
			flush()
		}
		cur.WriteString(line)
		curLen += n
		if strings.Contains(line, open) {
			inPre = true
		}
		if strings.Contains(line, closeTag) {
			inPre = false
		}
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
