package webhook

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// MaxContentLength is Discord's limit for a message's content, in characters.
const MaxContentLength = 2000

// Compose renders the report text for result.
func Compose(result *domain.ResultSet) string {
	label := result.Source.Label()
	if result.IsEmpty() {
		return "No IP addresses found in " + label
	}
	return "IP addresses found in " + label + ":\n" + strings.Join(result.Strings(), "\n")
}

// Split breaks text into messages of at most limit characters, cutting
// on line boundaries. A single line longer than limit is cut mid-line.
func Split(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		messages []string
		current  strings.Builder
		size     int
	)
	flush := func() {
		if size > 0 {
			messages = append(messages, current.String())
			current.Reset()
			size = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for _, piece := range cutLine(line, limit) {
			n := utf8.RuneCountInString(piece)
			sep := 0
			if size > 0 {
				sep = 1
			}
			if size+sep+n > limit {
				flush()
				sep = 0
			}
			if sep == 1 {
				current.WriteByte('\n')
			}
			current.WriteString(piece)
			size += sep + n
		}
	}
	flush()

	return messages
}

// cutLine splits a line into pieces of at most limit runes.
func cutLine(line string, limit int) []string {
	if utf8.RuneCountInString(line) <= limit {
		return []string{line}
	}
	var pieces []string
	runes := []rune(line)
	for len(runes) > limit {
		pieces = append(pieces, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(pieces, string(runes))
}
