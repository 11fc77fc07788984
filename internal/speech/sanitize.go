package speech

import "strings"

// sanitizer replaces & with a word and drops the characters a shell would
// use for command substitution or chaining.
var sanitizer = strings.NewReplacer(
	"&", "and",
	"`", "",
	"$", "",
	";", "",
	"|", "",
)

// Sanitize returns raw with the denylisted characters removed and the
// surrounding whitespace trimmed. It never fails and is idempotent.
func Sanitize(raw string) string {
	return strings.TrimSpace(sanitizer.Replace(raw))
}
