package xmlwire

import "strings"

// escaper rewrites the five reserved XML characters. Applied to text
// content only, never to tag names.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape returns s with the five reserved characters replaced by their
// entity forms.
func Escape(s string) string { return escaper.Replace(s) }
