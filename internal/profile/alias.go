package profile

import "strings"

// FlattenAlias normalizes a "formerly known as" value into a flat
// comma-separated list by splitting out nested parenthetical renderings:
//
//	"Lim Chanmi (임찬미 (林澯美))" -> "Lim Chanmi, 임찬미, 林澯美"
//	"Tae E (태이), Jian (지안)"   -> "Tae E, 태이, Jian, 지안"
//
// Whitespace around parens and commas is discarded.
func FlattenAlias(value string) string {
	var parts []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			parts = append(parts, s)
		}
		cur.Reset()
	}
	for _, r := range value {
		switch r {
		case '(', ')', ',':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return strings.Join(parts, ", ")
}
