package parser

import "regexp"

// Keywords from newer editions that the bundled grammar rejects. Only the
// first submatch is blanked; the surrounding syntax is already understood.
var editionKeywords = []*regexp.Regexp{
	// unsafe extern "C" { ... } (required since edition 2024)
	regexp.MustCompile(`\b(unsafe)\s+extern\b`),
	// safe fn / safe static items inside extern blocks
	regexp.MustCompile(`\b(safe)\s+(?:fn|static)\b`),
	// async closures: async |x| ..., async move |x| ...
	regexp.MustCompile(`\b(async)\s*(?:move\b\s*)?\|`),
}

// normalizeSource blanks edition keywords with spaces so the grammar accepts
// the item. Byte offsets, and therefore every reported location, are unchanged.
// source is never modified; a copy is returned when anything matches.
func normalizeSource(source []byte) []byte {
	out := source
	copied := false
	for _, re := range editionKeywords {
		for _, m := range re.FindAllSubmatchIndex(out, -1) {
			if !copied {
				out = append([]byte(nil), source...)
				copied = true
			}
			for i := m[2]; i < m[3]; i++ {
				out[i] = ' '
			}
		}
	}
	return out
}
