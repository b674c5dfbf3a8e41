// Package match filters keywords against the text of an extracted block.
package match

import (
	"strings"

	"github.com/law-makers/newswatch/pkg/models"
)

// Keywords returns the keywords that occur verbatim in the title or the body.
// Matching is case-sensitive and the input order is kept.
func Keywords(fields models.ExtractedFields, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(fields.Title, kw) || strings.Contains(fields.Body, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
