package outline

import (
	"regexp"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Override forces a heading level on any block whose text matches Pattern.
type Override struct {
	Name    string
	Pattern *regexp.Regexp
	Level   doctree.Level
}

// DefaultOverrides is evaluated top to bottom; the first match wins.
var DefaultOverrides = []Override{
	{Name: "part", Pattern: regexp.MustCompile(`^(?:Part|PART)\s*[0-9０-９]+[.．]`), Level: 1},
	{Name: "appendix", Pattern: regexp.MustCompile(`^(?:付録|Appendix|APPENDIX)\s*(?:[0-9０-９]+|[A-Z])(?:[.．:：\s]|$)`), Level: 1},
	{Name: "numbered", Pattern: regexp.MustCompile(`^[0-9０-９]+[.．](?:[^0-9０-９]|$)`), Level: 1},
	{Name: "parenthesized", Pattern: regexp.MustCompile(`^[（(][0-9０-９]+[）)]`), Level: 2},
	{Name: "continued", Pattern: regexp.MustCompile(`[（(](?:続き|続|continued)[）)]$`), Level: 2},
}

// matchOverride returns the forced level for text, or 0 when no rule applies.
func matchOverride(rules []Override, text string) doctree.Level {
	for _, o := range rules {
		if o.Pattern.MatchString(text) {
			return o.Level
		}
	}
	return 0
}
