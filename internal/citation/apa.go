// Package citation finds APA-style in-text citations and checks them against
// the essay's reference section.
package citation

import (
	"context"
	"regexp"
	"strings"
)

const (
	author     = "[A-Z][A-Za-z'`-]+"
	additional = `(?:,? (?:(?:and |& )?` + author + `|et al\.?))`
	yearNum    = `(?:19|20)[0-9]{2}`
	page       = `(?:, p\.? [0-9]+)?`
	year       = `(?:, *` + yearNum + page + `| *\(` + yearNum + page + `\))`
)

var (
	citationRe = regexp.MustCompile(author + additional + "*" + year)
	leadRe     = regexp.MustCompile("^" + author)
	markerRe   = regexp.MustCompile("(?i)reference")
)

// Checker implements port.CitationChecker for APA citations such as
// "Smith (2019)", "Smith and Jones, 2020" or "Lee et al. (2018, p. 4)".
type Checker struct{}

func New() *Checker {
	return &Checker{}
}

// Citations returns every in-text citation found before the reference
// section, or in the whole text when there is none.
func (c *Checker) Citations(text string) []string {
	body, _ := split(text)
	return citationRe.FindAllString(body, -1)
}

// MissingReferences counts citations whose lead author does not appear in the
// text after the last occurrence of "reference". Without such a section every
// citation is missing.
func (c *Checker) MissingReferences(_ context.Context, text string) (int, error) {
	body, refs := split(text)
	cites := citationRe.FindAllString(body, -1)
	if refs == "" {
		return len(cites), nil
	}

	refs = strings.ToLower(refs)
	missing := 0
	for _, cite := range cites {
		lead := strings.ToLower(leadRe.FindString(cite))
		if !strings.Contains(refs, lead) {
			missing++
		}
	}
	return missing, nil
}

// split divides text at the last case-insensitive "reference" marker.
func split(text string) (body, refs string) {
	found := markerRe.FindAllStringIndex(text, -1)
	if len(found) == 0 {
		return text, ""
	}
	last := found[len(found)-1]
	return text[:last[0]], text[last[1]:]
}
