// Package sanitizer cleans untrusted HTML before it is stored or served.
package sanitizer

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer applies the user-generated-content policy: formatting,
// headings, lists, tables, links and code survive; scripts, event handlers
// and javascript: URLs do not. Safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates the sanitizer shared by upload intake and
// report export
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()

	// Office exports inline their images as data URIs
	policy.AllowDataURIImages()
	// Fenced code keeps its highlighting hint
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	policy.RequireNoReferrerOnFullyQualifiedLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &HTMLSanitizer{policy: policy}
}

// Sanitize returns html with every unsafe element and attribute removed
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
