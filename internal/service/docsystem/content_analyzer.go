package docsystem

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	docsysSvc "reportdesk/internal/domain/services/docsystem"
)

var (
	mdImageOrLink = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdLineMarker  = regexp.MustCompile(`^(?:#{1,6}\s+|>\s*|[-*+]\s+|\d+[.)]\s+)+`)
	mdRule        = regexp.MustCompile(`^(?:[-*_]\s*){3,}$`)
	mdEmphasis    = strings.NewReplacer("**", "", "__", "", "~~", "", "`", "")
)

type contentAnalyzerService struct{}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() docsysSvc.ContentAnalyzer {
	return &contentAnalyzerService{}
}

// CountWords counts words in document text. Han, Hiragana, Katakana and
// Hangul characters count one word each since those scripts do not
// separate words with spaces; other runs are split on whitespace,
// punctuation and symbols.
func (s *contentAnalyzerService) CountWords(text string) int {
	if text == "" || !utf8.ValidString(text) {
		return 0
	}

	count := 0
	inWord := false
	for _, r := range s.CleanMarkdown(text) {
		switch {
		case isIdeographic(r):
			count++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

func isIdeographic(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// CleanMarkdown reduces markdown to its prose: fenced code, rules and
// line markers go, links and images keep their text. Lines are joined
// with spaces.
func (s *contentAnalyzerService) CleanMarkdown(markdown string) string {
	var out []string
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || line == "" || mdRule.MatchString(line) {
			continue
		}

		line = mdLineMarker.ReplaceAllString(line, "")
		line = mdImageOrLink.ReplaceAllString(line, "$1")
		out = append(out, mdEmphasis.Replace(line))
	}
	return strings.Join(out, " ")
}
