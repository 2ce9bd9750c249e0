package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	s := NewHTMLSanitizer()

	tests := []struct {
		name       string
		input      string
		contains   string
		notContain string
	}{
		{"script removed", `<p>ok</p><script>alert(1)</script>`, "<p>ok</p>", "<script>"},
		{"event handler removed", `<a href="https://example.com" onclick="x()">link</a>`, "https://example.com", "onclick"},
		{"external link opens apart", `<a href="https://example.com">link</a>`, `target="_blank"`, ""},
		{"javascript url removed", `<a href="javascript:alert(1)">x</a>`, "x", "javascript:"},
		{"table kept", `<table><tr><td>单元格</td></tr></table>`, "<td>单元格</td>", ""},
		{"code language kept", `<pre><code class="language-go">x</code></pre>`, `class="language-go"`, ""},
		{"other classes dropped", `<p class="MsoNormal">正文</p>`, "<p>正文</p>", "MsoNormal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.Sanitize(tt.input)
			assert.Contains(t, out, tt.contains)
			if tt.notContain != "" {
				assert.NotContains(t, out, tt.notContain)
			}
		})
	}
}
