package dashboard

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// renderAnswer converts a model answer (treated as markdown) to sanitized
// HTML for the dashboard. Model output is untrusted input.
func renderAnswer(answer string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML([]byte(answer), p, renderer)
	return sanitizer.Sanitize(string(rendered))
}
