package web

import (
	"embed"
	"html/template"

	"github.com/russross/blackfriday"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData is everything the form page can show. Only one of Warning, Error
// or Answer is set per render.
type pageData struct {
	Material string
	Warning  string
	Error    string
	Hint     string

	Heading  string
	Answer   template.HTML
	Attempts int
	Elapsed  string
}

const (
	markdownHTMLFlags = blackfriday.HTML_USE_XHTML |
		blackfriday.HTML_SKIP_HTML |
		blackfriday.HTML_SAFELINK

	markdownExtensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_TABLES |
		blackfriday.EXTENSION_FENCED_CODE |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH |
		blackfriday.EXTENSION_SPACE_HEADERS
)

// renderMarkdown converts a model answer to HTML. Raw HTML in the answer is
// dropped and links are limited to safe schemes.
func renderMarkdown(text string) template.HTML {
	renderer := blackfriday.HtmlRenderer(markdownHTMLFlags, "", "")
	out := blackfriday.Markdown([]byte(text), renderer, markdownExtensions)
	return template.HTML(out)
}
