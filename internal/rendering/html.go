package rendering

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Raw HTML inside reports is not passed through; goldmark omits it by default.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// HTML renders markdown as an HTML fragment. GFM tables, strikethrough and
// autolinks are supported.
func HTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", &RenderError{
			Message: "failed to convert markdown",
			Cause:   err,
		}
	}
	return buf.String(), nil
}

// Page describes a standalone report preview page.
type Page struct {
	Identifier string
	Status     string
	Error      string
	Markdown   string
}

type pageData struct {
	Page
	Body template.HTML
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Report · {{.Identifier}}</title>
<style>
body{margin:0;background:#0f172a;color:#e2e8f0;font-family:system-ui,sans-serif}
main{max-width:780px;margin:40px auto;padding:22px 26px;border-radius:20px;border:1px solid rgba(148,163,184,.18);background:rgba(15,23,42,.96)}
.sub{font-size:13px;color:#94a3b8;margin-bottom:16px}
.smiles{color:#38bdf8;font-family:monospace}
.error{color:#f87171}
article{font-size:14px;line-height:1.6}
</style>
</head>
<body>
<main>
<div class="sub"><span class="smiles">{{.Identifier}}</span>{{if .Status}} • {{.Status}}{{end}}</div>
{{if .Error}}<p class="error">Error: {{.Error}}</p>{{else}}<article>{{.Body}}</article>{{end}}
</main>
</body>
</html>
`))

// RenderPage renders a full HTML preview page for one report.
func RenderPage(page Page) (string, error) {
	data := pageData{Page: page}
	if page.Error == "" {
		body, err := HTML(page.Markdown)
		if err != nil {
			return "", err
		}
		// goldmark escapes text and drops raw HTML, so its output is trusted here.
		data.Body = template.HTML(body) //nolint:gosec
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return buf.String(), nil
}
