package rendering

import (
	"bytes"
	"html/template"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, "Times New Roman", serif; font-size: 11pt; line-height: 1.5; margin: 2.5cm; color: #111; }
h1 { font-size: 18pt; text-align: center; margin-bottom: 1em; }
h2 { font-size: 13pt; margin-top: 1.5em; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #999; padding: 4px 8px; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>`

var documentTmpl = template.Must(template.New("document").Parse(documentTemplate))

// Document wraps an HTML fragment in a printable page. body must already be sanitized,
// e.g. the output of MarkdownToHTML.
func Document(title, body string) (string, error) {
	var buf bytes.Buffer
	err := documentTmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body), //nolint:gosec // sanitized by MarkdownToHTML
	})
	if err != nil {
		return "", renderError(StageDocument, "execute page template", err)
	}
	return buf.String(), nil
}
