// Package statuspage renders the minimal standalone HTML pages shown
// for token- and signature-driven booking endpoints.  Their consumers
// are people clicking email links in a browser, not API clients, so
// errors must read as friendly pages rather than JSON.
package statuspage

import (
	"bytes"
	"html/template"

	"github.com/labstack/echo/v4"
)

var pageTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f5f5f4; margin: 0; }
  .card { max-width: 28rem; margin: 10vh auto; background: #fff; border-radius: 12px;
          padding: 2rem; text-align: center; box-shadow: 0 1px 4px rgba(0,0,0,.1); }
  .mark { font-size: 3rem; }
  .ok { color: #16a34a; }
  .fail { color: #dc2626; }
  a { color: #2563eb; }
</style>
</head>
<body>
<div class="card">
  <div class="mark {{if .OK}}ok{{else}}fail{{end}}">{{if .OK}}&#10003;{{else}}&#10007;{{end}}</div>
  <h1>{{.Title}}</h1>
  <p>{{.Message}}</p>
  <p><a href="{{.HomeURL}}">Back to the site</a></p>
</div>
</body>
</html>`))

type pageData struct {
	OK      bool
	Title   string
	Message string
	HomeURL string
}

// Render writes the status page with the given HTTP code.  ok selects
// the success or failure mark.
func Render(c echo.Context, code int, ok bool, title, message, homeURL string) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{OK: ok, Title: title, Message: message, HomeURL: homeURL}); err != nil {
		return err
	}
	return c.HTML(code, buf.String())
}
