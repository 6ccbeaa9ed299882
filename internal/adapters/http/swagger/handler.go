// Package swagger serves the API description.
package swagger

import (
	"context"
	"html"
	"net/http"
)

// Register attaches the OpenAPI routes to mux.
//
//	GET /openapi.yaml -> embedded OpenAPI document
//	GET /api-docs     -> the document rendered as a plain HTML page
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})

	page := []byte(indexHead + html.EscapeString(string(OpenAPI)) + indexTail)
	mux.HandleFunc("GET /api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}

const indexHead = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>chatrank API</title>
  </head>
  <body>
    <p><a href="/openapi.yaml">openapi.yaml</a></p>
    <pre id="openapi">`

const indexTail = `</pre>
  </body>
</html>`
