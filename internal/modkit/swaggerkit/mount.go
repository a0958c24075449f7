// Package swaggerkit serves the Swagger UI and the OpenAPI document
package swaggerkit

import (
	"net/http"

	phttp "codg/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocPath is where the OpenAPI document is served
const DocPath = "/api/docs/doc.json"

// Mount the Swagger UI under /api/docs when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get(DocPath, serveDoc)
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("codg"),
		httpSwagger.URL(DocPath),
	))
}

func serveDoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(openAPI))
}
