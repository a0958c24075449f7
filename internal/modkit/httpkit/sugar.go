package httpkit

import (
	"net/http"

	phttp "codg/internal/platform/net/http"
)

// Get mounts a bodiless GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// Post mounts a POST that ignores the body
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.NoBodyHandler(h))
}

// PostJSON mounts a POST binding and validating a T body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}
