package modkit

import (
	"net/http"

	phttp "codg/internal/platform/net/http"
	str "codg/internal/platform/strings"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies opts
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Mount routes own under Prefix behind the module middlewares
func (b Built) Mount(r phttp.Router, own func(phttp.Router)) {
	r.Route(str.MustPrefix(b.Prefix), func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		if own != nil {
			own(rr)
		}
	})
}

// ModuleName is Name or a panic naming the missing option
func (b Built) ModuleName() string { return str.MustString(b.Name, "module name") }
