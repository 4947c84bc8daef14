package server

import (
	nethttp "net/http"

	"go-linktrack/internal/conf"

	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server serving router on every path.
func NewHTTPServer(c *conf.Config, router nethttp.Handler) *http.Server {
	var opts = []http.ServerOption{
		http.Address(c.HTTPAddr()),
	}
	if c.HTTPTimeout > 0 {
		opts = append(opts, http.Timeout(c.HTTPTimeout))
	}
	srv := http.NewServer(opts...)
	srv.HandlePrefix("/", router)

	return srv
}
