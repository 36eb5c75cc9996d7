package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Clients get five seconds to finish their
// request headers, and idle keep-alive connections are reaped after two
// minutes.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
