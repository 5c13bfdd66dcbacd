package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	// writeTimeout sits above the 30s request deadline the middleware
	// enforces so timeout responses can still be written.
	writeTimeout = 35 * time.Second
	idleTimeout  = 60 * time.Second
)

// New builds the API server with the timeouts the docket endpoints need.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
