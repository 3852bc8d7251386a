// Package server builds the http.Server with sane production timeouts.
//
// Context
// -------
// Every timeout below exists to shed slowloris-style clients and stuck
// upstreams before they pin a goroutine forever.  Values are deliberately
// conservative for an HTML-serving workload.
package server

import (
	"net/http"
	"time"
)

// New returns an http.Server bound to addr with hardened timeouts.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
