package http

import (
	"net/http"
	"time"
)

var DefaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

type Decoder interface {
	Decode(dst any, src map[string][]string) error
}

type Encoder interface {
	Encode(src any, dst map[string][]string) error
}

// NoCache sets the response headers that keep registration responses out of
// shared caches, as both registration RFCs demand.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("cache-control", "no-store")
	w.Header().Set("pragma", "no-cache")
}
