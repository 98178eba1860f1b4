package routers

import (
	"net/http"
)

// StoryHeaders are set on every API response, errors included.
var StoryHeaders = http.Header{
	"Cross-Origin-Resource-Policy": {"cross-origin"},
	"X-Content-Type-Options":       {"nosniff"},
	"Referrer-Policy":              {"same-origin"},
	"Server":                       {"betweenmeandyusan"},
}

type ResponseHeadersRouter struct {
	headers http.Header
	next    http.Handler
}

func NewResponseHeadersRouter(headers http.Header, next http.Handler) *ResponseHeadersRouter {
	return &ResponseHeadersRouter{headers: headers.Clone(), next: next}
}

func (h *ResponseHeadersRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	out := w.Header()
	for name, values := range h.headers {
		out[name] = append([]string(nil), values...)
	}

	if h.next != nil {
		h.next.ServeHTTP(w, r)
	}
}
