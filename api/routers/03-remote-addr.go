package routers

import (
	"net"
	"net/http"

	"github.com/sebest/xff"
	"github.com/sirupsen/logrus"
)

// RemoteAddrRouter replaces the request's remote address with the client's IP, without a port.
// X-Forwarded-For is only read when the direct peer sits in one of the trusted subnets, or from
// any peer with trustAnyForward. It runs ahead of the rate limiter, which keys on RemoteAddr.
type RemoteAddrRouter struct {
	next    http.Handler
	resolve http.Handler
}

func NewRemoteAddrRouter(trustAnyForward bool, trustedProxies []string, next http.Handler) *RemoteAddrRouter {
	h := &RemoteAddrRouter{next: next}
	normalise := http.HandlerFunc(h.normalise)

	var resolver *xff.XFF
	var err error
	if trustAnyForward {
		resolver, err = xff.Default()
	} else if len(trustedProxies) > 0 {
		// An empty subnet list means "allow everyone" to xff, so it never gets here
		resolver, err = xff.New(xff.Options{AllowedSubnets: trustedProxies})
	}
	if err != nil {
		logrus.Error("Invalid trusted proxy list, ignoring X-Forwarded-For: ", err)
		resolver = nil
	}

	if resolver != nil {
		h.resolve = resolver.Handler(normalise)
	} else {
		h.resolve = normalise
	}
	return h
}

func (h *RemoteAddrRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.resolve.ServeHTTP(w, r)
}

func (h *RemoteAddrRouter) normalise(w http.ResponseWriter, r *http.Request) {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		r.RemoteAddr = host
	}

	if h.next != nil {
		h.next.ServeHTTP(w, r)
	}
}
