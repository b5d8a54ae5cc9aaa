package util

import (
	"net"
	"net/http"
	"strings"
)

var (
	XRealIP       = http.CanonicalHeaderKey("X-Real-Ip")
	XForwardedFor = http.CanonicalHeaderKey("X-Forwarded-For")
)

// FindTrueIP pulls the caller's IP from the connection-level information the
// transport layer gives us, preferring the proxy-supplied headers over the
// raw socket address. Ban accounting keys off this value, so it must never
// come from a query parameter.
func FindTrueIP(r *http.Request) string {
	switch {
	case r.Header.Get(XForwardedFor) != "":
		fwd := r.Header.Get(XForwardedFor)
		s := strings.Index(fwd, ", ")
		if s == -1 {
			s = len(fwd)
		}
		return fwd[:s]
	case r.Header.Get(XRealIP) != "":
		return r.Header.Get(XRealIP)
	default:
		// SplitHostPort handles bracketed IPv6 addresses, which a naive
		// colon split would mangle into a single shared identity
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return host
	}
}
