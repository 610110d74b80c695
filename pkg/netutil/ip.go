package netutil

import (
	"net"
	"net/http"
	"strings"
)

const (
	forwardedForHeaderName = "X-Forwarded-For"
	realIpHeaderName       = "X-Real-Ip"
)

// GetClientIP returns the originating IP of an HTTP request, preferring the
// first address of proxy forwarding headers.
func GetClientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get(forwardedForHeaderName); len(forwardedFor) > 0 {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	if realIp := strings.TrimSpace(r.Header.Get(realIpHeaderName)); net.ParseIP(realIp) != nil {
		return realIp
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
