package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// resolveClientIP prefers proxy headers over the socket address. Only the
// first hop of X-Forwarded-For is used.
func resolveClientIP(_ context.Context, r *http.Request) string {
	for _, candidate := range []string{
		r.Header.Get("CF-Connecting-IP"),
		r.Header.Get("X-Forwarded-For"),
		r.Header.Get("X-Real-IP"),
		r.RemoteAddr,
	} {
		if ip := normalizeIP(candidate); ip != "" {
			return ip
		}
	}
	return ""
}

func normalizeIP(raw string) string {
	value, _, _ := strings.Cut(strings.TrimSpace(raw), ",")
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}

	parsed := net.ParseIP(strings.TrimSpace(value))
	if parsed == nil {
		return ""
	}
	return parsed.String()
}
