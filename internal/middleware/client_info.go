package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// ClientInfo is the network identity of the caller, stored with activity log entries
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// ClientInfoMiddleware extracts the client IP and user agent into the request context.
// The first X-Forwarded-For hop wins, then X-Real-IP, then the connection address.
func ClientInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := ClientInfo{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}
		ctx := context.WithValue(r.Context(), clientInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientInfo retrieves the client info from context
func GetClientInfo(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey).(ClientInfo)
	return info
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
