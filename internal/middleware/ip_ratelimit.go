package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/policyhub/policy-server-go/internal/service"
)

// IPRateLimitMiddleware applies the limiter to every request under a scope.
// Used on the unauthenticated endpoints (login, token exchange, registration).
type IPRateLimitMiddleware struct {
	limiter *service.RateLimiter
	scope   string
}

func NewIPRateLimitMiddleware(limiter *service.RateLimiter, scope string) *IPRateLimitMiddleware {
	return &IPRateLimitMiddleware{
		limiter: limiter,
		scope:   scope,
	}
}

func (m *IPRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, resetAt := m.limiter.Allow(r.Context(), m.scope, clientIP(r))

		if !allowed {
			secondsLeft := int(time.Until(resetAt).Seconds()) + 1
			w.Header().Set("Retry-After", fmt.Sprintf("%d", secondsLeft))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the ephemeral port from RemoteAddr so all connections from
// one address share a bucket. When the request came through a proxy, RealIP
// has already rewritten RemoteAddr to the bare forwarded address.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
