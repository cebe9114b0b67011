package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/amezhanov/storefront-backend/api/responses"
	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
	"github.com/amezhanov/storefront-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// RefreshRateLimitPolicy throttles the catalog refresh surface, which
// fans out into several marketplace API calls per hit.
type RefreshRateLimitPolicy struct {
	window  time.Duration
	ipLimit int
}

// NewRefreshRateLimitPolicy builds a policy with the supplied window and limit.
func NewRefreshRateLimitPolicy(window time.Duration, ipLimit int) RefreshRateLimitPolicy {
	return RefreshRateLimitPolicy{window: window, ipLimit: ipLimit}
}

func (p RefreshRateLimitPolicy) enabled() bool {
	return p.window > 0 && p.ipLimit > 0
}

func (p RefreshRateLimitPolicy) ipKey(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("rl:ip:refresh:%s", ip)
}

// RefreshRateLimit enforces a per-IP counter on the refresh endpoint.
// With no store configured the middleware is a pass-through.
func RefreshRateLimit(policy RefreshRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			key := policy.ipKey(ip)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			count, err := store.IncrWithTTL(ctx, key, policy.window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if count > int64(policy.ipLimit) {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"ip":             ip,
						"attempts":       count,
						"limit":          policy.ipLimit,
						"window_seconds": int(policy.window.Seconds()),
					})
					logg.Warn(logCtx, "refresh.rate_limit.blocked")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
