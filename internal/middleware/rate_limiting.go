package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/kinnikutoken/internal/telemetry/metrics"
	"github.com/2beens/kinnikutoken/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

type rateLimitResponse struct {
	Message string `json:"message"`
}

// RateLimit allows allowedPerMin requests per client IP on the given router.
// The client IP is taken from proxy headers only when the peer is a trusted proxy.
// A limiter failure lets the request through.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	trustedProxies pkg.TrustedProxies,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP, err := pkg.ReadUserIP(r, trustedProxies)
			if err != nil {
				clientIP = "unknown"
			}

			res, err := rateLimiter.Allow(
				r.Context(),
				fmt.Sprintf("%s::%s", routerName, clientIP),
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limiter [%s]: %s", routerName, err)
				next.ServeHTTP(w, r)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", res.RetryAfter.Seconds()))
			pkg.WriteJSON(w, rateLimitResponse{
				Message: fmt.Sprintf("Too many requests, retry after %.0f seconds.", res.RetryAfter.Seconds()),
			}, http.StatusTooManyRequests)
		})
	}
}
