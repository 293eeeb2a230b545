package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"golang.org/x/time/rate"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/conf"
)

var ErrRateLimited = errors.New(http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")

const maxTrackedClients = 10000

// clientLimiters holds one token bucket per client key.
type clientLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiters{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[key]
	if !ok {
		if len(c.limiters) >= maxTrackedClients {
			c.evictIdle()
		}
		l = rate.NewLimiter(c.limit, c.burst)
		c.limiters[key] = l
	}
	return l.Allow()
}

// evictIdle drops buckets that have refilled completely; a fresh bucket
// behaves the same.
func (c *clientLimiters) evictIdle() {
	for key, l := range c.limiters {
		if l.Tokens() >= float64(c.burst) {
			delete(c.limiters, key)
		}
	}
}

// RateLimitMiddleware limits requests per actor, or per client address for
// anonymous requests. A non-positive auth.rate_limit disables it.
func RateLimitMiddleware(c *conf.Auth) (middleware.Middleware, error) {
	if c == nil || c.RateLimit <= 0 {
		return func(handler middleware.Handler) middleware.Handler { return handler }, nil
	}
	proxies, err := parseTrustedProxies(c.TrustedProxies)
	if err != nil {
		return nil, err
	}
	limiters := newClientLimiters(rate.Limit(c.RateLimit), c.RateBurst)

	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if !limiters.allow(clientKey(ctx, proxies)) {
				return nil, ErrRateLimited
			}
			return handler(ctx, req)
		}
	}, nil
}

func clientKey(ctx context.Context, proxies trustedProxies) string {
	if actor := auth.FromContext(ctx); actor.Authenticated() {
		return "user:" + actor.UserID
	}

	tr, ok := transport.FromServerContext(ctx)
	if !ok {
		return "anonymous"
	}
	if ht, ok := tr.(khttp.Transporter); ok {
		return "ip:" + proxies.clientAddr(ht.Request())
	}
	return "anonymous"
}

// trustedProxies holds the networks allowed to report a client address in
// X-Forwarded-For.
type trustedProxies []netip.Prefix

func parseTrustedProxies(entries []string) (trustedProxies, error) {
	proxies := make(trustedProxies, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies, nil
}

func (p trustedProxies) contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientAddr returns the peer address. When the peer is a trusted proxy it
// returns the right-most X-Forwarded-For hop that is not a trusted proxy.
func (p trustedProxies) clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil || !p.contains(addr) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		addr = hop.Unmap()
		if !p.contains(addr) {
			break
		}
	}
	return addr.String()
}
