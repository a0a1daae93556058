package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"pathmed-service/pkg/response"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

// idleTTL is how long a client's bucket survives without requests.
const idleTTL = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// store holds one token bucket per client IP.
type store struct {
	mu        sync.Mutex
	clients   map[string]*client
	rps       rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func newStore(rps float64, burst int) *store {
	return &store{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (s *store) limiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	c, ok := s.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.clients[ip] = c
	}
	c.lastSeen = now

	return c.limiter
}

// sweep drops idle buckets at most once per idleTTL. Caller holds mu.
func (s *store) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < idleTTL {
		return
	}

	for ip, c := range s.clients {
		if now.Sub(c.lastSeen) >= idleTTL {
			delete(s.clients, ip)
		}
	}

	s.lastSweep = now
}

// New limits requests per client IP, taken from RemoteAddr. A non-positive rps disables limiting.
func New(log *slog.Logger, rps float64, burst int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}

		log := log.With(
			slog.String("component", "middleware/ratelimit"),
		)

		s := newStore(rps, burst)

		log.Info("Rate limit middleware enabled", slog.Float64("rps", rps), slog.Int("burst", burst))

		fn := func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if !s.limiter(ip).Allow() {
				log.Warn("Rate limit exceeded",
					slog.String("ip", ip),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(string(response.RATE_LIMITED), "rate limit exceeded, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
