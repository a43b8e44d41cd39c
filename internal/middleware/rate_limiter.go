package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/fakhrymubarak/parade-weather/internal/model"
	"golang.org/x/time/rate"
)

// paramKey is the query parameter key used for per-param rate limiting (default: "city").
var paramKey = "city"

// SetParamKey sets the query parameter key for per-param rate limiting. Used primarily for testing.
func SetParamKey(key string) {
	paramKey = key
}

// visitor holds a rate limiter and the last time its owner was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	// globalVisitors maps IP addresses to their global limiter.
	globalVisitors = make(map[string]*visitor) // key: ip
	// paramVisitors maps IP addresses and parameter values to a per-param limiter.
	paramVisitors = make(map[string]map[string]*visitor) // key: ip -> paramValue -> visitor
	muGlobal      sync.Mutex
	muParam       sync.Mutex
)

// perMinute converts a requests-per-minute config value to a rate.Limit.
func perMinute(n float64) rate.Limit {
	return rate.Limit(n / 60.0)
}

// getGlobalLimiter returns the rate limiter for the given IP address, creating one if it does not exist.
func getGlobalLimiter(ip string) *rate.Limiter {
	muGlobal.Lock()
	defer muGlobal.Unlock()
	v, exists := globalVisitors[ip]
	if !exists {
		r, burst := config.GetGlobalRateLimiterConfig()
		limiter := rate.NewLimiter(perMinute(r), burst)
		globalVisitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// getParamLimiter returns the rate limiter for the given IP address and parameter value, creating one if it does not exist.
func getParamLimiter(ip, param string) *rate.Limiter {
	muParam.Lock()
	defer muParam.Unlock()
	if _, ok := paramVisitors[ip]; !ok {
		paramVisitors[ip] = make(map[string]*visitor)
	}
	v, exists := paramVisitors[ip][param]
	if !exists {
		r, burst := config.GetParamRateLimiterConfig()
		limiter := rate.NewLimiter(perMinute(r), burst)
		paramVisitors[ip][param] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes entries not seen within maxIdle.
func cleanupVisitors(maxIdle time.Duration) {
	muGlobal.Lock()
	for ip, v := range globalVisitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(globalVisitors, ip)
		}
	}
	muGlobal.Unlock()

	muParam.Lock()
	for ip, paramMap := range paramVisitors {
		for param, v := range paramMap {
			if time.Since(v.lastSeen) > maxIdle {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(paramVisitors, ip)
		}
	}
	muParam.Unlock()
}

// StartRateLimiterCleanup starts a background goroutine that drops stale visitors every minute
// until stop is closed.
func StartRateLimiterCleanup(stop <-chan struct{}) {
	maxIdle := config.GetRateLimiterCleanupTimeout()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				cleanupVisitors(maxIdle)
			}
		}
	}()
}

// ResetVisitors clears all visitor states for both global and per-param limiters. Used primarily for testing.
func ResetVisitors() {
	muGlobal.Lock()
	for k := range globalVisitors {
		delete(globalVisitors, k)
	}
	muGlobal.Unlock()
	muParam.Lock()
	for k := range paramVisitors {
		delete(paramVisitors, k)
	}
	muParam.Unlock()
}

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are not
// read here; chi's RealIP middleware rewrites RemoteAddr when the server runs
// behind a trusted proxy (server.trust_proxy).
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

// AllowParam reports whether ip may make another request for value under the
// per-param limit. An empty value is always allowed.
func AllowParam(ip, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return true
	}
	return getParamLimiter(ip, value).Allow()
}

// WriteParamLimitExceeded responds 429 for a per-param limit breach.
func WriteParamLimitExceeded(w http.ResponseWriter) {
	limit, _ := config.GetParamRateLimiterConfig()
	writeTooManyRequests(w,
		fmt.Sprintf("Rate limit exceeded: max %g requests per minute per unique %s per user/IP", limit, paramKey),
		"Too Many Requests (per-param limit)")
}

func writeTooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse(errMsg, message))
}

// RateLimitMiddleware enforces a global per-IP limit and, when the configured
// query parameter is present, a per-IP-per-value limit. Handlers that carry the
// value in a body apply AllowParam themselves. Exceeding either
// responds 429 with a JSON error.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !getGlobalLimiter(ip).Allow() {
			limit, _ := config.GetGlobalRateLimiterConfig()
			writeTooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", limit),
				"Too Many Requests (global limit)")
			return
		}
		if !AllowParam(ip, r.URL.Query().Get(paramKey)) {
			WriteParamLimitExceeded(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
