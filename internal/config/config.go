package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error merging test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// getDuration reads a duration key, falling back to def when unset or invalid.
func getDuration(key string, def time.Duration) time.Duration {
	initConfig()
	durStr := viper.GetString(key)
	if durStr == "" {
		return def
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return def
	}
	return dur
}

func GetOpenWeatherApiUrl() string {
	initConfig()
	return viper.GetString("openweathermap.api_url")
}

func GetOpenWeatherForecastUrl() string {
	initConfig()
	return viper.GetString("openweathermap.forecast_url")
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

func GetNominatimApiUrl() string {
	initConfig()
	return viper.GetString("nominatim.api_url")
}

// GetNominatimUserAgent returns the User-Agent sent to Nominatim, which rejects anonymous clients.
func GetNominatimUserAgent() string {
	initConfig()
	ua := viper.GetString("nominatim.user_agent")
	if ua == "" {
		ua = "parade-weather/1.0"
	}
	return ua
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetServerPort() string {
	initConfig()
	serverPort := viper.GetString("server.port")
	return serverPort
}

// GetTrustProxy reports whether X-Forwarded-For / X-Real-IP from the immediate
// peer are trusted for client identification.
func GetTrustProxy() bool {
	initConfig()
	return viper.GetBool("server.trust_proxy")
}

// GetServerTimeoutDuration parses server.<key> as a duration, defaulting to def.
func GetServerTimeoutDuration(key string, def time.Duration) time.Duration {
	return getDuration("server."+key, def)
}

// GetHTTPClientTimeout returns the timeout for outbound provider calls. Defaults to 10s.
func GetHTTPClientTimeout() time.Duration {
	return getDuration("http_client.timeout", 10*time.Second)
}

// GetSubmissionLockTTL returns how long an in-flight submission blocks a resubmission. Defaults to 30s.
func GetSubmissionLockTTL() time.Duration {
	return getDuration("submission.lock_ttl", 30*time.Second)
}

// GetBreakerConfig returns the consecutive failure count that opens the provider
// circuit breaker and how long it stays open.
func GetBreakerConfig() (failures uint32, openTimeout time.Duration) {
	initConfig()
	failures = viper.GetUint32("breaker.consecutive_failures")
	if failures == 0 {
		failures = 5
	}
	openTimeout = getDuration("breaker.open_timeout", 30*time.Second)
	return
}

func GetTestRedisMockPort() string {
	initConfig()
	return viper.GetString("test.redis_mock_port")
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	return getDuration("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the per-minute rate and burst for the global rate limiter from config.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the per-minute rate and burst for the per-city rate limiter from config.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}
