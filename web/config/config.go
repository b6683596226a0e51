package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration loaded from environment variables
type Config struct {
	HTTPPort string `env:"WEB_HTTP_PORT" envDefault:"8080"`
	HTTPHost string `env:"WEB_HTTP_HOST" envDefault:"localhost"`

	LottoBaseURL            string        `env:"LOTTO_BASE_URL" envDefault:"https://www.dhlottery.co.kr"`
	LottoHTTPClientTimeout  time.Duration `env:"LOTTO_HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
	LottoBasicFetchAttempts uint64        `env:"LOTTO_BASIC_FETCH_ATTEMPTS" envDefault:"1"`
	LottoRetryBackoff       time.Duration `env:"LOTTO_RETRY_BACKOFF" envDefault:"200ms"`
	LottoConcurrentDetail   bool          `env:"LOTTO_CONCURRENT_DETAIL" envDefault:"false"`
	LottoPrizeStrategies    []string      `env:"LOTTO_PRIZE_STRATEGIES" envDefault:"row,tbody" envSeparator:","`
	LottoCacheSize          int           `env:"LOTTO_CACHE_SIZE" envDefault:"512"`
	LottoCacheTTL           time.Duration `env:"LOTTO_CACHE_TTL" envDefault:"1h"`

	WatcherEnabled      bool          `env:"WATCHER_ENABLED" envDefault:"true"`
	WatcherPollInterval time.Duration `env:"WATCHER_POLL_INTERVAL" envDefault:"10m"`
	WatcherMaxProbes    int           `env:"WATCHER_MAX_PROBES" envDefault:"8"`

	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly bool   `env:"LOG_HUMAN_FRIENDLY" envDefault:"false"`
}

// New loads all configuration from environment variables
func New() Config {
	return env.Must(Parse(nil))
}

// Parse loads configuration from the given environment, or from the process
// environment when it is nil
func Parse(environment map[string]string) (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{Environment: environment})
	return cfg, err
}
