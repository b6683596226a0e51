package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for dhlottery client acceptance tests
type Config struct {
	DrwNo       int           `env:"DHLOTTERY_TEST_DRW_NO" envDefault:"1100"`
	HTTPTimeout time.Duration `env:"DHLOTTERY_TEST_HTTP_TIMEOUT" envDefault:"30s"`
	BaseURL     string        `env:"DHLOTTERY_TEST_BASE_URL" envDefault:"https://www.dhlottery.co.kr"`
}

func parseConfig() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

// New loads test configuration from environment variables
func New() Config {
	return env.Must(parseConfig())
}
