// internal/workers/manufacturer/match-criteria/config.go
package matchcriteria

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
