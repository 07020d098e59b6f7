// internal/workers/manufacturer/calculate-profile-score/config.go
package calculateprofilescore

import "time"

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: 5 * time.Minute,
		Timeout:  30 * time.Second,
	}
}
