// internal/workers/manufacturer/compare-manufacturers/config.go
package comparemanufacturers

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
