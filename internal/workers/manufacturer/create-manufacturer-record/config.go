// internal/workers/manufacturer/create-manufacturer-record/config.go
package createmanufacturerrecord

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
