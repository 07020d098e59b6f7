// internal/workers/manufacturer/find-similar/config.go
package findsimilar

import "time"

type Config struct {
	IndexName     string
	MaxCandidates int
	MaxResults    int
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		IndexName:     "manufacturers",
		MaxCandidates: 200,
		MaxResults:    10,
		Timeout:       15 * time.Second,
	}
}
