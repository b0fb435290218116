package kis

import "time"

// Config holds the KIS open API connection settings.
type Config struct {
	BaseURL     string        `env:"KIS_BASE_URL" envDefault:"https://openapi.koreainvestment.com:9443"`
	AppKey      string        `env:"KIS_APP_KEY"`
	AppSecret   string        `env:"KIS_APP_SECRET"`
	AccessToken string        `env:"KIS_ACCESS_TOKEN"`
	Timeout     time.Duration `env:"KIS_TIMEOUT" envDefault:"10s"`
	MaxRetries  int           `env:"KIS_MAX_RETRIES" envDefault:"3"`

	CircuitFailureThreshold int           `env:"KIS_CIRCUIT_FAILURE_THRESHOLD" envDefault:"5"`
	CircuitRecoveryTimeout  time.Duration `env:"KIS_CIRCUIT_RECOVERY_TIMEOUT" envDefault:"30s"`
}
