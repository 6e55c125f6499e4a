package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const DefaultTokenField = "payment_token"

type Config struct {
	Port string `validate:"required,numeric"`

	ProcessorAPIURL   string        `validate:"required,url"`
	ProcessorUsername string        `validate:"required"`
	ProcessorPassword string        `validate:"required"`
	ProcessorTimeout  time.Duration `validate:"min=1s,max=9s"`
	TokenField        string        `validate:"required"`
	AppKey            string        `validate:"required"`

	JaegerEndpoint string
	RedisURL       string
	KafkaBrokers   string
	NatsURL        string

	IPLookupURL string        `validate:"required,url"`
	IPCacheTTL  time.Duration `validate:"min=0"`

	StaticDir          string
	CORSAllowedOrigins []string
}

// Load reads the environment (and an optional .env file) and refuses to
// return a config that cannot talk to the processor.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	timeout, err := durationEnv("PROCESSOR_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := durationEnv("IP_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		ProcessorAPIURL:    strings.TrimRight(os.Getenv("STICKY_API_URL"), "/"),
		ProcessorUsername:  os.Getenv("STICKY_API_USERNAME"),
		ProcessorPassword:  os.Getenv("STICKY_API_PASSWORD"),
		ProcessorTimeout:   timeout,
		TokenField:         getEnv("STICKY_TOKEN_FIELD", DefaultTokenField),
		AppKey:             os.Getenv("STICKY_APP_KEY"),
		JaegerEndpoint:     os.Getenv("JAEGER_ENDPOINT"),
		RedisURL:           os.Getenv("REDIS_URL"),
		KafkaBrokers:       os.Getenv("KAFKA_BROKERS"),
		NatsURL:            os.Getenv("NATS_URL"),
		IPLookupURL:        getEnv("IP_LOOKUP_URL", "https://api.ipify.org?format=json"),
		IPCacheTTL:         ttl,
		StaticDir:          os.Getenv("STATIC_DIR"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", envName(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
}

func envName(field string) string {
	switch field {
	case "Port":
		return "PORT"
	case "ProcessorAPIURL":
		return "STICKY_API_URL"
	case "ProcessorUsername":
		return "STICKY_API_USERNAME"
	case "ProcessorPassword":
		return "STICKY_API_PASSWORD"
	case "ProcessorTimeout":
		return "PROCESSOR_TIMEOUT"
	case "TokenField":
		return "STICKY_TOKEN_FIELD"
	case "AppKey":
		return "STICKY_APP_KEY"
	case "IPLookupURL":
		return "IP_LOOKUP_URL"
	case "IPCacheTTL":
		return "IP_CACHE_TTL"
	}
	return field
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
