package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type AppConfig struct {
	Env             string        `validate:"oneof=production development"`
	Port            string        `validate:"required,numeric"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gt=0"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type DbConfig struct {
	Driver         string        `validate:"oneof=mongo memory"`
	URI            string        `validate:"required_if=Driver mongo"`
	Database       string        `validate:"required"`
	Collection     string        `validate:"required"`
	ConnectTimeout time.Duration `validate:"gt=0"`
}

type JWTConfig struct {
	Secret    string        `validate:"required"`
	AccessTTL time.Duration `validate:"gt=0"`
}

type CorsConfig struct {
	AllowedOrigins []string `validate:"min=1,dive,required"`
}

type RateLimitConfig struct {
	Requests int           `validate:"gt=0"`
	Window   time.Duration `validate:"gt=0"`
}

// OwnershipConfig toggles the per-record owner filter on /my-toys/{id} routes.
// Off by default: those routes only compare the query email with the token claim.
type OwnershipConfig struct {
	EnforceRecordOwner bool
}

type Config struct {
	AppConfig       *AppConfig       `validate:"required"`
	DbConfig        *DbConfig        `validate:"required"`
	JWTConfig       *JWTConfig       `validate:"required"`
	CorsConfig      *CorsConfig      `validate:"required"`
	RateLimitConfig *RateLimitConfig `validate:"required"`
	OwnershipConfig *OwnershipConfig `validate:"required"`
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig(logger *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// a missing .env is fine, deployments set the environment directly
		logger.Warn("no .env file loaded, using process environment", zap.Error(err))
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from environment variables only.
func FromEnv() (*Config, error) {
	var errs []error

	/** app config */
	appConfig := &AppConfig{
		Env:             getenv("APP_ENV", "production"),
		Port:            getenv("PORT", "4000"),
		ReadTimeout:     duration("APP_READ_TIMEOUT", 10*time.Second, &errs),
		WriteTimeout:    duration("APP_WRITE_TIMEOUT", 10*time.Second, &errs),
		IdleTimeout:     duration("APP_IDLE_TIMEOUT", 60*time.Second, &errs),
		RequestTimeout:  duration("APP_REQUEST_TIMEOUT", 10*time.Second, &errs),
		ShutdownTimeout: duration("APP_SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
	}

	/** db config */
	dbConfig := &DbConfig{
		Driver:         strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		URI:            os.Getenv("DB_CONNECTION_URI"),
		Database:       getenv("DB_NAME", "eduToyDB"),
		Collection:     getenv("DB_COLLECTION", "toys"),
		ConnectTimeout: duration("DB_CONNECT_TIMEOUT", 15*time.Second, &errs),
	}

	/** jwt config */
	jwtConfig := &JWTConfig{
		Secret:    os.Getenv("JWT_SECRET_KEY"),
		AccessTTL: duration("ACCESS_TTL", time.Hour, &errs),
	}

	/** cors config */
	corsConfig := &CorsConfig{
		AllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}

	/** rate limit config */
	rateLimitConfig := &RateLimitConfig{
		Requests: integer("RATE_LIMIT_REQUESTS", 100, &errs),
		Window:   duration("RATE_LIMIT_WINDOW", time.Minute, &errs),
	}

	ownershipConfig := &OwnershipConfig{
		EnforceRecordOwner: boolean("ENFORCE_RECORD_OWNER", false, &errs),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg := &Config{
		AppConfig:       appConfig,
		DbConfig:        dbConfig,
		JWTConfig:       jwtConfig,
		CorsConfig:      corsConfig,
		RateLimitConfig: rateLimitConfig,
		OwnershipConfig: ownershipConfig,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (a *AppConfig) Addr() string {
	return ":" + a.Port
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func duration(key string, def time.Duration, errs *[]error) time.Duration {
	s := getenv(key, "")
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func integer(key string, def int, errs *[]error) int {
	s := getenv(key, "")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func boolean(key string, def bool, errs *[]error) bool {
	s := getenv(key, "")
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
