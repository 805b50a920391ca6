package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Limit is one rate limiter policy.
type Limit struct {
	Max    int
	Window time.Duration
}

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr           string
		Mode           string
		CORSOrigins    []string
		TrustedProxies []string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int
	}
	RateLimit struct {
		Backend       string
		SweepInterval time.Duration
		Signup        Limit
		Login         Limit
		Post          Limit
		Like          Limit
		Comment       Limit
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
}

// Development reports whether error details may be exposed to clients.
func (c Config) Development() bool {
	return c.Server.Mode == ModeDevelopment
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file in the working directory.
func Load() (Config, error) {
	// Variables already present in the environment win over .env.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LINKEDIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.mode", ModeProduction)
	v.SetDefault("server.corsorigins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("server.trustedproxies", []string{})
	v.SetDefault("database.path", "data/linkedin.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 7*24*time.Hour)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.sweepinterval", time.Minute)
	v.SetDefault("ratelimit.signup.max", 5)
	v.SetDefault("ratelimit.signup.window", 15*time.Minute)
	v.SetDefault("ratelimit.login.max", 10)
	v.SetDefault("ratelimit.login.window", 15*time.Minute)
	v.SetDefault("ratelimit.post.max", 20)
	v.SetDefault("ratelimit.post.window", time.Hour)
	v.SetDefault("ratelimit.like.max", 100)
	v.SetDefault("ratelimit.like.window", time.Hour)
	v.SetDefault("ratelimit.comment.max", 50)
	v.SetDefault("ratelimit.comment.window", time.Hour)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth jwt secret is required (LINKEDIN_AUTH_JWTSECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Server.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown rate limit backend %q", c.RateLimit.Backend)
	}
	for name, l := range map[string]Limit{
		"signup":  c.RateLimit.Signup,
		"login":   c.RateLimit.Login,
		"post":    c.RateLimit.Post,
		"like":    c.RateLimit.Like,
		"comment": c.RateLimit.Comment,
	} {
		if l.Max <= 0 || l.Window <= 0 {
			return fmt.Errorf("rate limit %s: max and window must be positive", name)
		}
	}
	return nil
}
