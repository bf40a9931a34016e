package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"false"`
	JWTSecret     string `env:"JWT_SECRET"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"friender-bender"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	LogJSON       bool   `env:"LOG_JSON" envDefault:"true"`
	LogDebug      bool   `env:"LOG_DEBUG" envDefault:"false"`

	// Matching
	MatchFanoutLimit int           `env:"MATCH_FANOUT_LIMIT" envDefault:"8"`
	DisplayCacheTTL  time.Duration `env:"DISPLAY_CACHE_TTL" envDefault:"5m"`

	// Envío del quiz
	QuizSubmitWindow time.Duration `env:"QUIZ_SUBMIT_WINDOW" envDefault:"1h"`
	QuizSubmitMax    int           `env:"QUIZ_SUBMIT_MAX" envDefault:"10"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
