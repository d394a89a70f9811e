package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Mongo struct {
		URI            string `mapstructure:"uri"`
		DB             string `mapstructure:"db"`
		ForceTLSConfig bool   `mapstructure:"force_tls_config"`
		InsecureTLS    bool   `mapstructure:"insecure_tls"`
	} `mapstructure:"mongo"`
	Postgres struct {
		URI string `mapstructure:"uri"`
	} `mapstructure:"postgres"`
	Redis struct {
		Addr          string        `mapstructure:"addr"`
		OwnerCacheTTL time.Duration `mapstructure:"owner_cache_ttl"`
	} `mapstructure:"redis"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Github struct {
		APIURL       string `mapstructure:"api_url"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
	} `mapstructure:"github"`
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (cfg Config, err error) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("mongo.db", "devconnector")
	v.SetDefault("redis.owner_cache_ttl", 10*time.Minute)
	v.SetDefault("auth.token_lifespan", 100*time.Hour)
	v.SetDefault("github.api_url", "https://api.github.com")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("app.port", "PORT", "APP_PORT")
	_ = v.BindEnv("app.env", "GO_ENV")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("mongo.uri", "MONGO_URI")
	_ = v.BindEnv("mongo.db", "MONGO_DB")
	_ = v.BindEnv("mongo.force_tls_config", "MONGO_FORCE_TLS_CONFIG")
	_ = v.BindEnv("mongo.insecure_tls", "MONGO_INSECURE_TLS")
	_ = v.BindEnv("postgres.uri", "POSTGRES_URI")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR", "REDIS_URI", "REDIS_URL")
	_ = v.BindEnv("redis.owner_cache_ttl", "OWNER_CACHE_TTL")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	_ = v.BindEnv("github.api_url", "GITHUB_API_URL")
	_ = v.BindEnv("github.client_id", "GITHUB_CLIENT_ID")
	_ = v.BindEnv("github.client_secret", "GITHUB_SECRET")

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Auth.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET environment variable is not set")
	}
	return cfg, nil
}
