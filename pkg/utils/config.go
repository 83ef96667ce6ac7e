package utils

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Geocode  GeocodeConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	CORSOrigins    []string
	BcryptCost     int
	MetricsEnabled bool
}

type DatabaseConfig struct {
	Host      string
	Port      string
	Name      string
	User      string
	Password  string
	MaxConns  int32
	TxTimeout time.Duration
}

// JWTConfig holds two independent signing setups; access and refresh
// tokens never share a secret.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type CookieConfig struct {
	MaxAge int // seconds
}

type GeocodeConfig struct {
	ViaCEPURL     string
	GoogleMapsURL string
	APIKey        string
	Timeout       time.Duration
	RateLimit     float64
	CacheTTL      time.Duration
}

type RedisConfig struct {
	Addr string
	DB   int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "local-market")
	v.SetDefault("PORT", "3333")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_TX_TIMEOUT_SECONDS", 10)
	v.SetDefault("AT_TTL_MINUTES", 15)
	v.SetDefault("RT_TTL_HOURS", 24*7)
	v.SetDefault("COOKIE_MAX_AGE_SECONDS", 60*60*24*7)
	v.SetDefault("VIACEP_URL", "https://viacep.com.br/ws")
	v.SetDefault("GOOGLE_MAPS_URL", "https://maps.googleapis.com/maps/api")
	v.SetDefault("GEOCODE_TIMEOUT_SECONDS", 5)
	v.SetDefault("GEOCODE_RATE_LIMIT", 10)
	v.SetDefault("GEOCODE_CACHE_TTL_HOURS", 24*30)
	v.SetDefault("REDIS_DB", 0)
}

// LoadConfig builds the process configuration once. The .env file is optional;
// environment variables always win.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	config := fromViper(v)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Port:           v.GetString("PORT"),
			Debug:          v.GetBool("DEBUG"),
			LogPath:        v.GetString("LOG_PATH"),
			CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
			BcryptCost:     v.GetInt("BCRYPT_COST"),
			MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		},
		Database: DatabaseConfig{
			Host:      v.GetString("DB_HOST"),
			Port:      v.GetString("DB_PORT"),
			Name:      v.GetString("DB_NAME"),
			User:      v.GetString("DB_USER"),
			Password:  v.GetString("DB_PASS"),
			MaxConns:  v.GetInt32("DB_MAX_CONNS"),
			TxTimeout: time.Duration(v.GetInt("DB_TX_TIMEOUT_SECONDS")) * time.Second,
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("AT_SECRET"),
			RefreshSecret: v.GetString("RT_SECRET"),
			AccessTTL:     time.Duration(v.GetInt("AT_TTL_MINUTES")) * time.Minute,
			RefreshTTL:    time.Duration(v.GetInt("RT_TTL_HOURS")) * time.Hour,
		},
		Cookie: CookieConfig{
			MaxAge: v.GetInt("COOKIE_MAX_AGE_SECONDS"),
		},
		Geocode: GeocodeConfig{
			ViaCEPURL:     v.GetString("VIACEP_URL"),
			GoogleMapsURL: v.GetString("GOOGLE_MAPS_URL"),
			APIKey:        v.GetString("GOOGLE_MAPS_API"),
			Timeout:       time.Duration(v.GetInt("GEOCODE_TIMEOUT_SECONDS")) * time.Second,
			RateLimit:     v.GetFloat64("GEOCODE_RATE_LIMIT"),
			CacheTTL:      time.Duration(v.GetInt("GEOCODE_CACHE_TTL_HOURS")) * time.Hour,
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
			DB:   v.GetInt("REDIS_DB"),
		},
	}
}

// Validate rejects configurations the auth core cannot run with.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("AT_SECRET and RT_SECRET are required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("AT_SECRET and RT_SECRET must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
