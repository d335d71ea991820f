package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	BulkMaxConcurrency  int           // cap on concurrent per-item operations in a bulk run
	BulkItemTimeout     time.Duration // per-item deadline; a slow item fails, the batch continues
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	maxConc := viper.GetInt("BULK_MAX_CONCURRENCY")
	if maxConc <= 0 {
		maxConc = 8
	}
	itemTimeoutMS := viper.GetInt("BULK_ITEM_TIMEOUT_MS")
	if itemTimeoutMS <= 0 {
		itemTimeoutMS = 5000
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		BulkMaxConcurrency:  maxConc,
		BulkItemTimeout:     time.Duration(itemTimeoutMS) * time.Millisecond,
	}, nil
}
