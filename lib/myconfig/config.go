package myconfig

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	BaseURL  string `env:"BASE_URL" env-default:""`
	Currency string `env:"CURRENCY" env-default:"THB"`
	// REDIS_ADDR switches cart storage from the datastore to redis
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
	OrderAPI      OrderAPI
	Omise         Omise
}

type OrderAPI struct {
	URL            string        `env:"ORDER_API_URL"`
	ConsumerKey    string        `env:"ORDER_API_CONSUMER_KEY"`
	ConsumerSecret string        `env:"ORDER_API_CONSUMER_SECRET"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"15s"`
	// Fake replaces the remote order system with an in-memory one for local development
	Fake bool `env:"ORDER_API_FAKE" env-default:"false"`
}

type Omise struct {
	URL                 string        `env:"OMISE_API_URL" env-default:"https://api.omise.co"`
	PublicKey           string        `env:"OMISE_PUBLIC_KEY" env-required:"true"`
	SecretKey           string        `env:"OMISE_SECRET_KEY" env-required:"true"`
	WebhookSecret       string        `env:"OMISE_WEBHOOK_SECRET"`
	MinimumChargeAmount int64         `env:"MINIMUM_CHARGE_AMOUNT" env-default:"2000"`
	ChargeTimeout       time.Duration `env:"CHARGE_TIMEOUT" env-default:"15s"`
}

// Load reads the environment and fails on missing credentials
func Load() (Config, error) {
	cfg := Config{}
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error reading configuration from environment: %s", err)
	}

	err = cfg.validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.Omise.PublicKey == "" || cfg.Omise.SecretKey == "" {
		return fmt.Errorf("missing payment-gateway credentials: [OMISE_PUBLIC_KEY OMISE_SECRET_KEY]")
	}
	if cfg.OrderAPI.Fake {
		return nil
	}
	missing := []string{}
	if cfg.OrderAPI.URL == "" {
		missing = append(missing, "ORDER_API_URL")
	}
	if cfg.OrderAPI.ConsumerKey == "" {
		missing = append(missing, "ORDER_API_CONSUMER_KEY")
	}
	if cfg.OrderAPI.ConsumerSecret == "" {
		missing = append(missing, "ORDER_API_CONSUMER_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing order-system credentials: %v", missing)
	}
	return nil
}

func Usage() string {
	cfg := Config{}
	description, _ := cleanenv.GetDescription(&cfg, nil)
	return description
}
