package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Env struct {
	AppAddr string `toml:"app_addr"`
	GinMode string `toml:"gin_mode"`

	DBDriver string `toml:"db_driver"`
	DBDSN    string `toml:"db_dsn"`

	JWTSecret                string        `toml:"jwt_secret"`
	TokenTTL                 time.Duration `toml:"-"`
	TokenTTLRaw              string        `toml:"token_ttl"`
	RequirePhoneVerification bool          `toml:"require_phone_verification"`

	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`

	KafkaBroker string `toml:"kafka_broker"`
	KafkaTopic  string `toml:"kafka_topic"`
	RabbitMQURL string `toml:"rabbitmq_url"`
	SMSQueue    string `toml:"sms_queue"`

	StripeSecretKey string `toml:"stripe_secret_key"`
	PaymentCurrency string `toml:"payment_currency"`
}

// DefaultEnv returns the values used when neither a config file nor the
// environment says otherwise.
func DefaultEnv() Env {
	return Env{
		AppAddr:                  ":8080",
		DBDriver:                 "mysql",
		DBDSN:                    "root:@tcp(127.0.0.1:3306)/swiftlink?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		JWTSecret:                "change-me",
		TokenTTL:                 24 * time.Hour,
		RequirePhoneVerification: true,
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8081",
			"http://localhost:19006",
		},
		KafkaTopic:      "swiftlink.shipments",
		SMSQueue:        "sms.outbound",
		PaymentCurrency: "usd",
	}
}

// LoadEnv reads CONFIG_FILE (TOML) when set, then lets environment
// variables override individual keys.
func LoadEnv() (Env, error) {
	env := DefaultEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &env); err != nil {
			return env, err
		}
	}

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	str("APP_ADDR", &env.AppAddr)
	str("GIN_MODE", &env.GinMode)
	str("DB_DRIVER", &env.DBDriver)
	str("DB_DSN", &env.DBDSN)
	str("JWT_SECRET", &env.JWTSecret)
	str("KAFKA_BROKER", &env.KafkaBroker)
	str("KAFKA_TOPIC", &env.KafkaTopic)
	str("RABBITMQ_URL", &env.RabbitMQURL)
	str("SMS_QUEUE", &env.SMSQueue)
	str("STRIPE_SECRET_KEY", &env.StripeSecretKey)
	str("PAYMENT_CURRENCY", &env.PaymentCurrency)

	if v := strings.TrimSpace(os.Getenv("TOKEN_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return env, fmt.Errorf("TOKEN_TTL: %w", err)
		}
		env.TokenTTL = d
	}
	if v := strings.TrimSpace(os.Getenv("REQUIRE_PHONE_VERIFICATION")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return env, fmt.Errorf("REQUIRE_PHONE_VERIFICATION: %w", err)
		}
		env.RequirePhoneVerification = b
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		env.CORSAllowedOrigins = splitList(v)
	}

	return env, nil
}

func loadFile(path string, env *Env) error {
	if _, err := toml.DecodeFile(path, env); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if env.TokenTTLRaw != "" {
		d, err := time.ParseDuration(env.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("config file %s: token_ttl: %w", path, err)
		}
		env.TokenTTL = d
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
