package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Supabase SupabaseConfig
	Checkout CheckoutConfig
	Payment  PaymentConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Enabled bool
}

// SupabaseConfig points at the hosted auth/database service. JWTSecret is the
// shared HS256 secret the provider signs access tokens with.
type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	JWTSecret      string
}

type CheckoutConfig struct {
	IntentTTL   time.Duration
	MaxQuantity int
}

type PaymentConfig struct {
	ProcessingDelay time.Duration
}

type AdminConfig struct {
	Email       string
	Password    string
	TokenSecret string
	TokenTTL    time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8084"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:          getEnv("POSTGRES_DSN", ""),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_ADDR", "localhost:9092")},
			GroupID: getEnv("KAFKA_GROUP_ID", "storefront-group"),
			Enabled: getEnvBool("KAFKA_ENABLED", true),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			AnonKey:        getEnv("SUPABASE_ANON_KEY", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		},
		Checkout: CheckoutConfig{
			IntentTTL:   time.Duration(getEnvInt("CHECKOUT_INTENT_TTL_MINUTES", 30)) * time.Minute,
			MaxQuantity: getEnvInt("CHECKOUT_MAX_QUANTITY", 10),
		},
		Payment: PaymentConfig{
			ProcessingDelay: time.Duration(getEnvInt("PAYMENT_DELAY_MS", 3000)) * time.Millisecond,
		},
		Admin: AdminConfig{
			Email:       getEnv("ADMIN_EMAIL", "admin@tickets.ke"),
			Password:    getEnv("ADMIN_PASSWORD", ""),
			TokenSecret: getEnv("ADMIN_TOKEN_SECRET", ""),
			TokenTTL:    time.Duration(getEnvInt("ADMIN_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
