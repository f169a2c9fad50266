package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	AMQP     AMQPConfig
	Services ServicesConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	AppEnv         string
	HTTPPort       string
	GRPCPort       string
	AllowedOrigins []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type JWTConfig struct {
	SecretKey string
}

// RedisConfig with an empty Addr keeps session parameters in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig with no brokers disables the inventory event listener.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// AMQPConfig with an empty URL disables cart event publishing.
type AMQPConfig struct {
	URL            string
	ExchangePrefix string
}

type ServicesConfig struct {
	CatalogURL   string
	InventoryURL string
	CartURL      string
	// Timeout of zero leaves collaborator calls unbounded.
	Timeout time.Duration
}

type CatalogConfig struct {
	Source         string
	Locale         string
	SyncDebounce   time.Duration
	ReloadDebounce time.Duration
	SessionIdleTTL time.Duration
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			AppEnv:         getEnv("APP_ENV", "dev"),
			HTTPPort:       getEnv("HTTP_PORT", ":8080"),
			GRPCPort:       getEnv("GRPC_PORT", ":8082"),
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "storefront"),
			Password:        getEnv("POSTGRES_PASSWORD", "storefront"),
			DBName:          getEnv("POSTGRES_DB", "grocery_catalog"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC_INVENTORY", "inventory.events"),
			GroupID: getEnv("KAFKA_GROUP_STOREFRONT", "storefront"),
		},
		AMQP: AMQPConfig{
			URL:            getEnv("AMQP_URL", ""),
			ExchangePrefix: getEnv("AMQP_EXCHANGE_PREFIX", "storefront"),
		},
		Services: ServicesConfig{
			CatalogURL:   getEnv("CATALOG_URL", "http://localhost:8081"),
			InventoryURL: getEnv("INVENTORY_URL", "http://localhost:8083"),
			CartURL:      getEnv("CART_URL", "http://localhost:8084"),
			Timeout:      getEnvDuration("SERVICES_TIMEOUT", 0),
		},
		Catalog: CatalogConfig{
			Source:         strings.ToLower(getEnv("CATALOG_SOURCE", SourceHTTP)),
			Locale:         getEnv("CATALOG_LOCALE", "en"),
			SyncDebounce:   getEnvDuration("SYNC_DEBOUNCE", 300*time.Millisecond),
			ReloadDebounce: getEnvDuration("RELOAD_DEBOUNCE", time.Second),
			SessionIdleTTL: getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("300ms") or bare milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
