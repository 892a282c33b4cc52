package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	LogLevel  string
	LogFormat string

	SiteName               string
	NotificationIcon       string
	DefaultDeliveryMinutes int
	PushTimeout            time.Duration
	PushMaxParallel        int
	VAPIDPublicKey         string
	VAPIDPrivateKey        string
	VAPIDSubject           string

	DriverCapacity        int
	DispatchRadiusMeters  float64
	DispatchRetrySchedule string
	DispatchRetryBatch    int

	// Empty URL or address disables the integration.
	RabbitMQURL        string
	RabbitMQExchange   string
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
}

// LoadConfig reads the environment, loading .env first when the file exists.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var errList []error
	config := Config{
		HTTPPort:   getEnv("HTTP_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "orderhub"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SiteName:               getEnv("SITE_NAME", "OrderHub"),
		NotificationIcon:       getEnv("NOTIFICATION_ICON", "/static/icons/notification.png"),
		DefaultDeliveryMinutes: getEnvInt("DEFAULT_DELIVERY_MINUTES", 45, &errList),
		PushTimeout:            getEnvDuration("PUSH_TIMEOUT", 10*time.Second, &errList),
		PushMaxParallel:        getEnvInt("PUSH_MAX_PARALLEL", 8, &errList),
		VAPIDPublicKey:         getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:        getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:           getEnv("VAPID_SUBJECT", "mailto:admin@orderhub.local"),

		DriverCapacity:        getEnvInt("DRIVER_CAPACITY", 1, &errList),
		DispatchRadiusMeters:  getEnvFloat("DISPATCH_RADIUS_METERS", 0, &errList),
		DispatchRetrySchedule: getEnv("DISPATCH_RETRY_SCHEDULE", "*/15 * * * * *"),
		DispatchRetryBatch:    getEnvInt("DISPATCH_RETRY_BATCH", 50, &errList),

		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange:   getEnv("RABBITMQ_EXCHANGE", "orderhub.events"),
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
	}

	if err := errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) DefaultDelivery() time.Duration {
	return time.Duration(c.DefaultDeliveryMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errList *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64, errList *[]error) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration, errList *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}
