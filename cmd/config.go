package cmd

import (
	"fmt"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL         string
	DistanceCacheTTL time.Duration

	RabbitMQURL      string
	RabbitMQExchange string

	GeocoderURL    string
	RouterURL      string
	GeoUserAgent   string
	PricingTimeout time.Duration
	RatePerKm      float64

	OwnerTrackingScope string
	ReportSchedule     string

	LogLevel string
	LogFile  string
}

// DSN builds the PostgreSQL connection string from the DB_* keys.
func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}
