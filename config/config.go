package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Store backends accepted by MEETING_STORE / --meeting-store.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string
	JWTSecret      string
	LogLevel       string
	MeetingStore   string
	Redis          RedisConfig
	Mongo          MongoConfig
	Hub            HubConfig
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// HubConfig tunes the in-memory presence loop.
type HubConfig struct {
	EmptyRoomTTL  time.Duration
	SweepInterval time.Duration
	SendBuffer    int
}

func Load() *Config {
	// Parse allowed origins (comma-separated)
	originsStr := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	origins := splitOrigins(originsStr)

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: origins,
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		LogLevel:       getEnv("LOG_LEVEL", "debug"),
		MeetingStore:   getEnv("MEETING_STORE", StoreMemory),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "collaborate"),
			ConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Hub: HubConfig{
			EmptyRoomTTL:  getEnvDuration("EMPTY_ROOM_TTL", 10*time.Minute),
			SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Minute),
			SendBuffer:    getEnvInt("SEND_BUFFER", 256),
		},
	}
}

// BindFlags registers command line overrides on fs. Defaults are the values
// already loaded into cfg, so flags only win when set explicitly.
func (cfg *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&cfg.Port, "port", "p", cfg.Port, "http listen port")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "environment (development|production)")
	fs.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "allowed CORS/WebSocket origins")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "HS256 secret for bearer tokens")
	fs.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MeetingStore, "meeting-store", cfg.MeetingStore, "meeting record backend (memory|redis|mongo)")
	fs.StringVar(&cfg.Redis.Host, "redis-host", cfg.Redis.Host, "redis host")
	fs.StringVar(&cfg.Redis.Port, "redis-port", cfg.Redis.Port, "redis port")
	fs.IntVar(&cfg.Redis.DB, "redis-db", cfg.Redis.DB, "redis database")
	fs.StringVar(&cfg.Mongo.URI, "mongo-uri", cfg.Mongo.URI, "mongodb connection uri")
	fs.StringVar(&cfg.Mongo.Database, "mongo-database", cfg.Mongo.Database, "mongodb database")
	fs.DurationVar(&cfg.Hub.EmptyRoomTTL, "empty-room-ttl", cfg.Hub.EmptyRoomTTL, "how long an empty room is kept before it is swept")
	fs.DurationVar(&cfg.Hub.SweepInterval, "sweep-interval", cfg.Hub.SweepInterval, "empty room sweep period")
	fs.IntVar(&cfg.Hub.SendBuffer, "send-buffer", cfg.Hub.SendBuffer, "outbound frames buffered per connection")
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment == "production"
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
