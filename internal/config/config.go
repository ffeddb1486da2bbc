package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env             string
	AppSecret       string
	DatabaseURL     string
	JWTExpiry       time.Duration
	Port            string
	SiteName        string
	SiteUrl         string
	AniListURL      string
	UpstreamTimeout time.Duration
	RateLimitPerMin int
}

// Load 加载配置
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))
	upstreamTimeout, _ := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "10"))
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_MIN", "60"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "aniview")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", "your-secret-key-change-in-production"))

	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:             getEnv("APP_ENV", "development"),
		AppSecret:       appSecret,
		DatabaseURL:     dbURL,
		JWTExpiry:       time.Duration(expiryHours) * time.Hour,
		Port:            getEnv("PORT", "5008"),
		SiteName:        getEnv("SITE_NAME", "AniView"),
		SiteUrl:         getEnv("SITE_URL", "http://localhost:5008"),
		AniListURL:      getEnv("ANILIST_URL", "https://graphql.anilist.co"),
		UpstreamTimeout: time.Duration(upstreamTimeout) * time.Second,
		RateLimitPerMin: rateLimit,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
