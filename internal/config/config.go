package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Tenancy   TenancyConfig
	Bunny     BunnyConfig
	Watermark WatermarkConfig
	Storage   StorageConfig
	App       AppConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig carries two token contracts: the external identity provider's
// tokens (verified here, never issued) and the API's own backend-scoped
// tokens with a fixed issuer/audience pair.
type AuthConfig struct {
	IdentitySecret   string
	IdentityIssuer   string
	IdentityAudience string
	APISecret        string
	APIIssuer        string
	APIAudience      string
	APITokenHours    int
}

type TenancyConfig struct {
	DefaultSlug  string
	CookieName   string
	CookieMaxAge int
}

// BunnyConfig describes the Bunny Stream account used for video transcoding
// and delivery. TokenSecret signs embed URLs and must match the library's
// token authentication key.
type BunnyConfig struct {
	LibraryID    string
	APIKey       string
	TokenSecret  string
	EmbedBaseURL string
	APIBaseURL   string
	TokenTTL     int
}

type WatermarkConfig struct {
	Secret string
}

type StorageConfig struct {
	Driver      string
	UploadsPath string
	// AWS S3
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucket          string
	// Cloudflare R2
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2AccountID       string
	R2Bucket          string
	R2PublicURL       string
}

type AppConfig struct {
	Env      string
	LogLevel string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnv("POSTGRES_DB", "platform"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			IdentitySecret:   getEnv("IDENTITY_JWT_SECRET", ""),
			IdentityIssuer:   getEnv("IDENTITY_ISSUER", "https://accounts.ortoclub.com"),
			IdentityAudience: getEnv("IDENTITY_AUDIENCE", "platform-api"),
			APISecret:        getEnv("API_JWT_SECRET", ""),
			APIIssuer:        getEnv("API_TOKEN_ISSUER", "platform-api"),
			APIAudience:      getEnv("API_TOKEN_AUDIENCE", "content-api"),
			APITokenHours:    getEnvAsInt("API_TOKEN_HOURS", 24),
		},
		Tenancy: TenancyConfig{
			DefaultSlug:  getEnv("DEFAULT_TENANT_SLUG", "ortoclub"),
			CookieName:   getEnv("TENANT_COOKIE_NAME", "x-tenant-slug"),
			CookieMaxAge: getEnvAsInt("TENANT_COOKIE_MAX_AGE", 31536000),
		},
		Bunny: BunnyConfig{
			LibraryID:    getEnv("BUNNY_LIBRARY_ID", ""),
			APIKey:       getEnv("BUNNY_API_KEY", ""),
			TokenSecret:  getEnv("BUNNY_TOKEN_SECRET", ""),
			EmbedBaseURL: getEnv("BUNNY_EMBED_BASE_URL", "https://iframe.mediadelivery.net/embed"),
			APIBaseURL:   getEnv("BUNNY_API_BASE_URL", "https://video.bunnycdn.com"),
			TokenTTL:     getEnvAsInt("BUNNY_TOKEN_TTL", 3600),
		},
		Watermark: WatermarkConfig{
			Secret: getEnv("WATERMARK_SECRET", ""),
		},
		Storage: StorageConfig{
			Driver:             getEnv("STORAGE_DRIVER", "local"),
			UploadsPath:        getEnv("UPLOADS_PATH", "./uploads"),
			AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			AWSBucket:          getEnv("AWS_BUCKET", ""),
			R2AccessKeyID:      getEnv("R2_ACCESS_KEY_ID", ""),
			R2SecretAccessKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
			R2AccountID:        getEnv("R2_ACCOUNT_ID", ""),
			R2Bucket:           getEnv("R2_BUCKET", ""),
			R2PublicURL:        getEnv("R2_PUBLIC_URL", ""),
		},
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", ""),
		},
	}
}

// Validate enforces the all-or-nothing secret requirements. A deployment
// with a missing secret must fail at startup, never degrade to unsigned
// URLs or unauthenticated access at request time.
func (c *Config) Validate() error {
	var missing []string

	if c.Auth.IdentitySecret == "" {
		missing = append(missing, "IDENTITY_JWT_SECRET")
	}
	if c.Auth.APISecret == "" {
		missing = append(missing, "API_JWT_SECRET")
	}
	if c.Bunny.LibraryID == "" {
		missing = append(missing, "BUNNY_LIBRARY_ID")
	}
	if c.Bunny.TokenSecret == "" {
		missing = append(missing, "BUNNY_TOKEN_SECRET")
	}
	if c.Watermark.Secret == "" {
		missing = append(missing, "WATERMARK_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}

	if c.Bunny.TokenTTL < 600 || c.Bunny.TokenTTL > 3600 {
		return fmt.Errorf("BUNNY_TOKEN_TTL must be between 600 and 3600 seconds, got %d", c.Bunny.TokenTTL)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
