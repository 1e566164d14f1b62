package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Recipes  RecipeConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	LogLevel    string
	LogFormat   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig selects the blob store for recipe images and avatars.
// Driver is "local" or "s3".
type StorageConfig struct {
	Driver    string
	LocalDir  string
	LocalURL  string // public URL prefix the local directory is served under
	S3        S3Config
	MaxSizeMB int
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// RecipeConfig holds the domain limits the validators and paginator enforce.
type RecipeConfig struct {
	PageSize            int
	MaxPageSize         int
	RecipesLimitDefault int
	CookingTimeMin      int
	AmountMin           int
	ShortLinkLength     int
	ShortLinkPrefix     string
}

// DefaultRecipeConfig returns the limits used when no environment overrides exist.
func DefaultRecipeConfig() RecipeConfig {
	return RecipeConfig{
		PageSize:            6,
		MaxPageSize:         100,
		RecipesLimitDefault: 3,
		CookingTimeMin:      1,
		AmountMin:           1,
		ShortLinkLength:     8,
		ShortLinkPrefix:     "/s/",
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	defaults := DefaultRecipeConfig()

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", ""),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "foodgram"),
			Password: getEnv("DB_PASSWORD", "foodgram"),
			DBName:   getEnv("DB_NAME", "foodgram"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry: parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "local"),
			LocalDir:  getEnv("STORAGE_LOCAL_DIR", "./media"),
			LocalURL:  getEnv("STORAGE_LOCAL_URL", "/media"),
			MaxSizeMB: parseInt(getEnv("STORAGE_MAX_SIZE_MB", "5"), 5),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", "eu-central-1"),
				Bucket:          getEnv("AWS_S3_BUCKET", "foodgram-media"),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			},
		},
		Recipes: RecipeConfig{
			PageSize:            parseInt(getEnv("PAGINATION_PAGE_SIZE", ""), defaults.PageSize),
			MaxPageSize:         parseInt(getEnv("PAGINATION_MAX_PAGE_SIZE", ""), defaults.MaxPageSize),
			RecipesLimitDefault: parseInt(getEnv("RECIPES_LIMIT_DEFAULT", ""), defaults.RecipesLimitDefault),
			CookingTimeMin:      parseInt(getEnv("COOKING_TIME_MIN", ""), defaults.CookingTimeMin),
			AmountMin:           parseInt(getEnv("AMOUNT_MIN", ""), defaults.AmountMin),
			ShortLinkLength:     parseInt(getEnv("SHORT_LINK_LENGTH", ""), defaults.ShortLinkLength),
			ShortLinkPrefix:     getEnv("SHORT_LINK_PREFIX", defaults.ShortLinkPrefix),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects limits that would make every request fail.
func (c *Config) Validate() error {
	r := c.Recipes
	if r.PageSize < 1 || r.MaxPageSize < r.PageSize {
		return fmt.Errorf("invalid pagination: page size %d, max page size %d", r.PageSize, r.MaxPageSize)
	}
	if r.ShortLinkLength < 1 || r.ShortLinkLength > 32 {
		return fmt.Errorf("short link length must be within 1..32, got %d", r.ShortLinkLength)
	}
	if r.CookingTimeMin < 1 || r.AmountMin < 1 {
		return fmt.Errorf("cooking time and amount minimums must be positive")
	}
	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
