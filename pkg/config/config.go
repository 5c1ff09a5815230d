package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"app-catalog-backend/pkg/catalog"

	"github.com/joho/godotenv"
)

const defaultViewerSecret = "app-catalog-demo-secret"

// Config 应用配置结构
type Config struct {
	// 环境配置
	Environment string
	Port        string

	// 存储配置
	PostgresDSN string
	RemoteURL   string
	RedisURL    string

	// 访客令牌配置
	ViewerTokenSecret string
	DefaultDepartment string

	// 申请提交的模拟延迟
	SubmitDelay time.Duration

	// 每个IP每分钟的请求上限，0表示不限流
	RateLimitPerMinute int

	// CORS配置
	AllowedOrigins []string

	// 日志配置
	LogLevel  string
	LogFormat string

	// 调试配置
	Debug bool
}

// LoadConfig 加载配置（支持本地和Vercel环境）
func LoadConfig() *Config {
	// 根据环境加载对应的 .env 文件
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development" // 默认开发环境
	}

	// 已存在的环境变量优先，文件不存在时静默忽略
	switch env {
	case "production":
		_ = godotenv.Load(".env.production")
	default:
		_ = godotenv.Load(".env.local")
	}

	config := &Config{
		Environment:        getEnvWithDefault("ENVIRONMENT", "development"),
		Port:               getEnvWithDefault("PORT", "3000"),
		ViewerTokenSecret:  getEnvWithDefault("VIEWER_TOKEN_SECRET", defaultViewerSecret),
		DefaultDepartment:  getEnvWithDefault("DEFAULT_DEPARTMENT", "Engineering"),
		SubmitDelay:        time.Duration(getEnvInt("SUBMIT_DELAY_MS", 1500)) * time.Millisecond,
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvWithDefault("LOG_FORMAT", "console"),
		Debug:              getEnvBool("DEBUG", false),
	}

	// Trim whitespace to avoid trailing spaces/newlines from env sources
	config.PostgresDSN = strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	config.RemoteURL = strings.TrimSpace(os.Getenv("CATALOG_REMOTE_URL"))
	config.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	// CORS配置
	allowedOrigins := getEnvWithDefault("ALLOWED_ORIGINS", "*")
	if allowedOrigins == "*" {
		config.AllowedOrigins = []string{"*"}
	} else {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				config.AllowedOrigins = append(config.AllowedOrigins, origin)
			}
		}
	}

	// 生产环境关闭调试，日志改为JSON
	if config.Environment == "production" {
		config.Debug = false
		if os.Getenv("LOG_FORMAT") == "" {
			config.LogFormat = "json"
		}
	}
	if config.Debug && os.Getenv("LOG_LEVEL") == "" {
		config.LogLevel = "debug"
	}

	return config
}

// Cached config (initialized once per cold start)
var (
	cachedConfig *Config
	configOnce   sync.Once
)

// GetCached returns the process-wide cached Config.
// On serverless (Vercel), it initializes once per cold start and
// reuses it across warm invocations, avoiding per-request parsing.
func GetCached() *Config {
	configOnce.Do(func() {
		cachedConfig = LoadConfig()
	})
	return cachedConfig
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.ViewerTokenSecret == "" || c.ViewerTokenSecret == defaultViewerSecret {
		if c.IsProduction() {
			return fmt.Errorf("VIEWER_TOKEN_SECRET must be set in production")
		}
	}

	if !catalog.IsDepartment(c.DefaultDepartment) {
		return fmt.Errorf("DEFAULT_DEPARTMENT %q is not a known department", c.DefaultDepartment)
	}

	if c.SubmitDelay < 0 {
		return fmt.Errorf("SUBMIT_DELAY_MS must not be negative")
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}

	return nil
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// 辅助函数

// getEnvWithDefault 获取环境变量，如果不存在则使用默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool 获取布尔类型的环境变量
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt 获取整数类型的环境变量
func getEnvInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
