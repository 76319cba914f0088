// Package config 提供配置管理
package config

import (
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	App     AppConfig     `yaml:"app"`
	API     APIConfig     `yaml:"api"`
	Solver  SolverConfig  `yaml:"solver"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// APIConfig API配置
type APIConfig struct {
	RateLimit    int           `yaml:"rate_limit"` // 每秒请求数
	RateBurst    int           `yaml:"rate_burst"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// SolverConfig 路线求解引擎配置
type SolverConfig struct {
	TimeLimit     time.Duration `yaml:"time_limit"`     // 单次求解时间预算
	MaxIterations int           `yaml:"max_iterations"` // 局部搜索最大迭代次数
	Workers       int           `yaml:"workers"`        // 并行评估工作数
	Strategy      string        `yaml:"strategy"`       // 初始方案构建策略
	Metaheuristic string        `yaml:"metaheuristic"`  // 局部搜索元启发式
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "luxian"),
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnvInt("APP_PORT", 7030),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		API: APIConfig{
			RateLimit:    getEnvInt("API_RATE_LIMIT", 100),
			RateBurst:    getEnvInt("API_RATE_BURST", 50),
			Timeout:      getEnvDuration("API_TIMEOUT", 60*time.Second),
			MaxBodyBytes: int64(getEnvInt("API_MAX_BODY_BYTES", 4<<20)),
		},
		Solver: SolverConfig{
			TimeLimit:     getEnvDuration("SOLVER_TIME_LIMIT", 30*time.Second),
			MaxIterations: getEnvInt("SOLVER_MAX_ITERATIONS", 10000),
			Workers:       getEnvInt("SOLVER_WORKERS", 4),
			Strategy:      getEnv("SOLVER_STRATEGY", "cheapest_insertion"),
			Metaheuristic: getEnv("SOLVER_METAHEURISTIC", "simulated_annealing"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
