// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（API 密钥、存储凭证）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置
//
// 使用方式：
//   - 开发环境: APP_ENV=dev (默认)
//   - 测试环境: APP_ENV=test
//   - 生产环境: APP_ENV=prod
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	AWS      AWSConfig      `yaml:"aws"`
	Registry RegistryConfig `yaml:"registry"`
	Redis    RedisConfig    `yaml:"redis"`
	MinIO    MinIOConfig    `yaml:"minio"`
	LLM      LLMConfig      `yaml:"llm"`
	MCP      MCPConfig      `yaml:"mcp"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// AWSConfig 生成产物引用的区域等 AWS 级配置
type AWSConfig struct {
	Region          string `yaml:"region"`
	DocumentsBucket string `yaml:"documents_bucket"`
}

// RegistryConfig 项目注册表配置
//
// driver 取值 mongodb / sqlite，空值时根据 URL 探测。
type RegistryConfig struct {
	Driver     string `yaml:"driver"`
	URL        string `yaml:"url"`
	Database   string `yaml:"database"`
	Table      string `yaml:"table"`
	SQLitePath string `yaml:"sqlite_path"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	DB   int    `yaml:"db"`
}

// MinIOConfig 对象存储配置
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LLMConfig LLM 服务配置
type LLMConfig struct {
	DefaultModel string `yaml:"default_model"`
	Endpoint     string `yaml:"endpoint"` // 通用家族的 HTTP 端点
}

// MCPConfig 远程产物生成微服务配置
type MCPConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env             Environment
	APIPort         string
	Region          string
	DocumentsBucket string
	Registry        RegistryConfig
	RedisURL        string
	MinIO           MinIOConfig
	LLM             LLMConfig
	MCP             MCPConfig

	// 凭证（仅来自环境变量）
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 环境变量覆盖，构建最终配置
func Load() *Config {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	env := parseEnv(getEnv("APP_ENV", "dev"))
	yamlCfg := loadYAMLConfig(env)

	cfg := &Config{
		Env:             env,
		APIPort:         getEnv("API_PORT", yamlCfg.Server.Port),
		Region:          getEnv("REGION", yamlCfg.AWS.Region),
		DocumentsBucket: getEnv("DOCUMENTS_BUCKET", yamlCfg.AWS.DocumentsBucket),
		Registry:        yamlCfg.Registry,
		RedisURL:        getEnv("REDIS_URL", buildRedisURL(yamlCfg.Redis)),
		MinIO:           yamlCfg.MinIO,
		LLM:             yamlCfg.LLM,
		MCP:             yamlCfg.MCP,
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
	}

	// 环境变量覆盖
	if v := os.Getenv("MONGO_URL"); v != "" {
		cfg.Registry.URL = v
	}
	if v := os.Getenv("PROJECTS_TABLE"); v != "" {
		cfg.Registry.Table = v
	}
	if v := os.Getenv("MCP_BASE_URL"); v != "" {
		cfg.MCP.BaseURL = v
	}
	if v := os.Getenv("LLM_ENDPOINT"); v != "" {
		cfg.LLM.Endpoint = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}

	cfg.Registry.Driver = detectRegistryDriver(cfg.Registry.Driver, cfg.Registry.URL)
	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	cfg := &YAMLConfig{
		Server: ServerConfig{Port: "8080"},
		AWS:    AWSConfig{Region: "us-east-1", DocumentsBucket: "arquitecto-documents"},
		Registry: RegistryConfig{
			URL:      "mongodb://localhost:27017",
			Database: "arquitecto",
			Table:    "projects",
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379, DB: 0},
		MinIO: MinIOConfig{Endpoint: "localhost:9000"},
		LLM:   LLMConfig{DefaultModel: "claude-haiku-4-5-20251001"},
	}

	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

// detectRegistryDriver 探测注册表驱动
//
// 优先级：YAML 显式配置 > URL 前缀 > 默认 mongodb
func detectRegistryDriver(yamlDriver, url string) string {
	switch strings.ToLower(yamlDriver) {
	case "sqlite":
		return "sqlite"
	case "mongodb", "mongo":
		return "mongodb"
	}
	switch {
	case strings.HasPrefix(url, "file:"), strings.HasPrefix(url, "sqlite:"):
		return "sqlite"
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return "mongodb"
	}
	return "mongodb"
}

// buildRedisURL 构建 Redis 连接字符串
func buildRedisURL(redis RedisConfig) string {
	return fmt.Sprintf("redis://%s:%d/%d", redis.Host, redis.Port, redis.DB)
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// String 返回配置摘要（隐藏凭证）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Region: %s, Bucket: %s, Registry: %s/%s}",
		c.Env, c.Region, c.DocumentsBucket, c.Registry.Driver, c.Registry.Table)
}
