package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（对应 config/config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	API      APIConfig      `mapstructure:"api"`      // 对外 API 元信息
	CORS     CORSConfig     `mapstructure:"cors"`     // 跨域配置
	Database DatabaseConfig `mapstructure:"database"` // PostgreSQL 配置
	Scraper  ScraperConfig  `mapstructure:"scraper"`  // HLTV 抓取配置
	Sync     SyncConfig     `mapstructure:"sync"`     // 定时同步配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port  int    `mapstructure:"port"`  // 服务端口
	Mode  string `mapstructure:"mode"`  // Gin运行模式：debug/release/test
	Pprof bool   `mapstructure:"pprof"` // 是否挂载 /debug/pprof
}

// APIConfig 根路径与健康检查返回的服务信息
type APIConfig struct {
	Title   string `mapstructure:"title"`
	Version string `mapstructure:"version"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN（postgres:// URL）
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	LogLevel        string        `mapstructure:"log_level"`         // GORM 日志级别：silent/error/warn/info
	Migrate         string        `mapstructure:"migrate"`           // 建表方式：sql/auto/none
}

// ScraperConfig HLTV 抓取配置
type ScraperConfig struct {
	BaseURL      string        `mapstructure:"base_url"`      // 站点根地址
	Timeout      int           `mapstructure:"timeout"`       // 请求超时（秒）
	RetryCount   int           `mapstructure:"retry_count"`   // 最大尝试次数
	RetryDelay   time.Duration `mapstructure:"retry_delay"`   // 退避基数，第 n 次重试前等待 delay*2^n
	Proxy        string        `mapstructure:"proxy"`         // 代理地址
	UserAgent    string        `mapstructure:"user_agent"`    // 浏览器 UA
	ProxyTimeout int           `mapstructure:"proxy_timeout"` // 队标代理请求超时（秒）
}

// SyncConfig 定时同步配置
type SyncConfig struct {
	Enabled              bool          `mapstructure:"enabled"`                // 是否启动调度器
	MatchesInterval      time.Duration `mapstructure:"matches_interval"`       // 比赛同步间隔
	EventsCron           string        `mapstructure:"events_cron"`            // 赛事列表同步 Cron（UTC）
	HighlightsCron       string        `mapstructure:"highlights_cron"`        // 精彩集锦同步 Cron（UTC）
	HighlightsWindowDays int           `mapstructure:"highlights_window_days"` // 集锦同步回溯天数
	RunOnStartup         bool          `mapstructure:"run_on_startup"`         // 启动时立即执行一次全量同步
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // logrus 级别
	Format string `mapstructure:"format"` // text/json
}

// TimeoutDuration 返回 time.Duration 形式的抓取超时
func (s ScraperConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// ProxyTimeoutDuration 返回队标代理超时
func (s ScraperConfig) ProxyTimeoutDuration() time.Duration {
	return time.Duration(s.ProxyTimeout) * time.Second
}

// HighlightsWindow 集锦同步的回溯窗口
func (s SyncConfig) HighlightsWindow() time.Duration {
	return time.Duration(s.HighlightsWindowDays) * 24 * time.Hour
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.pprof", false)

	v.SetDefault("api.title", "Multistream HLTV API")
	v.SetDefault("api.version", "2.0.0")
	v.SetDefault("cors.origins", []string{"*"})

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.migrate", "sql")

	v.SetDefault("scraper.base_url", "https://www.hltv.org")
	v.SetDefault("scraper.timeout", 30)
	v.SetDefault("scraper.retry_count", 3)
	v.SetDefault("scraper.retry_delay", 2*time.Second)
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36")
	v.SetDefault("scraper.proxy_timeout", 10)

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.matches_interval", 10*time.Minute)
	v.SetDefault("sync.events_cron", "0 0 * * *")
	v.SetDefault("sync.highlights_cron", "0 4 * * *")
	v.SetDefault("sync.highlights_window_days", 7)
	v.SetDefault("sync.run_on_startup", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig 加载配置文件（默认 ./config/config.yaml），敏感项从 .env / 环境变量覆盖
// 配置文件不存在时只使用默认值与环境变量
func LoadConfig(paths ...string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖部署相关配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("API_TITLE"); v != "" {
		cfg.API.Title = v
	}
	if v := os.Getenv("API_VERSION"); v != "" {
		cfg.API.Version = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORS.Origins = origins
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Validate 检查启动必需项
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn 未配置（可通过 DATABASE_URL 设置）")
	}
	switch c.Database.Migrate {
	case "sql", "auto", "none":
	default:
		return fmt.Errorf("database.migrate 取值无效: %q", c.Database.Migrate)
	}
	if c.Scraper.RetryCount <= 0 {
		return fmt.Errorf("scraper.retry_count 必须大于 0，当前为 %d", c.Scraper.RetryCount)
	}
	return nil
}
