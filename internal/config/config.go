package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

// Config представляет основную конфигурацию Prophecy Watch.
// Значения берутся из тегов default, затем из файла конфигурации
// (JSON или HCL) и переопределяются переменными окружения.
type Config struct {
	Port      int            `json:"port" hcl:"port" env:"PORT" default:"3000"`
	StaticDir string         `json:"static_dir" hcl:"static_dir" env:"STATIC_DIR" default:"public"`
	Server    ServerConfig   `json:"server" hcl:"server" env:"SERVER"`
	Logger    LoggerConfig   `json:"logger" hcl:"logger" env:"LOG"`
	Push      PushConfig     `json:"push" hcl:"push" env:"VAPID"`
	Fetch     FetchConfig    `json:"fetch" hcl:"fetch" env:"FETCH"`
	Cache     CacheConfig    `json:"cache" hcl:"cache" env:"CACHE"`
	Notify    NotifyConfig   `json:"notify" hcl:"notify" env:"NOTIFY"`
	Database  DatabaseConfig `json:"database" hcl:"database" env:"DATABASE"`
}

// ServerConfig содержит настройки HTTP-сервера.
type ServerConfig struct {
	ShutdownTimeout time.Duration `json:"shutdown_timeout" hcl:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoggerConfig содержит настройки логирования.
// Пустой File означает вывод в stdout, пустой ErrorFile - в stderr.
type LoggerConfig struct {
	Level     string `json:"level" hcl:"level" env:"LEVEL" default:"info"`
	File      string `json:"file" hcl:"file" env:"FILE"`
	ErrorFile string `json:"error_file" hcl:"error_file" env:"ERROR_FILE"`
}

// PushConfig содержит VAPID-ключи Web Push.
// Без пары ключей отправка уведомлений отключена.
type PushConfig struct {
	PublicKey  string `json:"public_key" hcl:"public_key" env:"PUBLIC_KEY"`
	PrivateKey string `json:"private_key" hcl:"private_key" env:"PRIVATE_KEY"`
	Subject    string `json:"subject" hcl:"subject" env:"SUBJECT" default:"mailto:admin@example.com"`
	TTL        int    `json:"ttl" hcl:"ttl" env:"TTL" default:"3600"`
}

// Enabled сообщает, заданы ли оба VAPID-ключа.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// FetchConfig содержит параметры загрузки лент.
type FetchConfig struct {
	Timeout time.Duration `json:"timeout" hcl:"timeout" env:"TIMEOUT" default:"15s"`
	Retries int           `json:"retries" hcl:"retries" env:"RETRIES" default:"1"`
}

// CacheConfig содержит время жизни кэша агрегированных новостей.
type CacheConfig struct {
	TTL time.Duration `json:"ttl" hcl:"ttl" env:"TTL" default:"600s"`
}

// NotifyConfig содержит параметры проверки новых заголовков.
type NotifyConfig struct {
	Interval time.Duration `json:"interval" hcl:"interval" env:"INTERVAL" default:"5m"`
	Title    string        `json:"title" hcl:"title" env:"TITLE" default:"Prophecy Watch — New headline"`
}

// DatabaseConfig содержит строку подключения к PostgreSQL.
// Пустой DSN означает хранение подписок в памяти процесса.
type DatabaseConfig struct {
	DSN string `json:"dsn" hcl:"dsn" env:"DSN"`
}

// Load загружает конфигурацию: значения по умолчанию, затем файл по
// указанному пути (если он существует), затем переменные окружения.
func Load(configPath string) (*Config, error) {
	var cfg Config
	acfg := aconfig.Config{
		SkipFlags:          true,
		AllowUnknownFields: true,
		AllowUnknownEnvs:   true,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	}
	if configPath != "" {
		acfg.Files = []string{configPath}
	}
	loader := aconfig.LoaderFor(&cfg, acfg)
	if err := loader.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	return &cfg, nil
}

// New создает Config со значениями по умолчанию без чтения файлов и окружения.
func New() *Config {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		SkipFiles: true,
		SkipEnv:   true,
	})
	_ = loader.Load()
	return &cfg
}

// Address возвращает адрес для прослушивания HTTP-сервером.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate проверяет корректность конфигурации и возвращает описание
// первой найденной проблемы.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in range 1-65535, got %d", c.Port)
	}
	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logger.level: %q", c.Logger.Level)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch.retries must not be negative")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Notify.Interval <= 0 {
		return fmt.Errorf("notify.interval must be positive")
	}
	if (c.Push.PublicKey == "") != (c.Push.PrivateKey == "") {
		return fmt.Errorf("push keys must be set together: both VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")
	}
	if c.Push.Enabled() && c.Push.Subject == "" {
		return fmt.Errorf("push.subject must not be empty when push is enabled")
	}
	return nil
}
