// config предоставляет структуру конфигурации news-function
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
//
// Значения из файла перекрываются переменными окружения.
// В FaaS-окружении файла обычно нет, и работает только пункт 4.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	GRPC     GRPCConfig    `yaml:"grpc"`
	DB       DBConfig      `yaml:"db"`
	Admin    AdminConfig   `yaml:"admin"`
	Limits   LimitsConfig  `yaml:"limits"`
	CORS     CORSConfig    `yaml:"cors"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — таймауты обработки запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"5s"`
}

// HTTPConfig — локальный HTTP-сервер (cmd/news-server).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	// BasePath — путь, по которому смонтирован обработчик новостей.
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/news"`
}

// GRPCConfig — gRPC-сервер health-проверок.
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50052"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// AdminConfig — общий ключ администратора для операций записи.
// Задаётся ровно одно из полей: открытый ключ или его bcrypt-хэш.
type AdminConfig struct {
	Key     string `yaml:"key"      env:"ADMIN_KEY"`
	KeyHash string `yaml:"key_hash" env:"ADMIN_KEY_HASH"`
}

// LimitsConfig — серверные лимиты на выдачу.
type LimitsConfig struct {
	// List — максимум элементов в публичной ленте.
	List int `yaml:"list" env:"LIST_LIMIT" env-default:"50"`
}

// CORSConfig — заголовки CORS.
type CORSConfig struct {
	AllowOrigin string `yaml:"allow_origin" env:"CORS_ALLOW_ORIGIN" env-default:"*"`
	// MaxAge — время кэширования pre-flight ответа, в секундах.
	MaxAge int `yaml:"max_age" env:"CORS_MAX_AGE" env-default:"86400"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	var (
		c   *Config
		err error
	)

	switch envPath := os.Getenv("CONFIG_PATH"); {
	case path != "":
		// 1) Явный путь.
		c, err = tryRead(path)
	case envPath != "":
		// 2) CONFIG_PATH.
		c, err = tryRead(envPath)
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			// 3) ./local.yaml.
			if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
				return nil, fmt.Errorf("failed to read local.yaml: %w", err)
			}
			c = &cfg
			break
		}

		// 4) Только ENV.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
		c = &cfg
	}
	if err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}
	if c.Admin.Key == "" && c.Admin.KeyHash == "" {
		return fmt.Errorf("admin.key or admin.key_hash is required")
	}
	if c.Admin.Key != "" && c.Admin.KeyHash != "" {
		return fmt.Errorf("admin.key and admin.key_hash are mutually exclusive")
	}
	if c.Limits.List <= 0 {
		return fmt.Errorf("limits.list must be > 0")
	}
	if c.CORS.MaxAge < 0 {
		return fmt.Errorf("cors.max_age must be >= 0")
	}
	return nil
}
