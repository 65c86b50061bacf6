package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"dealdesk/internal/lifecycle"
)

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Enabled  bool   `yaml:"enabled"`
}

// LifecycleConfig overrides the engine's per-status day thresholds.
// Keys are status names; absent statuses keep the built-in defaults.
type LifecycleConfig struct {
	Thresholds map[string]lifecycle.Threshold `yaml:"thresholds"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Files struct {
		RootDir string `yaml:"root_dir"`
	} `yaml:"files"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	return &cfg
}

// EngineOptions converts the yaml threshold block into lifecycle options.
func (c *Config) EngineOptions() lifecycle.Options {
	if len(c.Lifecycle.Thresholds) == 0 {
		return lifecycle.Options{}
	}
	th := make(map[lifecycle.Status]lifecycle.Threshold, len(c.Lifecycle.Thresholds))
	for name, pair := range c.Lifecycle.Thresholds {
		th[lifecycle.Status(name)] = pair
	}
	return lifecycle.Options{Thresholds: th}
}
