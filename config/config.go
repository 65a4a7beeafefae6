// Package config はチェックリストの設定を .env・YAML・環境変数の順に読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"checklist/repository/table/file"
	"checklist/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DisplayWeb      = "web"
	DisplayTerminal = "terminal"
	DisplayChime    = "chime"

	DefaultSiteURL = "https://dryoshiyahu.github.io/terraria-boss-checklist/"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Addr         string        `yaml:"addr"`
	Port         string        `yaml:"port"`
	PollInterval time.Duration `yaml:"poll_interval"`
	FormTimeout  time.Duration `yaml:"form_timeout"`
	TablePath    string        `yaml:"table_path"`
	SnapshotPath string        `yaml:"snapshot_path"`
	URLSuffix    string        `yaml:"url_suffix"`
	SiteURL      string        `yaml:"site_url"`
	Displays     []string      `yaml:"displays"`
	ArmOnStart   bool          `yaml:"arm_on_start"`
	AuthSecret   string        `yaml:"auth_secret"`
	OTLPEndpoint string        `yaml:"otlp_endpoint"`
}

func Default() Config {
	return Config{
		Addr:         "localhost",
		Port:         "9090",
		PollInterval: 100 * time.Millisecond,
		FormTimeout:  500 * time.Millisecond,
		TablePath:    file.DefaultPath,
		SnapshotPath: "snapshot.yaml",
		SiteURL:      DefaultSiteURL,
		Displays:     []string{DisplayWeb},
		ArmOnStart:   true,
	}
}

// ListenAddr は http.Server に渡すアドレスです。
func (c Config) ListenAddr() string {
	return c.Addr + ":" + c.Port
}

func (c Config) HasDisplay(name string) bool {
	return slices.Contains(c.Displays, name)
}

// Load は .env（無くてもよい）、path の YAML（空なら読まない）、環境変数の順に重ねます。
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error
	cfg.Addr = utils.GetEnvDefault("ADDR", cfg.Addr)
	cfg.Port = utils.GetEnvDefault("PORT", cfg.Port)
	cfg.TablePath = utils.GetEnvDefault("TABLE_PATH", cfg.TablePath)
	cfg.SnapshotPath = utils.GetEnvDefault("SNAPSHOT_PATH", cfg.SnapshotPath)
	cfg.URLSuffix = utils.GetEnvDefault("URL_SUFFIX", cfg.URLSuffix)
	cfg.SiteURL = utils.GetEnvDefault("SITE_URL", cfg.SiteURL)
	cfg.AuthSecret = utils.GetEnvDefault("AUTH_SECRET", cfg.AuthSecret)
	cfg.OTLPEndpoint = utils.GetEnvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.Displays = utils.GetEnvList("DISPLAYS", cfg.Displays)

	if cfg.PollInterval, err = utils.GetEnvDuration("POLL_INTERVAL", cfg.PollInterval); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.FormTimeout, err = utils.GetEnvDuration("FORM_TIMEOUT", cfg.FormTimeout); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.ArmOnStart, err = utils.GetEnvBool("ARM_ON_START", cfg.ArmOnStart); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive, got %s", ErrInvalidConfig, c.PollInterval)
	case c.FormTimeout <= 0:
		return fmt.Errorf("%w: form timeout must be positive, got %s", ErrInvalidConfig, c.FormTimeout)
	case c.TablePath == "":
		return fmt.Errorf("%w: table path is empty", ErrInvalidConfig)
	case c.Port == "":
		return fmt.Errorf("%w: port is empty", ErrInvalidConfig)
	case len(c.Displays) == 0:
		return fmt.Errorf("%w: no displays enabled", ErrInvalidConfig)
	}
	for _, d := range c.Displays {
		switch d {
		case DisplayWeb, DisplayTerminal, DisplayChime:
		default:
			return fmt.Errorf("%w: unknown display %q", ErrInvalidConfig, d)
		}
	}
	return nil
}
