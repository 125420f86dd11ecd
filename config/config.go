package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig web server configuration
type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

// LogConfig logger configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// SessionConfig controls how long an idle form session is kept in memory.
type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	IdleTTL    int    `yaml:"idle_ttl"` // seconds
	NodeID     int64  `yaml:"node_id"`
}

// RemotePattern allowlists a remote image source. Empty Protocol, Hostname
// and Pathname match anything. Port and Search match anything when unset;
// set to "" they require the URL to have no explicit port or no query.
type RemotePattern struct {
	Protocol string  `yaml:"protocol"`
	Hostname string  `yaml:"hostname"`
	Port     *string `yaml:"port"`
	Pathname string  `yaml:"pathname"`
	Search   *string `yaml:"search"`
}

// ImageConfig image display configuration
type ImageConfig struct {
	Width          int             `yaml:"width"`
	Height         int             `yaml:"height"`
	RemotePatterns []RemotePattern `yaml:"remote_patterns"`
}

type AppConfig struct {
	System  SysConfig     `yaml:"system"`
	Web     WebConfig     `yaml:"web"`
	Logger  LogConfig     `yaml:"logger"`
	Session SessionConfig `yaml:"session"`
	Images  ImageConfig   `yaml:"images"`
}

// placeholderSecrets are published values that must never sign cookies.
var placeholderSecrets = []string{
	"change-me-to-a-long-random-string",
	"9b6de5cc-0731-4bf1-a6e4-2a1f3b0c5e7d",
}

// Validate checks the values the server cannot start without.
func (c *AppConfig) Validate() error {
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return errors.Errorf("web.port out of range: %d", c.Web.Port)
	}
	secret := strings.TrimSpace(c.Web.Secret)
	if secret == "" {
		return errors.New("web.secret is required")
	}
	for _, p := range placeholderSecrets {
		if secret == p {
			return errors.New("web.secret is a published placeholder, set a private value")
		}
	}
	if c.Session.IdleTTL <= 0 {
		return errors.Errorf("session.idle_ttl must be positive: %d", c.Session.IdleTTL)
	}
	if c.Session.NodeID < 0 || c.Session.NodeID > 1023 {
		return errors.Errorf("session.node_id must be within 0..1023: %d", c.Session.NodeID)
	}
	if c.Logger.FileEnable && c.Logger.Filename == "" {
		return errors.New("logger.filename is required when file output is enabled")
	}
	return nil
}

// DefaultAppConfig returns the built-in configuration.
func DefaultAppConfig() *AppConfig {
	workdir := "/var/productform"
	return &AppConfig{
		System: SysConfig{
			Appid:    "ProductForm",
			Location: "Local",
			Workdir:  workdir,
			Debug:    false,
		},
		Web: WebConfig{
			Host:   "0.0.0.0",
			Port:   3000,
			Secret: newSecret(),
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   filepath.Join(workdir, "logs", "productform.log"),
		},
		Session: SessionConfig{
			CookieName: "productform",
			IdleTTL:    3600,
			NodeID:     1,
		},
		Images: ImageConfig{
			Width:  500,
			Height: 200,
			RemotePatterns: []RemotePattern{
				{
					Protocol: "https",
					Hostname: "picsum.photos",
					Port:     stringPtr(""),
					Pathname: "**",
					Search:   stringPtr(""),
				},
			},
		},
	}
}

// newSecret returns a random cookie signing key. Cookies signed with it do
// not survive a restart, so deployments set web.secret explicitly.
func newSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(errors.Wrap(err, "read random secret"))
	}
	return hex.EncodeToString(b)
}

// LoadConfig reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file. A blank web.secret
// is replaced by a random one.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	applyEnv(cfg)
	if strings.TrimSpace(cfg.Web.Secret) == "" {
		cfg.Web.Secret = newSecret()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setEnvString("PRODUCTFORM_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvString("PRODUCTFORM_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBool("PRODUCTFORM_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvString("PRODUCTFORM_WEB_HOST", &cfg.Web.Host)
	setEnvInt("PRODUCTFORM_WEB_PORT", &cfg.Web.Port)
	setEnvString("PRODUCTFORM_WEB_SECRET", &cfg.Web.Secret)
	setEnvString("PRODUCTFORM_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBool("PRODUCTFORM_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvString("PRODUCTFORM_LOGGER_FILENAME", &cfg.Logger.Filename)
	setEnvInt("PRODUCTFORM_SESSION_IDLE_TTL", &cfg.Session.IdleTTL)
}

func stringPtr(s string) *string {
	return &s
}

func setEnvString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func setEnvInt(name string, dst *int) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			*dst = n
		}
	}
}

func setEnvBool(name string, dst *bool) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*dst = b
		}
	}
}
