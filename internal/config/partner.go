package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"splitpay/internal/errors"
)

// HTTPConfig carries the transport tuning parameters. All durations are in
// milliseconds in the YAML file, matching the partner's integration sheet.
type HTTPConfig struct {
	ConnectTimeoutMS    int `yaml:"connect_timeout_ms"`
	ReadTimeoutMS       int `yaml:"read_timeout_ms"`
	KeepAliveMS         int `yaml:"keep_alive_ms"`
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`
	IdleConnTimeoutMS   int `yaml:"idle_conn_timeout_ms"`
}

// ConnectTimeout returns the connect timeout as a duration
func (h HTTPConfig) ConnectTimeout() time.Duration {
	return time.Duration(h.ConnectTimeoutMS) * time.Millisecond
}

// ReadTimeout returns the read timeout as a duration
func (h HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(h.ReadTimeoutMS) * time.Millisecond
}

// KeepAlive returns the keep-alive duration
func (h HTTPConfig) KeepAlive() time.Duration {
	return time.Duration(h.KeepAliveMS) * time.Millisecond
}

// IdleConnTimeout returns the idle connection timeout as a duration
func (h HTTPConfig) IdleConnTimeout() time.Duration {
	return time.Duration(h.IdleConnTimeoutMS) * time.Millisecond
}

// PartnerConfig is the partner-side configuration for one merchant
// contract: endpoints, credentials and transport tuning.
type PartnerConfig struct {
	ProductionURL     string `yaml:"production_url"`
	SandboxURL        string `yaml:"sandbox_url"`
	SandboxPathPrefix string `yaml:"sandbox_path_prefix"`

	MerchantGUID string `yaml:"merchant_guid"`
	PSPGUID      string `yaml:"psp_guid"`
	LanguageCode string `yaml:"language_code"`

	// Credentials default from the environment so the YAML file can be
	// committed without secrets.
	APIKey     string `yaml:"api_key"`
	APISecret  string `yaml:"api_secret"`
	EncryptKey string `yaml:"encrypt_key"`

	CipherEnabled bool `yaml:"cipher_enabled"`

	HTTP HTTPConfig `yaml:"http"`
}

// LoadPartnerConfig reads and validates the partner configuration file.
func LoadPartnerConfig(path string) (*PartnerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to read partner config "+path)
	}

	cfg := defaultPartnerConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to parse partner config YAML")
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultPartnerConfig() *PartnerConfig {
	return &PartnerConfig{
		SandboxPathPrefix: "/staging",
		LanguageCode:      "en",
		CipherEnabled:     true,
		HTTP: HTTPConfig{
			ConnectTimeoutMS:    2000,
			ReadTimeoutMS:       4000,
			KeepAliveMS:         30000,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeoutMS:   60000,
		},
	}
}

func (c *PartnerConfig) applyEnvOverrides() {
	c.APIKey = Get("PARTNER_API_KEY", c.APIKey)
	c.APISecret = Get("PARTNER_API_SECRET", c.APISecret)
	c.EncryptKey = Get("PARTNER_ENCRYPT_KEY", c.EncryptKey)
}

func (c *PartnerConfig) validate() error {
	switch {
	case c.ProductionURL == "":
		return errors.Configuration("production_url is required")
	case c.SandboxURL == "":
		return errors.Configuration("sandbox_url is required")
	case c.MerchantGUID == "":
		return errors.Configuration("merchant_guid is required")
	case c.PSPGUID == "":
		return errors.Configuration("psp_guid is required")
	case c.APIKey == "":
		return errors.Configuration("api_key is required (PARTNER_API_KEY)")
	}
	if c.CipherEnabled && c.EncryptKey == "" {
		return errors.Configuration("encrypt_key is required when cipher is enabled")
	}
	return nil
}

// BaseURL returns the partner host for the requested environment.
func (c *PartnerConfig) BaseURL(sandbox bool) string {
	if sandbox {
		return c.SandboxURL
	}
	return c.ProductionURL
}

// PathPrefix returns the path prefix distinguishing the sandbox
// environment, empty in production.
func (c *PartnerConfig) PathPrefix(sandbox bool) string {
	if sandbox {
		return c.SandboxPathPrefix
	}
	return ""
}
