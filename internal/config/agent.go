package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Agent is the vendor-agent configuration resolved from flags, env and an optional config file.
type Agent struct {
	APIURL            string
	SocketURL         string
	SessionFile       string
	SessionPassphrase string
	CheckoutAddr      string
	Reconnect         bool
	LogLevel          string
	LogFormat         string
}

// Agent config keys shared by cobra flag bindings and viper lookups.
const (
	KeyAPIURL            = "api-url"
	KeySocketURL         = "socket-url"
	KeySessionFile       = "session-file"
	KeySessionPassphrase = "session-passphrase"
	KeyCheckoutAddr      = "checkout-addr"
	KeyReconnect         = "reconnect"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
)

// NewAgentViper returns a viper instance with defaults and VENDOR_AGENT_* env bindings.
func NewAgentViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("VENDOR_AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyCheckoutAddr, "127.0.0.1:8765")
	v.SetDefault(KeyReconnect, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	return v
}

// ReadAgentFile merges a YAML config file into v. A missing default file is not an error.
func ReadAgentFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(dir, "vendorhub"))
		v.SetConfigName("agent")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// LoadAgent resolves and validates the agent configuration.
func LoadAgent(v *viper.Viper) (Agent, error) {
	cfg := Agent{
		APIURL:            strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIURL)), "/"),
		SocketURL:         strings.TrimRight(strings.TrimSpace(v.GetString(KeySocketURL)), "/"),
		SessionFile:       strings.TrimSpace(v.GetString(KeySessionFile)),
		SessionPassphrase: v.GetString(KeySessionPassphrase),
		CheckoutAddr:      fallback(v.GetString(KeyCheckoutAddr), "127.0.0.1:8765"),
		Reconnect:         v.GetBool(KeyReconnect),
		LogLevel:          fallback(v.GetString(KeyLogLevel), "info"),
		LogFormat:         fallback(v.GetString(KeyLogFormat), "console"),
	}

	if cfg.APIURL == "" {
		return Agent{}, errors.New("api-url is required")
	}
	if cfg.SocketURL == "" {
		origin, err := originOf(cfg.APIURL)
		if err != nil {
			return Agent{}, fmt.Errorf("derive socket url: %w", err)
		}
		cfg.SocketURL = origin
	}
	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Agent{}, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "vendorhub", "session.bin")
	}
	if strings.TrimSpace(cfg.SessionPassphrase) == "" {
		return Agent{}, errors.New("session-passphrase is required")
	}
	return cfg, nil
}

func originOf(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute url", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
