package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ClientConfig configures the terminal map client.
type ClientConfig struct {
	APIURL      string `yaml:"api_url"`
	SessionFile string `yaml:"session_file"`
	Logging     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
}

// DefaultClient returns the client defaults. Files live under the XDG state dir.
func DefaultClient() ClientConfig {
	var cfg ClientConfig
	cfg.APIURL = "http://localhost:8080"
	cfg.SessionFile = filepath.Join(xdg.StateHome, "pinet", "session.json")
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Logging.File = filepath.Join(xdg.StateHome, "pinet", "pinet.log")
	return cfg
}

// DefaultClientConfigPath is where LoadClient looks when no -config flag is given.
func DefaultClientConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "pinet", "config.yaml")
}

// LoadClient builds the client configuration. Precedence: flags, then
// environment, then the YAML file, then defaults.
func LoadClient(args []string) (ClientConfig, error) {
	var (
		configPath  string
		apiURL      string
		sessionFile string
	)

	fs := flag.NewFlagSet("pinet", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", DefaultClientConfigPath(), "Path to YAML config file")
	fs.StringVar(&apiURL, "api", "", "Remote store base URL")
	fs.StringVar(&sessionFile, "session", "", "Session file path")
	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, err
	}

	cfg := DefaultClient()
	if err := cfg.mergeFile(configPath); err != nil {
		return ClientConfig{}, err
	}

	cfg.APIURL = getEnvOrDefault("PINET_API_URL", cfg.APIURL)
	cfg.SessionFile = getEnvOrDefault("PINET_SESSION_FILE", cfg.SessionFile)
	cfg.Logging.Level = getEnvOrDefault("PINET_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.File = getEnvOrDefault("PINET_LOG_FILE", cfg.Logging.File)

	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if sessionFile != "" {
		cfg.SessionFile = sessionFile
	}

	return cfg, cfg.Validate()
}

// mergeFile overlays values from a YAML file. A missing file is not an error.
func (c *ClientConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the API URL is usable and a session file is set.
func (c ClientConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url %q", c.APIURL)
	}
	if c.SessionFile == "" {
		return errors.New("session file is required")
	}
	return nil
}
