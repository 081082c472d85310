package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "STARTASM_"

// Config represents common configuration for StartASM tools.
type Config struct {
	Verbose    bool   `json:"verbose"`
	Debug      bool   `json:"debug"`
	ConfigFile string `json:"config_file"`
	WorkDir    string `json:"work_dir"`

	// MinVersion is a semver constraint the running tool must satisfy.
	MinVersion string `json:"min_version,omitempty"`

	Timings bool `json:"timings"`
	Silent  bool `json:"silent"`

	Server ServerConfig `json:"server"`
}

// ServerConfig configures the compile service.
type ServerConfig struct {
	Addr     string `json:"addr"`
	HTTP3    bool   `json:"http3"`
	CertFile string `json:"cert_file,omitempty"`
	KeyFile  string `json:"key_file,omitempty"`
	MaxBytes int64  `json:"max_bytes"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		WorkDir: ".",
		Server: ServerConfig{
			Addr:     "127.0.0.1:7878",
			MaxBytes: 1 << 20,
		},
	}
}

// LoadConfig loads configuration from a JSON file, then applies any
// STARTASM_* variables found in the environment or in the .env files named
// by envFiles. A missing config file yields the defaults; missing .env
// files are ignored.
func LoadConfig(configPath string, envFiles ...string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			config.ConfigFile = configPath
		}
	}

	env := map[string]string{}
	for _, f := range envFiles {
		vars, err := godotenv.Read(f)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
		for k, v := range vars {
			env[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	if err := config.applyEnv(env); err != nil {
		return nil, err
	}

	if err := CheckVersion(config.MinVersion); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	bools := map[string]*bool{
		"VERBOSE":      &c.Verbose,
		"DEBUG":        &c.Debug,
		"TIMINGS":      &c.Timings,
		"SILENT":       &c.Silent,
		"SERVER_HTTP3": &c.Server.HTTP3,
	}
	strs := map[string]*string{
		"WORK_DIR":    &c.WorkDir,
		"MIN_VERSION": &c.MinVersion,
		"SERVER_ADDR": &c.Server.Addr,
		"SERVER_CERT": &c.Server.CertFile,
		"SERVER_KEY":  &c.Server.KeyFile,
	}

	for name, dst := range bools {
		if v, ok := env[EnvPrefix+name]; ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
			}
			*dst = b
		}
	}
	for name, dst := range strs {
		if v, ok := env[EnvPrefix+name]; ok {
			*dst = v
		}
	}
	if v, ok := env[EnvPrefix+"SERVER_MAX_BYTES"]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSERVER_MAX_BYTES: %w", EnvPrefix, err)
		}
		c.Server.MaxBytes = n
	}
	return nil
}

// SaveConfig saves configuration to file.
func (c *Config) SaveConfig(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
