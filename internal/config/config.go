// Package config layers settings from defaults, an optional YAML file,
// environment variables and command-line flags, in that order. A .env file in
// the working directory is folded into the environment before any of it runs,
// so local development keys never need exporting by hand.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type GlobalFlags struct {
	ConfigPath     string
	JSON           bool
	Plain          bool
	EnableCommands string
	ChainID        int64
	RPCURL         string
	Timeout        string
	Retries        int
	SlippageBps    int64
	ConfirmWait    string
	LLMModel       string
	LLMBaseURL     string
}

type Settings struct {
	OutputMode     string
	EnableCommands []string
	Timeout        time.Duration
	Retries        int

	ChainID     int64
	RPCURL      string
	SlippageBps int64
	ConfirmWait time.Duration

	StorePath     string
	StoreLockPath string

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
}

type fileConfig struct {
	Output  string `yaml:"output"`
	Timeout string `yaml:"timeout"`
	Retries *int   `yaml:"retries"`
	Chain   struct {
		ID          *int64 `yaml:"id"`
		RPCURL      string `yaml:"rpc_url"`
		SlippageBps *int64 `yaml:"slippage_bps"`
		ConfirmWait string `yaml:"confirm_wait"`
	} `yaml:"chain"`
	Execution struct {
		StorePath string `yaml:"store_path"`
		LockPath  string `yaml:"lock_path"`
	} `yaml:"execution"`
	LLM struct {
		APIKey    string `yaml:"api_key"`
		APIKeyEnv string `yaml:"api_key_env"`
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
	} `yaml:"llm"`
}

func Load(flags GlobalFlags) (Settings, error) {
	_ = godotenv.Load()

	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	applyEnv(&settings)

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	if settings.OutputMode == "" {
		settings.OutputMode = "plain"
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.Retries < 0 {
		settings.Retries = 0
	}
	if settings.SlippageBps <= 0 || settings.SlippageBps >= 10_000 {
		settings.SlippageBps = 500
	}
	if settings.ConfirmWait <= 0 {
		settings.ConfirmWait = 2 * time.Minute
	}
	return settings, nil
}

func defaultSettings() (Settings, error) {
	storePath, lockPath, err := defaultStorePaths()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		OutputMode:    "plain",
		Timeout:       30 * time.Second,
		Retries:       2,
		ChainID:       1,
		SlippageBps:   500,
		ConfirmWait:   2 * time.Minute,
		StorePath:     storePath,
		StoreLockPath: lockPath,
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "intent", "config.yaml"), nil
}

func defaultStorePaths() (string, string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "intent")
	return filepath.Join(dir, "executions.db"), filepath.Join(dir, "executions.lock"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Output != "" {
		settings.OutputMode = strings.ToLower(cfg.Output)
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.Retries != nil {
		settings.Retries = *cfg.Retries
	}
	if cfg.Chain.ID != nil {
		settings.ChainID = *cfg.Chain.ID
	}
	if cfg.Chain.RPCURL != "" {
		settings.RPCURL = cfg.Chain.RPCURL
	}
	if cfg.Chain.SlippageBps != nil {
		settings.SlippageBps = *cfg.Chain.SlippageBps
	}
	if cfg.Chain.ConfirmWait != "" {
		d, err := time.ParseDuration(cfg.Chain.ConfirmWait)
		if err != nil {
			return fmt.Errorf("config chain.confirm_wait: %w", err)
		}
		settings.ConfirmWait = d
	}
	if cfg.Execution.StorePath != "" {
		settings.StorePath = cfg.Execution.StorePath
	}
	if cfg.Execution.LockPath != "" {
		settings.StoreLockPath = cfg.Execution.LockPath
	}
	if cfg.LLM.APIKey != "" {
		settings.LLMAPIKey = cfg.LLM.APIKey
	}
	if cfg.LLM.APIKeyEnv != "" {
		settings.LLMAPIKey = os.Getenv(cfg.LLM.APIKeyEnv)
	}
	if cfg.LLM.BaseURL != "" {
		settings.LLMBaseURL = cfg.LLM.BaseURL
	}
	if cfg.LLM.Model != "" {
		settings.LLMModel = cfg.LLM.Model
	}
	return nil
}

func applyEnv(settings *Settings) {
	if v := os.Getenv("INTENT_OUTPUT"); v != "" {
		settings.OutputMode = strings.ToLower(v)
	}
	if v := os.Getenv("INTENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.Timeout = d
		}
	}
	if v := os.Getenv("INTENT_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Retries = n
		}
	}
	if v := os.Getenv("INTENT_CHAIN_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			settings.ChainID = n
		}
	}
	if v := os.Getenv("INTENT_RPC_URL"); v != "" {
		settings.RPCURL = v
	}
	if v := os.Getenv("INTENT_SLIPPAGE_BPS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			settings.SlippageBps = n
		}
	}
	if v := os.Getenv("INTENT_CONFIRM_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.ConfirmWait = d
		}
	}
	if v := os.Getenv("INTENT_STORE_PATH"); v != "" {
		settings.StorePath = v
	}
	if v := os.Getenv("INTENT_STORE_LOCK_PATH"); v != "" {
		settings.StoreLockPath = v
	}
	if v := os.Getenv("INTENT_LLM_API_KEY"); v != "" {
		settings.LLMAPIKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" && settings.LLMAPIKey == "" {
		settings.LLMAPIKey = v
	}
	if v := os.Getenv("INTENT_LLM_BASE_URL"); v != "" {
		settings.LLMBaseURL = v
	}
	if v := os.Getenv("INTENT_LLM_MODEL"); v != "" {
		settings.LLMModel = v
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.JSON && flags.Plain {
		return fmt.Errorf("cannot use --json and --plain together")
	}
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	if strings.TrimSpace(flags.EnableCommands) != "" {
		parts := strings.Split(flags.EnableCommands, ",")
		allowed := make([]string, 0, len(parts))
		for _, part := range parts {
			v := strings.TrimSpace(part)
			if v != "" {
				allowed = append(allowed, v)
			}
		}
		settings.EnableCommands = allowed
	}
	if flags.ChainID > 0 {
		settings.ChainID = flags.ChainID
	}
	if strings.TrimSpace(flags.RPCURL) != "" {
		settings.RPCURL = strings.TrimSpace(flags.RPCURL)
	}
	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("parse --timeout: %w", err)
		}
		settings.Timeout = d
	}
	if flags.Retries >= 0 {
		settings.Retries = flags.Retries
	}
	if flags.SlippageBps > 0 {
		settings.SlippageBps = flags.SlippageBps
	}
	if flags.ConfirmWait != "" {
		d, err := time.ParseDuration(flags.ConfirmWait)
		if err != nil {
			return fmt.Errorf("parse --confirm-wait: %w", err)
		}
		settings.ConfirmWait = d
	}
	if flags.LLMModel != "" {
		settings.LLMModel = flags.LLMModel
	}
	if flags.LLMBaseURL != "" {
		settings.LLMBaseURL = flags.LLMBaseURL
	}

	if settings.OutputMode != "json" && settings.OutputMode != "plain" {
		return fmt.Errorf("output must be json or plain")
	}
	return nil
}
