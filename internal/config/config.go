package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"socratic-tutor/internal/prompts"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

const (
	DefaultGeminiModel    = "gemini-3-pro-preview"
	DefaultOpenAIModel    = "gpt-5.1"
	DefaultThinkingBudget = 32768
	DefaultRequestTimeout = 5 * time.Minute
)

// unsetThinkingBudget marks a budget neither the file nor the environment
// set. Only gemini gets DefaultThinkingBudget then; openai-compatible and ark
// endpoints may not accept reasoning parameters at all.
const unsetThinkingBudget = -1

var ErrMissingAPIKey = errors.New("api key is required: set API_KEY")

type Config struct {
	Provider          string
	APIKey            string
	BaseURL           string
	Model             string
	SystemInstruction string
	ThinkingBudget    int
	RequestTimeout    time.Duration
	TelegramToken     string
	AdminUserIDs      []int64
	AllowedUserIDs    []int64
	Debug             bool
}

// fileConfig is the optional TOML file. Credentials stay in the environment.
type fileConfig struct {
	Provider       string  `toml:"provider"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	ThinkingBudget *int    `toml:"thinking_budget"`
	RequestTimeout string  `toml:"request_timeout"`
	AdminUserIDs   []int64 `toml:"admin_user_ids"`
	AllowedUserIDs []int64 `toml:"allowed_user_ids"`
	Debug          bool    `toml:"debug"`
}

// Load reads envPath (if present), then configPath (if set), then the
// process environment, each layer overriding the previous one.
func Load(envPath, configPath string) (Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", envPath, err)
		}
	}

	cfg := Config{
		Provider:          ProviderGemini,
		SystemInstruction: prompts.Tutor,
		ThinkingBudget:    unsetThinkingBudget,
		RequestTimeout:    DefaultRequestTimeout,
	}

	if configPath != "" {
		if err := applyFile(&cfg, configPath); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
	if cfg.ThinkingBudget == unsetThinkingBudget {
		cfg.ThinkingBudget = defaultThinkingBudget(cfg.Provider)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderArk:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Model == "" {
		return fmt.Errorf("model is required for provider %s: set TUTOR_MODEL", c.Provider)
	}
	if c.ThinkingBudget < 0 {
		return fmt.Errorf("invalid thinking budget %d", c.ThinkingBudget)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout %s", c.RequestTimeout)
	}
	return nil
}

func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("telegram token is required: set TELEGRAM_BOT_TOKEN")
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Provider != "" {
		cfg.Provider = strings.ToLower(fc.Provider)
	}
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.ThinkingBudget != nil {
		cfg.ThinkingBudget = *fc.ThinkingBudget
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", fc.RequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if len(fc.AdminUserIDs) > 0 {
		cfg.AdminUserIDs = fc.AdminUserIDs
	}
	if len(fc.AllowedUserIDs) > 0 {
		cfg.AllowedUserIDs = fc.AllowedUserIDs
	}
	cfg.Debug = cfg.Debug || fc.Debug
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Provider = strings.ToLower(getenvDefault("TUTOR_PROVIDER", cfg.Provider))
	cfg.BaseURL = getenvDefault("TUTOR_BASE_URL", cfg.BaseURL)
	cfg.Model = getenvDefault("TUTOR_MODEL", cfg.Model)
	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.APIKey = apiKey(cfg.Provider)

	budget, err := getenvInt("THINKING_BUDGET", cfg.ThinkingBudget)
	if err != nil {
		return err
	}
	cfg.ThinkingBudget = budget

	timeout, err := getenvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	if err != nil {
		return err
	}
	cfg.RequestTimeout = timeout

	debug, err := getenvBool("TUTOR_DEBUG", cfg.Debug)
	if err != nil {
		return err
	}
	cfg.Debug = debug

	if raw := os.Getenv("ADMIN_USER_IDS"); strings.TrimSpace(raw) != "" {
		if cfg.AdminUserIDs, err = parseIDs(raw); err != nil {
			return fmt.Errorf("invalid ADMIN_USER_IDS: %w", err)
		}
	}
	if raw := os.Getenv("ALLOWED_TELEGRAM_USER_IDS"); strings.TrimSpace(raw) != "" {
		if cfg.AllowedUserIDs, err = parseIDs(raw); err != nil {
			return fmt.Errorf("invalid ALLOWED_TELEGRAM_USER_IDS: %w", err)
		}
	}
	return nil
}

func apiKey(provider string) string {
	keys := []string{"API_KEY"}
	switch provider {
	case ProviderGemini:
		keys = append(keys, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	case ProviderOpenAI:
		keys = append(keys, "OPENAI_API_KEY")
	case ProviderArk:
		keys = append(keys, "ARK_API_KEY")
	}
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return ""
	}
}

func defaultThinkingBudget(provider string) int {
	if provider == ProviderGemini {
		return DefaultThinkingBudget
	}
	return 0
}

func parseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("user id %q: %w", p, err)
		}
		ids = append(ids, v)
	}
	return ids, nil
}

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return d, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return b, nil
}
