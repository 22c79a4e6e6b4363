package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// ADELVO_CHAT_WEBHOOK_URL sets chat.webhook_url.
const EnvPrefix = "ADELVO_"

// Config aggregates every setting of the site backend and the chatbot CLI.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Chat    ChatConfig    `koanf:"chat"`
	Booking BookingConfig `koanf:"booking"`
	Storage StorageConfig `koanf:"storage"`
	Log     LogConfig     `koanf:"log"`
	AI      AIConfig      `koanf:"ai"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string   `koanf:"addr"`
	SiteDir        string   `koanf:"site_dir"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	CookieSecure   bool     `koanf:"cookie_secure"`
}

// ChatConfig describes the chat widget and its remote endpoint.
type ChatConfig struct {
	WebhookURL    string        `koanf:"webhook_url"`
	Source        string        `koanf:"source"`
	Greeting      string        `koanf:"greeting"`
	Fallback      string        `koanf:"fallback"`
	StorageKey    string        `koanf:"storage_key"`
	SessionPrefix string        `koanf:"session_prefix"`
	FocusDelay    time.Duration `koanf:"focus_delay"`
	// Timeout of 0 leaves request duration to the transport.
	Timeout time.Duration `koanf:"timeout"`
}

// BookingConfig describes the booking form endpoint.
type BookingConfig struct {
	WebhookURL     string        `koanf:"webhook_url"`
	RequiredFields []string      `koanf:"required_fields"`
	Timeout        time.Duration `koanf:"timeout"`
}

// StorageConfig selects where the CLI persists its session identifier.
type StorageConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
}

// LogConfig describes logger output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Output string `koanf:"output"`
}

// AIConfig describes the optional Ark model used when no chat webhook is set.
type AIConfig struct {
	APIKey       string   `koanf:"api_key"`
	AccessKey    string   `koanf:"access_key"`
	SecretKey    string   `koanf:"secret_key"`
	Model        string   `koanf:"model"`
	BaseURL      string   `koanf:"base_url"`
	Region       string   `koanf:"region"`
	Temperature  *float64 `koanf:"temperature"`
	MaxTokens    *int     `koanf:"max_tokens"`
	SystemPrompt string   `koanf:"system_prompt"`
	HistoryLimit int      `koanf:"history_limit"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Chat: ChatConfig{
			WebhookURL:    "https://n8n.srv1235858.hstgr.cloud/webhook/79d83fd0-2387-4579-a908-0d5c33a70b09",
			Source:        "adelvo_website_chatbot_test",
			Greeting:      "Hello! How can I help you?",
			Fallback:      "Something went wrong. Please try again.",
			StorageKey:    "adelvo_chatbot_session_id",
			SessionPrefix: "adelvo-",
			FocusDelay:    50 * time.Millisecond,
		},
		Booking: BookingConfig{
			WebhookURL:     "https://n8n.srv1235858.hstgr.cloud/webhook-test/85f8b530-2fba-4f39-9bff-d8d0231ffa59",
			RequiredFields: []string{"name", "email"},
			Timeout:        15 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "file",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		AI: AIConfig{
			BaseURL:      "https://ark.cn-beijing.volces.com/api/v3",
			Region:       "cn-beijing",
			SystemPrompt: "You are the assistant on the Adelvo website. Answer briefly and help visitors book a consultation.",
			HistoryLimit: 12,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and ADELVO_* environment variables, in that order.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Slices decode element-wise into existing values, so list defaults are
	// applied only when nothing else set them.
	origins, required := cfg.Server.AllowedOrigins, cfg.Booking.RequiredFields
	cfg.Server.AllowedOrigins, cfg.Booking.RequiredFields = nil, nil

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = origins
	}
	if cfg.Booking.RequiredFields == nil {
		cfg.Booking.RequiredFields = required
	}

	if addr, ok, err := portOverride(); err != nil {
		return nil, err
	} else if ok {
		cfg.Server.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps ADELVO_CHAT_WEBHOOK_URL to chat.webhook_url: the first
// segment names the section, the rest is the field.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// portOverride honours the PORT variable set by most hosting platforms.
func portOverride() (string, bool, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return "", false, nil
	}

	if strings.Contains(port, " ") {
		return "", false, fmt.Errorf("invalid PORT value: %q", port)
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are used as-is.
		return port, true, nil
	}

	return ":" + port, true, nil
}

var validDrivers = map[string]bool{
	"file":   true,
	"sqlite": true,
	"memory": true,
}

var validLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Chat.StorageKey == "" {
		return fmt.Errorf("chat.storage_key is required")
	}
	if c.Chat.FocusDelay < 0 || c.Chat.Timeout < 0 || c.Booking.Timeout < 0 {
		return fmt.Errorf("durations must be non-negative")
	}
	if !validDrivers[c.Storage.Driver] {
		return fmt.Errorf("invalid storage.driver %q: must be one of file, sqlite, memory", c.Storage.Driver)
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if c.AI.HistoryLimit < 1 {
		return fmt.Errorf("invalid ai.history_limit %d: must be at least 1", c.AI.HistoryLimit)
	}
	return nil
}

// Enabled reports whether enough Ark credentials are present to build a model.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ai.api_key and ai.model, or ai.access_key and ai.secret_key")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
}
