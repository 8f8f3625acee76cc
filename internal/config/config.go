package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "READINGSCRIBE_CONFIG"
	botTokenEnv         = "DISCORD_BOT_TOKEN"
	channelIDEnv        = "DISCORD_CHANNEL_ID"
	openRouterKeyEnv    = "OPENROUTER_API_KEY"
	openRouterModelEnv  = "OPENROUTER_MODEL"
	githubTokenEnv      = "GITHUB_TOKEN"
	githubRepoEnv       = "GITHUB_REPO"
	githubPathPrefixEnv = "GITHUB_PATH_PREFIX"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Discord DiscordConfig `yaml:"discord"`
	LLM     LLMConfig     `yaml:"llm"`
	Archive ArchiveConfig `yaml:"archive"`
	Review  ReviewConfig  `yaml:"review"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DiscordConfig wires the bot session and the watched channel.
type DiscordConfig struct {
	BotToken  string `yaml:"botToken"`
	ChannelID string `yaml:"channelId"`
}

// LLMConfig defines how to contact the summarization API.
type LLMConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	MaxChars     int    `yaml:"maxChars"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// ArchiveConfig describes the GitHub knowledge-base repository. Archive
// features are disabled entirely when Token is empty.
type ArchiveConfig struct {
	Token      string `yaml:"token"`
	Repo       string `yaml:"repo"` // "owner/name"
	Branch     string `yaml:"branch"`
	PathPrefix string `yaml:"pathPrefix"`
}

// ReviewConfig tunes the confirmation workflow.
type ReviewConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// Timeout resolves the configured review timeout as a duration.
func (r ReviewConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(botTokenEnv); v != "" {
		c.Discord.BotToken = v
	}
	if v := os.Getenv(channelIDEnv); v != "" {
		c.Discord.ChannelID = v
	}
	if v := os.Getenv(openRouterKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(openRouterModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(githubTokenEnv); v != "" {
		c.Archive.Token = v
	}
	if v := os.Getenv(githubRepoEnv); v != "" {
		c.Archive.Repo = v
	}
	if v := os.Getenv(githubPathPrefixEnv); v != "" {
		c.Archive.PathPrefix = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Discord.BotToken != "" {
		base.Discord.BotToken = override.Discord.BotToken
	}
	if override.Discord.ChannelID != "" {
		base.Discord.ChannelID = override.Discord.ChannelID
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.MaxChars > 0 {
		base.LLM.MaxChars = override.LLM.MaxChars
	}
	if override.LLM.SystemPrompt != "" {
		base.LLM.SystemPrompt = override.LLM.SystemPrompt
	}

	if override.Archive.Token != "" {
		base.Archive.Token = override.Archive.Token
	}
	if override.Archive.Repo != "" {
		base.Archive.Repo = override.Archive.Repo
	}
	if override.Archive.Branch != "" {
		base.Archive.Branch = override.Archive.Branch
	}
	if override.Archive.PathPrefix != "" {
		base.Archive.PathPrefix = override.Archive.PathPrefix
	}

	if override.Review.TimeoutSeconds > 0 {
		base.Review.TimeoutSeconds = override.Review.TimeoutSeconds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Discord: DiscordConfig{},
		LLM: LLMConfig{
			Endpoint:     "https://openrouter.ai/api/v1/chat/completions",
			Model:        "openai/gpt-4o-mini",
			MaxChars:     100000,
			SystemPrompt: "You are a helpful assistant that summarizes text. You must output JSON.",
		},
		Archive: ArchiveConfig{Branch: "main"},
		Review:  ReviewConfig{TimeoutSeconds: 30},
	}
}
