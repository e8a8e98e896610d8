package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dlcf-orozo/orozo-dp/internal/dp"
	imagepkg "github.com/dlcf-orozo/orozo-dp/internal/image"
)

type Config struct {
	Env             string
	Port            string
	LogLevel        string
	LogFormat       string
	TemplatesFile   string
	BranchesFile    string
	EventLabel      string
	Badge           string
	FilePrefix      string
	ShareTitle      string
	ShareText       string
	ShareWebhookURL string
	MaxUploadBytes  int64
	SessionTTL      time.Duration
	MaxSessions     int
	FetchTimeout    time.Duration
}

// New returns a viper instance with defaults applied and the environment bound.
// ENV selects the profile (DEV by default); config/.env.<env> under dir is
// loaded first when it exists.
func New(dir string) (*viper.Viper, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("port", "8080")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")
	v.SetDefault("templatesFile", "")
	v.SetDefault("branchesFile", "")
	v.SetDefault("eventLabel", imagepkg.DefaultEventLabel)
	v.SetDefault("badge", imagepkg.DefaultBadge)
	v.SetDefault("filePrefix", dp.DefaultFilePrefix)
	v.SetDefault("shareTitle", dp.DefaultShareTitle)
	v.SetDefault("shareText", dp.DefaultShareText)
	v.SetDefault("shareWebhookURL", "")
	v.SetDefault("maxUploadBytes", int64(imagepkg.DefaultMaxBytes))
	v.SetDefault("sessionTTL", dp.DefaultSessionTTL)
	v.SetDefault("maxSessions", dp.DefaultMaxSessions)
	v.SetDefault("fetchTimeout", imagepkg.DefaultFetchTimeout)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(dir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("config.godotenv(%s): %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config.os.Stat(%s): %w", dotEnvPath, err)
	}
	v.AutomaticEnv()
	return v, nil
}

// Load builds a Config from v.
func Load(v *viper.Viper) Config {
	return Config{
		Env:             v.GetString("env"),
		Port:            v.GetString("port"),
		LogLevel:        v.GetString("logLevel"),
		LogFormat:       v.GetString("logFormat"),
		TemplatesFile:   v.GetString("templatesFile"),
		BranchesFile:    v.GetString("branchesFile"),
		EventLabel:      v.GetString("eventLabel"),
		Badge:           v.GetString("badge"),
		FilePrefix:      v.GetString("filePrefix"),
		ShareTitle:      v.GetString("shareTitle"),
		ShareText:       v.GetString("shareText"),
		ShareWebhookURL: v.GetString("shareWebhookURL"),
		MaxUploadBytes:  v.GetInt64("maxUploadBytes"),
		SessionTTL:      v.GetDuration("sessionTTL"),
		MaxSessions:     v.GetInt("maxSessions"),
		FetchTimeout:    v.GetDuration("fetchTimeout"),
	}
}

// CompositorOptions maps the rendering keys onto dp.Options.
func (c Config) CompositorOptions() dp.Options {
	return dp.Options{
		EventLabel: c.EventLabel,
		Badge:      c.Badge,
		FilePrefix: c.FilePrefix,
		ShareTitle: c.ShareTitle,
		ShareText:  c.ShareText,
	}
}
