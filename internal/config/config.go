// Package config loads CLI settings from the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	xfyun "github.com/moxierobots/xfyun-tts-go"
)

const (
	EnvAppID     = "XFYUN_APPID"
	EnvAPISecret = "XFYUN_APISECRET"
	EnvAPIKey    = "XFYUN_APIKEY"
	EnvBusiness  = "XFYUN_BUSOPT"
	EnvEndpoint  = "XFYUN_ENDPOINT"

	// MaleVoiceKeyword in XFYUN_BUSOPT selects xfyun.MaleVoiceOptions.
	MaleVoiceKeyword = "MAN"
)

var ErrMissingCredentials = errors.New("missing " + EnvAppID + ", " + EnvAPISecret + " or " + EnvAPIKey)

type Config struct {
	AppID     string
	APISecret string
	APIKey    string
	Endpoint  string
	Business  xfyun.BusinessOptions
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		AppID:     getenv(EnvAppID),
		APISecret: getenv(EnvAPISecret),
		APIKey:    getenv(EnvAPIKey),
		Endpoint:  getenv(EnvEndpoint),
	}
	if cfg.AppID == "" || cfg.APISecret == "" || cfg.APIKey == "" {
		return Config{}, ErrMissingCredentials
	}

	business, err := ParseBusinessOptions(getenv(EnvBusiness))
	if err != nil {
		return Config{}, err
	}
	cfg.Business = business
	return cfg, nil
}

// ParseBusinessOptions accepts "", "MAN" or a JSON object. An empty value
// returns nil so the client default applies.
func ParseBusinessOptions(value string) (xfyun.BusinessOptions, error) {
	value = strings.TrimSpace(value)
	switch value {
	case "":
		return nil, nil
	case MaleVoiceKeyword:
		return xfyun.MaleVoiceOptions(), nil
	}

	var opts xfyun.BusinessOptions
	if err := json.Unmarshal([]byte(value), &opts); err != nil {
		return nil, fmt.Errorf("%s must be %q or a JSON object: %w", EnvBusiness, MaleVoiceKeyword, err)
	}
	if opts == nil {
		return nil, fmt.Errorf("%s must be %q or a JSON object", EnvBusiness, MaleVoiceKeyword)
	}
	return opts, nil
}

// Credentials validates the configured secrets.
func (c Config) Credentials() (xfyun.Credentials, error) {
	return xfyun.NewCredentials(c.AppID, c.APIKey, c.APISecret)
}

// AudioExtension returns the file extension for the configured encoding.
func (c Config) AudioExtension() string {
	business := c.Business
	if business == nil {
		business = xfyun.DefaultBusinessOptions()
	}
	switch business.Encoding() {
	case "raw":
		return ".pcm"
	default:
		return ".mp3"
	}
}
