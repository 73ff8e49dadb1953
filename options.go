package xfyun

import (
	"log/slog"
	"maps"
	"time"
)

const (
	DefaultEndpoint       = "wss://tts-api.xfyun.cn/v2/tts"
	DefaultConnectTimeout = 30 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	DefaultReadTimeout    = 30 * time.Second

	DefaultVoice = "xiaoyan"
	MaleVoice    = "aisjiuxu"
)

type ClientOptions struct {
	Endpoint       string
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration // per inbound message

	// Business is used when a call passes nil options. Defaults to DefaultBusinessOptions().
	Business BusinessOptions

	Logger *slog.Logger
	Now    func() time.Time

	OnStateChange func(oldState, newState State)
}

func (o *ClientOptions) applyDefaults() {
	if o.Endpoint == "" {
		o.Endpoint = DefaultEndpoint
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.WriteTimeout == 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	if o.ReadTimeout == 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	if o.Business == nil {
		o.Business = DefaultBusinessOptions()
	} else {
		o.Business = o.Business.Clone()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// BusinessOptions are the synthesis parameters sent in every frame's
// "business" object (aue, sfl, vcn, tte, speed, volume, pitch, ...).
// They are passed to the server without interpretation.
type BusinessOptions map[string]any

// DefaultBusinessOptions returns MP3 output in the xiaoyan voice with UTF-8 text.
func DefaultBusinessOptions() BusinessOptions {
	return BusinessOptions{
		"aue": "lame",
		"sfl": 1,
		"vcn": DefaultVoice,
		"tte": "utf8",
	}
}

// MaleVoiceOptions returns the defaults with a male voice.
func MaleVoiceOptions() BusinessOptions {
	return DefaultBusinessOptions().With("vcn", MaleVoice)
}

func (b BusinessOptions) Clone() BusinessOptions {
	if b == nil {
		return nil
	}
	return maps.Clone(b)
}

// With returns a copy of b with key set to value.
func (b BusinessOptions) With(key string, value any) BusinessOptions {
	out := b.Clone()
	if out == nil {
		out = BusinessOptions{}
	}
	out[key] = value
	return out
}

// Encoding returns the "aue" audio encoding, or "" if unset.
func (b BusinessOptions) Encoding() string {
	s, _ := b["aue"].(string)
	return s
}
