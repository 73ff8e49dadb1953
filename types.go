package xfyun

import "encoding/base64"

const (
	// StatusFinal marks a self-contained text frame and the last audio
	// message for that frame.
	StatusFinal = 2
)

type FrameCommon struct {
	AppID string `json:"app_id"`
}

type FrameData struct {
	Status int    `json:"status"`
	Text   string `json:"text"`
}

// Frame is the request sent for one chunk of text.
type Frame struct {
	Common   FrameCommon     `json:"common"`
	Business BusinessOptions `json:"business"`
	Data     FrameData       `json:"data"`
}

type MessageData struct {
	Audio  string `json:"audio"`
	Status int    `json:"status"`
	Ced    string `json:"ced,omitempty"`
}

// Message is one response from the server. A chunk's audio arrives as
// several messages; the last one has Data.Status == StatusFinal.
type Message struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	SID     string       `json:"sid"`
	Data    *MessageData `json:"data,omitempty"`
}

func newFrame(appID string, business BusinessOptions, text []byte) *Frame {
	return &Frame{
		Common:   FrameCommon{AppID: appID},
		Business: business,
		Data: FrameData{
			Status: StatusFinal,
			Text:   base64.StdEncoding.EncodeToString(text),
		},
	}
}

func (m *Message) final() bool {
	return m.Data != nil && m.Data.Status == StatusFinal
}
