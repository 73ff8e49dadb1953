package xfyun

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Signer builds authenticated connection URLs for one endpoint.
type Signer struct {
	endpoint    *url.URL
	host        string
	requestLine string
}

// NewSigner parses endpoint, which must be a ws or wss URL.
func NewSigner(endpoint string) (*Signer, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be ws or wss", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return &Signer{
		endpoint:    u,
		host:        u.Host,
		requestLine: "GET " + path + " HTTP/1.1",
	}, nil
}

// BuildConnectionURL signs a connection URL for the default endpoint.
func BuildConnectionURL(creds Credentials, now time.Time) string {
	return defaultSigner.BuildConnectionURL(creds, now)
}

var defaultSigner = mustSigner(DefaultEndpoint)

func mustSigner(endpoint string) *Signer {
	s, err := NewSigner(endpoint)
	if err != nil {
		panic(err)
	}
	return s
}

// BuildConnectionURL returns the endpoint with host, date and authorization
// query parameters. The server rejects it once now drifts outside its
// clock-skew window, so a URL must be built for every connection attempt.
func (s *Signer) BuildConnectionURL(creds Credentials, now time.Time) string {
	date := now.UTC().Format(http.TimeFormat)

	v := url.Values{}
	v.Set("host", s.host)
	v.Set("date", date)
	v.Set("authorization", s.authorization(creds, date))

	u := *s.endpoint
	u.RawQuery = v.Encode()
	return u.String()
}

func (s *Signer) signatureBase(date string) string {
	return strings.Join([]string{
		"host: " + s.host,
		"date: " + date,
		s.requestLine,
	}, "\n")
}

func (s *Signer) authorization(creds Credentials, date string) string {
	mac := hmac.New(sha256.New, []byte(creds.apiSecret))
	mac.Write([]byte(s.signatureBase(date)))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	origin := fmt.Sprintf(`api_key="%s", algorithm="hmac-sha256", headers="host date request-line", signature="%s"`,
		creds.apiKey, signature)
	return base64.StdEncoding.EncodeToString([]byte(origin))
}
