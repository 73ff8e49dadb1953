package xfyun

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is an xfyun text-to-speech WebSocket client. A Client is safe for
// concurrent use; each Synthesize call owns its own connection.
type Client struct {
	options  ClientOptions
	creds    Credentials
	signer   *Signer
	tlsCache tls.ClientSessionCache
}

// NewClient creates a new client.
func NewClient(creds Credentials, options ClientOptions) (*Client, error) {
	if !creds.valid() {
		return nil, NewError(ErrorStatusInvalidCredentials, "credentials are not initialized")
	}
	options.applyDefaults()

	signer, err := NewSigner(options.Endpoint)
	if err != nil {
		return nil, NewErrorWithCause(ErrorStatusInvalidOptions, "bad endpoint", err)
	}

	return &Client{
		options:  options,
		creds:    creds,
		signer:   signer,
		tlsCache: tls.NewLRUClientSessionCache(32),
	}, nil
}

// Synthesize opens a connection and returns a stream of audio fragments for
// text. Text longer than MaxChunkChars characters is sent as several frames,
// one after another on the same connection. Nil business options select the
// client's default.
//
// The caller must drain the stream or Close it.
func (c *Client) Synthesize(ctx context.Context, text string, business BusinessOptions) (*Stream, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	pieces := SplitText(text, MaxChunkChars)
	chunks := make([][]byte, len(pieces))
	for i, piece := range pieces {
		chunks[i] = []byte(piece)
		if err := checkTextSize(chunks[i]); err != nil {
			return nil, err
		}
	}
	return c.open(ctx, chunks, business)
}

// SynthesizeBytes is like Synthesize for pre-encoded text. Bytes cannot be
// split safely, so text is sent as a single frame of at most MaxTextBytes.
func (c *Client) SynthesizeBytes(ctx context.Context, text []byte, business BusinessOptions) (*Stream, error) {
	if len(text) == 0 {
		return nil, ErrEmptyText
	}
	if err := checkTextSize(text); err != nil {
		return nil, err
	}
	return c.open(ctx, [][]byte{text}, business)
}

// SynthesizeAll returns the concatenated audio for text.
func (c *Client) SynthesizeAll(ctx context.Context, text string, business BusinessOptions) ([]byte, error) {
	stream, err := c.Synthesize(ctx, text, business)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var buf bytes.Buffer
	if _, err := stream.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Client) open(ctx context.Context, chunks [][]byte, business BusinessOptions) (*Stream, error) {
	if business == nil {
		business = c.options.Business
	} else {
		business = business.Clone()
	}

	id := uuid.NewString()
	s := &Stream{
		id:       id,
		ctx:      ctx,
		options:  &c.options,
		appID:    c.creds.accountID,
		business: business,
		chunks:   chunks,
		state:    StateIdle,
		done:     make(chan struct{}),
		logger:   c.options.Logger.With("stream_id", id),
	}

	wsURL := c.signer.BuildConnectionURL(c.creds, c.options.Now())
	conn, err := c.dial(ctx, wsURL)
	if err != nil {
		s.setState(StateFailed)
		s.setState(StateClosed)
		if ctx.Err() != nil {
			return nil, NewErrorWithCause(ErrorStatusCanceled, "canceled while connecting", ctx.Err())
		}
		s.logger.Error("connect failed", "host", c.signer.host, "error", err)
		return nil, NewErrorWithCause(ErrorStatusWebSocketError, "failed to connect", err)
	}
	s.conn = conn
	s.setState(StateConnected)
	s.logger.Info("connected", "host", c.signer.host, "chunks", len(chunks))

	go s.watch()

	return s, nil
}

func (c *Client) dial(ctx context.Context, wsURL string) (*websocket.Conn, error) {
	connCtx, cancel := context.WithTimeout(ctx, c.options.ConnectTimeout)
	defer cancel()

	dialer := websocket.Dialer{
		HandshakeTimeout: c.options.ConnectTimeout,
		NetDialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			d := net.Dialer{}
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if tc, ok := conn.(*net.TCPConn); ok {
				tc.SetNoDelay(true)
			}
			return conn, nil
		},
		TLSClientConfig: &tls.Config{
			ClientSessionCache: c.tlsCache,
		},
	}

	conn, resp, err := dialer.DialContext(connCtx, wsURL, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		// A rejected signature surfaces as a failed handshake with the HTTP status.
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
			return nil, fmt.Errorf("%w: %s", err, resp.Status)
		}
		return nil, err
	}
	return conn, nil
}
