package xfyun

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Stream yields the audio of one Synthesize call. Each Next performs at most
// one frame write and one message read, so nothing is fetched before it is
// asked for. A Stream is not safe for concurrent use, except for Close.
type Stream struct {
	id       string
	ctx      context.Context
	conn     *websocket.Conn
	options  *ClientOptions
	appID    string
	business BusinessOptions
	chunks   [][]byte
	sent     int
	pending  bool // a frame is awaiting its final message
	sid      string
	err      error
	logger   *slog.Logger

	mu        sync.RWMutex
	state     State
	done      chan struct{}
	closeOnce sync.Once
}

// ID is a client-side identifier for the stream, attached to its log records.
func (s *Stream) ID() string {
	return s.id
}

// SID returns the session id of the most recent server message.
func (s *Stream) SID() string {
	return s.sid
}

func (s *Stream) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Stream) setState(newState State) {
	s.mu.Lock()
	oldState := s.state
	if oldState == newState || oldState.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.state = newState
	s.mu.Unlock()

	if s.options.OnStateChange != nil {
		s.options.OnStateChange(oldState, newState)
	}
}

// Next returns the next audio fragment. It returns io.EOF after the final
// message of the last chunk, at which point the connection is already closed.
// The first error ends the stream; remaining chunks are not sent.
func (s *Stream) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := s.ctx.Err(); err != nil {
		return nil, s.fail(NewErrorWithCause(ErrorStatusCanceled, "synthesis canceled", err))
	}
	if s.closed() {
		return nil, ErrStreamClosed
	}

	if !s.pending {
		if s.sent == len(s.chunks) {
			s.closeResources()
			s.err = io.EOF
			return nil, io.EOF
		}
		if err := s.send(s.chunks[s.sent]); err != nil {
			return nil, s.fail(err)
		}
	}

	msg, err := s.receive()
	if err != nil {
		return nil, s.fail(err)
	}
	if msg.SID != "" {
		s.sid = msg.SID
	}

	if msg.Code != 0 {
		s.logger.Error("call error", "sid", msg.SID, "message", msg.Message, "code", msg.Code)
		return nil, s.fail(MapAPIError(msg.Code, msg.Message, msg.SID))
	}
	if msg.Data == nil {
		return nil, s.fail(NewError(ErrorStatusProtocolError, "message has no data"))
	}

	audio, decodeErr := base64.StdEncoding.DecodeString(msg.Data.Audio)
	if decodeErr != nil {
		return nil, s.fail(NewErrorWithCause(ErrorStatusProtocolError, "failed to decode audio", decodeErr))
	}
	s.logger.Debug("received", "sid", msg.SID, "bytes", len(audio), "status", msg.Data.Status, "ced", msg.Data.Ced)

	if msg.final() {
		s.pending = false
		s.logger.Info("chunk done", "sid", msg.SID, "chunk", s.sent, "chunks", len(s.chunks))
		if s.sent == len(s.chunks) {
			s.closeResources()
			s.err = io.EOF
		} else {
			s.setState(StateConnected)
		}
	}
	return audio, nil
}

// WriteTo writes every remaining fragment to w in order.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for {
		audio, err := s.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		m, err := w.Write(audio)
		n += int64(m)
		if err != nil {
			s.Close()
			return n, err
		}
	}
}

// All returns an iterator over the remaining fragments. The stream is closed
// when the loop ends, including on break; an error is yielded once, last.
//
//	for audio, err := range stream.All() {
//	    if err != nil {
//	        return err
//	    }
//	    out.Write(audio)
//	}
func (s *Stream) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		defer s.Close()
		for {
			audio, err := s.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(audio, nil) {
				return
			}
		}
	}
}

// Close releases the connection. Unsent chunks are dropped. Close is
// idempotent and may be called from any goroutine.
func (s *Stream) Close() error {
	s.closeResources()
	return nil
}

func (s *Stream) send(text []byte) *Error {
	s.setState(StateSending)

	data, err := json.Marshal(newFrame(s.appID, s.business, text))
	if err != nil {
		return NewErrorWithCause(ErrorStatusProtocolError, "failed to marshal frame", err)
	}

	s.logger.Info("sending", "chunk", s.sent+1, "bytes", len(text))
	s.conn.SetWriteDeadline(time.Now().Add(s.options.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return NewErrorWithCause(ErrorStatusWebSocketError, "write error", err)
	}

	s.sent++
	s.pending = true
	s.setState(StateReceiving)
	return nil
}

func (s *Stream) receive() (*Message, *Error) {
	s.conn.SetReadDeadline(time.Now().Add(s.options.ReadTimeout))
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return nil, NewErrorWithCause(ErrorStatusConnectionClosed, "connection closed before final message", err)
		}
		return nil, NewErrorWithCause(ErrorStatusWebSocketError, "read error", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, NewErrorWithCause(ErrorStatusProtocolError, "failed to parse message", err)
	}
	return &msg, nil
}

func (s *Stream) fail(err *Error) error {
	// A transport error caused by our own Close or by cancellation is reported as such.
	if err.Status == ErrorStatusWebSocketError || err.Status == ErrorStatusConnectionClosed {
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			err = NewErrorWithCause(ErrorStatusCanceled, "synthesis canceled", ctxErr)
		} else if s.closed() {
			err = ErrStreamClosed
		}
	}
	s.err = err
	s.setState(StateFailed)
	s.closeResources()
	return err
}

func (s *Stream) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// watch closes the connection when the call's context ends, unblocking any
// pending read or write.
func (s *Stream) watch() {
	select {
	case <-s.ctx.Done():
		s.closeResources()
	case <-s.done:
	}
}

func (s *Stream) closeResources() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.options.WriteTimeout))
			s.conn.Close()
		}
		s.setState(StateClosed)
		s.logger.Info("closed")
	})
}
