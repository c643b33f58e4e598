// Package remotestore provides a quad store adapter speaking a JSON
// protocol over a websocket connection, plus the matching server handler
// for exposing any local adapter to remote contexts.
//
// The protocol is strict request/response: the client sends one message
// and reads one reply, so a single connection carries one in-flight
// operation at a time. Load failures surface immediately; batch writes
// retry with bounded backoff, reconnecting between attempts.
package remotestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/pkg/retry"
	"github.com/alien-mcl/RomanticWeb/rdf"
	"github.com/alien-mcl/RomanticWeb/storage"
)

// Protocol message types.
const (
	msgLoad  = "load"
	msgApply = "apply"
	msgQuads = "quads"
	msgOK    = "ok"
	msgError = "error"
)

type request struct {
	Type      string           `json:"type"`
	ID        *rdf.EntityID    `json:"id,omitempty"`
	Asserted  []rdf.EntityQuad `json:"asserted,omitempty"`
	Retracted []rdf.EntityQuad `json:"retracted,omitempty"`
}

type response struct {
	Type  string           `json:"type"`
	Quads []rdf.EntityQuad `json:"quads,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Store is a websocket-backed quad store adapter.
type Store struct {
	url      string
	dialer   *websocket.Dialer
	retryCfg retry.Config

	mu   sync.Mutex // one in-flight request per connection
	conn *websocket.Conn
}

// Option configures a Store during construction.
type Option func(*Store)

// WithRetry overrides the write retry policy.
func WithRetry(policy errors.RetryConfig) Option {
	return func(s *Store) { s.retryCfg = policy.ToRetryConfig() }
}

// WithHandshakeTimeout bounds the websocket dial.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(s *Store) { s.dialer.HandshakeTimeout = d }
}

// Dial connects to a remote quad store endpoint.
func Dial(url string, opts ...Option) (*Store, error) {
	if url == "" {
		return nil, errors.Invalid("remotestore", "Dial", "url cannot be empty")
	}

	s := &Store{
		url:      url,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		retryCfg: errors.DefaultRetryConfig().ToRetryConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}

	conn, _, err := s.dialer.Dial(url, nil)
	if err != nil {
		return nil, errors.WrapTransient(fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err),
			"remotestore", "Dial", "connect to remote store")
	}
	s.conn = conn
	return s, nil
}

// Close closes the connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// LoadEntity fetches the entity's quads from the remote store. Not
// retried; transient failures propagate to the caller.
func (s *Store) LoadEntity(ctx context.Context, id rdf.EntityID) ([]rdf.EntityQuad, error) {
	resp, err := s.roundTrip(ctx, request{Type: msgLoad, ID: &id})
	if err != nil {
		return nil, errors.WrapTransient(err, "remotestore", "LoadEntity",
			fmt.Sprintf("fetch quads for %s", id))
	}
	return resp.Quads, nil
}

// AssertEntity adds the quads as one batch.
func (s *Store) AssertEntity(ctx context.Context, quads []rdf.EntityQuad) error {
	return s.ApplyChanges(ctx, quads, nil)
}

// RetractEntity removes the quads as one batch.
func (s *Store) RetractEntity(ctx context.Context, quads []rdf.EntityQuad) error {
	return s.ApplyChanges(ctx, nil, quads)
}

// ApplyChanges ships the batch in one message; the server applies it
// atomically. Retries with bounded backoff, reconnecting between attempts.
func (s *Store) ApplyChanges(ctx context.Context, asserted, retracted []rdf.EntityQuad) error {
	err := retry.Do(ctx, s.retryCfg, func() error {
		_, err := s.roundTrip(ctx, request{Type: msgApply, Asserted: asserted, Retracted: retracted})
		return err
	})
	if err != nil {
		return errors.WrapTransient(err, "remotestore", "ApplyChanges", "ship batch")
	}
	return nil
}

// roundTrip sends one request and reads its reply, reconnecting first if a
// previous failure dropped the connection.
func (s *Store) roundTrip(ctx context.Context, req request) (*response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.conn == nil {
		conn, _, err := s.dialer.Dial(s.url, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err)
		}
		s.conn = conn
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetWriteDeadline(deadline)
		_ = s.conn.SetReadDeadline(deadline)
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.dropConn()
		return nil, fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err)
	}
	_, payload, err := s.conn.ReadMessage()
	if err != nil {
		s.dropConn()
		return nil, fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err)
	}

	var resp response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}
	if resp.Type == msgError {
		return nil, fmt.Errorf("remote store: %s", resp.Error)
	}
	return &resp, nil
}

func (s *Store) dropConn() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

// Handler exposes a local quad store adapter over the websocket protocol.
// Each connection is served by one goroutine; batches apply with whatever
// atomicity the backing adapter provides.
func Handler(backend storage.Store) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var req request
			if err := json.Unmarshal(payload, &req); err != nil {
				writeResponse(conn, response{Type: msgError, Error: err.Error()})
				continue
			}

			writeResponse(conn, serve(r.Context(), backend, req))
		}
	})
}

func serve(ctx context.Context, backend storage.Store, req request) response {
	switch req.Type {
	case msgLoad:
		if req.ID == nil {
			return response{Type: msgError, Error: "load requires an entity id"}
		}
		quads, err := backend.LoadEntity(ctx, *req.ID)
		if err != nil {
			return response{Type: msgError, Error: err.Error()}
		}
		return response{Type: msgQuads, Quads: quads}
	case msgApply:
		if err := backend.ApplyChanges(ctx, req.Asserted, req.Retracted); err != nil {
			return response{Type: msgError, Error: err.Error()}
		}
		return response{Type: msgOK}
	default:
		return response{Type: msgError, Error: fmt.Sprintf("unknown request type %q", req.Type)}
	}
}

func writeResponse(conn *websocket.Conn, resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		data = []byte(`{"type":"error","error":"marshal response"}`)
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}
