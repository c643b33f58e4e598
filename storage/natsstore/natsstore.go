// Package natsstore provides a quad store adapter backed by a NATS
// JetStream key-value bucket.
//
// Each entity's quads live in one KV document keyed by its encoded id, so
// a batch touching one entity applies atomically through a single Put.
// Batches spanning several entities apply document by document; a failure
// mid-batch can leave earlier documents updated, which the bounded retry
// narrows but cannot eliminate.
package natsstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/pkg/retry"
	"github.com/alien-mcl/RomanticWeb/rdf"
)

// Store is a NATS KV quad store adapter.
type Store struct {
	bucket   jetstream.KeyValue
	retryCfg retry.Config
}

// document is the per-entity KV payload.
type document struct {
	ID    rdf.EntityID     `json:"id"`
	Quads []rdf.EntityQuad `json:"quads"`
}

// Option configures a Store during construction.
type Option func(*Store)

// WithRetry overrides the write retry policy.
func WithRetry(policy errors.RetryConfig) Option {
	return func(s *Store) { s.retryCfg = policy.ToRetryConfig() }
}

// New creates a store over a KV bucket, creating the bucket when absent.
func New(ctx context.Context, js jetstream.JetStream, bucket string, opts ...Option) (*Store, error) {
	if js == nil {
		return nil, errors.Invalid("natsstore", "New", "jetstream cannot be nil")
	}
	if bucket == "" {
		return nil, errors.Invalid("natsstore", "New", "bucket cannot be empty")
	}

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "Per-entity RDF quad documents",
		})
		if err != nil {
			return nil, errors.WrapTransient(err, "natsstore", "New", "create KV bucket")
		}
	}

	return NewWithBucket(kv, opts...), nil
}

// NewWithBucket creates a store over an existing KV bucket.
func NewWithBucket(bucket jetstream.KeyValue, opts ...Option) *Store {
	s := &Store{bucket: bucket, retryCfg: errors.DefaultRetryConfig().ToRetryConfig()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadEntity returns every quad in the entity's document. An absent
// document loads as an empty quad set.
func (s *Store) LoadEntity(ctx context.Context, id rdf.EntityID) ([]rdf.EntityQuad, error) {
	entry, err := s.bucket.Get(ctx, entityKey(id))
	if err == jetstream.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapTransient(err, "natsstore", "LoadEntity",
			fmt.Sprintf("get document for %s", id))
	}

	var doc document
	if err := json.Unmarshal(entry.Value(), &doc); err != nil {
		return nil, errors.WrapFatal(err, "natsstore", "LoadEntity", "unmarshal document")
	}
	return doc.Quads, nil
}

// AssertEntity adds the quads as one batch.
func (s *Store) AssertEntity(ctx context.Context, quads []rdf.EntityQuad) error {
	return s.ApplyChanges(ctx, quads, nil)
}

// RetractEntity removes the quads as one batch.
func (s *Store) RetractEntity(ctx context.Context, quads []rdf.EntityQuad) error {
	return s.ApplyChanges(ctx, nil, quads)
}

// ApplyChanges applies retractions then assertions, rewriting each touched
// entity's document once. Writes retry with bounded backoff.
func (s *Store) ApplyChanges(ctx context.Context, asserted, retracted []rdf.EntityQuad) error {
	touched := make(map[rdf.EntityID]struct{})
	for _, q := range retracted {
		touched[q.Owner] = struct{}{}
	}
	for _, q := range asserted {
		touched[q.Owner] = struct{}{}
	}

	for id := range touched {
		if err := s.applyEntity(ctx, id, asserted, retracted); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyEntity(ctx context.Context, id rdf.EntityID, asserted, retracted []rdf.EntityQuad) error {
	current, err := s.LoadEntity(ctx, id)
	if err != nil {
		return err
	}

	next := make(map[rdf.EntityQuad]struct{}, len(current))
	for _, q := range current {
		next[q] = struct{}{}
	}
	for _, q := range retracted {
		if q.Owner == id {
			delete(next, q)
		}
	}
	for _, q := range asserted {
		if q.Owner == id {
			next[q] = struct{}{}
		}
	}

	key := entityKey(id)
	if len(next) == 0 {
		err := retry.Do(ctx, s.retryCfg, func() error {
			return s.bucket.Delete(ctx, key)
		})
		if err != nil {
			return errors.WrapTransient(err, "natsstore", "ApplyChanges",
				fmt.Sprintf("delete document for %s", id))
		}
		return nil
	}

	doc := document{ID: id, Quads: make([]rdf.EntityQuad, 0, len(next))}
	for q := range next {
		doc.Quads = append(doc.Quads, q)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.WrapFatal(err, "natsstore", "ApplyChanges", "marshal document")
	}

	err = retry.Do(ctx, s.retryCfg, func() error {
		_, putErr := s.bucket.Put(ctx, key, data)
		return putErr
	})
	if err != nil {
		return errors.WrapTransient(err, "natsstore", "ApplyChanges",
			fmt.Sprintf("put document for %s", id))
	}
	return nil
}

// entityKey encodes an entity id as a KV-safe key. The JSON envelope keeps
// blank-node scopes in the key, so scoped blank identities never collide;
// base64url keeps the encoding within the NATS key character set.
func entityKey(id rdf.EntityID) string {
	data, _ := json.Marshal(id)
	return base64.RawURLEncoding.EncodeToString(data)
}
