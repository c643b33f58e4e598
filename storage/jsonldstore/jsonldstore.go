// Package jsonldstore provides a file-backed quad store adapter persisting
// the dataset as a JSON-LD document.
//
// The full dataset lives in memory; the file is the durable copy. Batches
// apply in memory only after the rewritten document reaches disk, so an
// interrupted write never leaves the adapter half-applied. Writes go
// through a temp-file rename and bounded retry. Blank-node scopes do not
// survive the JSON-LD wire format; they are rebuilt on load by following
// incoming references, so a blank node referenced by no entity loses its
// owner.
package jsonldstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/piprate/json-gold/ld"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/pkg/retry"
	"github.com/alien-mcl/RomanticWeb/rdf"
	"github.com/alien-mcl/RomanticWeb/storage/memorystore"
)

// Store is a file-backed quad store adapter.
type Store struct {
	path     string
	retryCfg retry.Config
	proc     *ld.JsonLdProcessor

	mu  sync.Mutex // serializes writers against each other
	mem *memorystore.Store
}

// Option configures a Store during Open.
type Option func(*Store)

// WithRetry overrides the write retry policy.
func WithRetry(policy errors.RetryConfig) Option {
	return func(s *Store) { s.retryCfg = policy.ToRetryConfig() }
}

// Open creates a store over a JSON-LD document file, loading it when it
// exists. A missing file opens an empty store; the file appears on the
// first successful batch.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.Invalid("jsonldstore", "Open", "path cannot be empty")
	}

	s := &Store{
		path:     path,
		retryCfg: errors.DefaultRetryConfig().ToRetryConfig(),
		proc:     ld.NewJsonLdProcessor(),
		mem:      memorystore.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.WrapTransient(err, "jsonldstore", "Open", "read document")
	}

	quads, err := s.decode(data)
	if err != nil {
		return nil, err
	}
	s.mem = memorystore.NewWithQuads(quads)
	return s, nil
}

// LoadEntity returns every quad owned by the entity, across all graphs.
func (s *Store) LoadEntity(ctx context.Context, id rdf.EntityID) ([]rdf.EntityQuad, error) {
	return s.mem.LoadEntity(ctx, id)
}

// AssertEntity adds the quads as one atomic batch.
func (s *Store) AssertEntity(ctx context.Context, quads []rdf.EntityQuad) error {
	return s.ApplyChanges(ctx, quads, nil)
}

// RetractEntity removes the quads as one atomic batch.
func (s *Store) RetractEntity(ctx context.Context, quads []rdf.EntityQuad) error {
	return s.ApplyChanges(ctx, nil, quads)
}

// ApplyChanges rewrites the document with the batch applied and, only when
// the file write succeeds, applies the batch to the in-memory view.
func (s *Store) ApplyChanges(ctx context.Context, asserted, retracted []rdf.EntityQuad) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[rdf.EntityQuad]struct{})
	for _, q := range s.mem.Quads() {
		next[q] = struct{}{}
	}
	for _, q := range retracted {
		delete(next, q)
	}
	for _, q := range asserted {
		next[q] = struct{}{}
	}

	snapshot := make([]rdf.EntityQuad, 0, len(next))
	for q := range next {
		snapshot = append(snapshot, q)
	}

	data, err := s.encode(snapshot)
	if err != nil {
		return err
	}

	err = retry.Do(ctx, s.retryCfg, func() error {
		return writeAtomic(s.path, data)
	})
	if err != nil {
		return errors.WrapTransient(err, "jsonldstore", "ApplyChanges", "write document")
	}

	return s.mem.ApplyChanges(ctx, asserted, retracted)
}

// Size returns the number of quads currently held.
func (s *Store) Size() int {
	return s.mem.Size()
}

// encode renders the quad set as an expanded JSON-LD document.
func (s *Store) encode(quads []rdf.EntityQuad) ([]byte, error) {
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"

	doc, err := s.proc.FromRDF(serializeNQuads(quads), opts)
	if err != nil {
		return nil, errors.WrapFatal(err, "jsonldstore", "encode", "convert dataset to JSON-LD")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.WrapFatal(err, "jsonldstore", "encode", "marshal document")
	}
	return data, nil
}

// decode parses a JSON-LD document back into entity quads.
func (s *Store) decode(data []byte) ([]rdf.EntityQuad, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapFatal(err, "jsonldstore", "decode", "unmarshal document")
	}

	result, err := s.proc.ToRDF(doc, ld.NewJsonLdOptions(""))
	if err != nil {
		return nil, errors.WrapFatal(err, "jsonldstore", "decode", "convert JSON-LD to dataset")
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, errors.Fatal("jsonldstore", "decode", fmt.Sprintf("unexpected ToRDF result %T", result))
	}

	serializer := &ld.NQuadRDFSerializer{}
	serialized, err := serializer.Serialize(dataset)
	if err != nil {
		return nil, errors.WrapFatal(err, "jsonldstore", "decode", "serialize dataset")
	}
	nquads, ok := serialized.(string)
	if !ok {
		return nil, errors.Fatal("jsonldstore", "decode", fmt.Sprintf("unexpected serializer result %T", serialized))
	}

	raws, err := parseNQuads(nquads)
	if err != nil {
		return nil, errors.WrapFatal(err, "jsonldstore", "decode", "parse dataset")
	}
	return entityQuads(raws), nil
}

// writeAtomic writes through a temp file and rename so readers never see a
// torn document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonldstore-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
