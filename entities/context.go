package entities

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/mapping"
	"github.com/alien-mcl/RomanticWeb/metric"
	"github.com/alien-mcl/RomanticWeb/ontologies"
	"github.com/alien-mcl/RomanticWeb/rdf"
	"github.com/alien-mcl/RomanticWeb/storage"
)

// GraphFilter selects which named graphs a read observes.
type GraphFilter struct {
	union bool
	graph string
}

// FilterGraph observes exactly one graph ("" is the default graph).
func FilterGraph(graph string) GraphFilter {
	return GraphFilter{graph: graph}
}

// FilterUnion observes the union of all graphs.
func FilterUnion() GraphFilter {
	return GraphFilter{union: true}
}

// Matches reports whether a quad in the given graph passes the filter.
func (f GraphFilter) Matches(graph string) bool {
	return f.union || f.graph == graph
}

// entityRecord is one arena slot: the identity-mapped state shared by every
// proxy handed out for the id.
type entityRecord struct {
	id rdf.EntityID
}

// Context is the entry point of the entity layer. It owns the identity map,
// the mapping and ontology configuration, and the change-tracking store; all
// proxies created through one context share them.
//
// A context is scoped configuration, not global state: two contexts over the
// same adapter are fully independent.
type Context struct {
	store      *EntityStore
	mappings   mapping.Repository
	ontologies *ontologies.Provider
	converters *ConverterRegistry

	defaultGraph string
	threadSafe   bool
	metrics      *metric.Metrics

	mu      sync.RWMutex
	records []*entityRecord
	slots   map[rdf.EntityID]int

	blankSeq atomic.Int64
}

// Option configures a Context during construction.
type Option func(*Context)

// WithDefaultGraph sets the graph written to when neither the property
// mapping nor an override names one. The zero value targets the unnamed
// default graph.
func WithDefaultGraph(graphIRI string) Option {
	return func(c *Context) { c.defaultGraph = graphIRI }
}

// WithThreadSafe guards entity cache slots individually and serializes
// commits, making the context safe for concurrent use.
func WithThreadSafe() Option {
	return func(c *Context) { c.threadSafe = true }
}

// WithMetrics attaches Prometheus instrumentation to the load, commit, and
// conversion paths.
func WithMetrics(m *metric.Metrics) Option {
	return func(c *Context) { c.metrics = m }
}

// WithConverters replaces the default converter registry.
func WithConverters(r *ConverterRegistry) Option {
	return func(c *Context) { c.converters = r }
}

// WithMappings supplies the mapping repository typed proxies resolve
// against. Without it only untyped (dynamic) access is available.
func WithMappings(r mapping.Repository) Option {
	return func(c *Context) { c.mappings = r }
}

// WithOntologies supplies the ontology provider used for prefixed-name and
// unprefixed-term resolution on dynamic access.
func WithOntologies(p *ontologies.Provider) Option {
	return func(c *Context) { c.ontologies = p }
}

// NewContext creates an entity context over a quad store adapter.
func NewContext(adapter storage.Store, opts ...Option) (*Context, error) {
	c := &Context{
		converters: DefaultConverters(),
		slots:      make(map[rdf.EntityID]int),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.ontologies == nil {
		p, err := ontologies.NewProvider()
		if err != nil {
			return nil, err
		}
		c.ontologies = p
	}

	store, err := NewEntityStore(adapter, c.threadSafe, c.metrics)
	if err != nil {
		return nil, err
	}
	c.store = store
	return c, nil
}

// slotFor returns the arena index for an id, allocating a record on first
// use. All proxies for one id share one slot.
func (c *Context) slotFor(id rdf.EntityID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot, ok := c.slots[id]; ok {
		return slot
	}
	slot := len(c.records)
	c.records = append(c.records, &entityRecord{id: id})
	c.slots[id] = slot
	return slot
}

func (c *Context) record(slot int) *entityRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records[slot]
}

// Create returns an untyped proxy for the entity. No store access happens
// until a property is read; creating a proxy for an absent entity is legal
// and yields empty reads.
func (c *Context) Create(id rdf.EntityID) (*Entity, error) {
	if id.IsZero() {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "Context", "Create",
			"validate entity id: zero id")
	}
	return &Entity{ctx: c, slot: c.slotFor(id)}, nil
}

// CreateTyped returns a proxy bound to the mapping registered under
// typeName. The typed view shares the untyped record: proxies for one id
// compare equal regardless of the mapping they carry.
func (c *Context) CreateTyped(id rdf.EntityID, typeName string) (*Entity, error) {
	if id.IsZero() {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "Context", "CreateTyped",
			"validate entity id: zero id")
	}
	if c.mappings == nil {
		return nil, errors.WrapInvalid(errors.ErrMappingNotFound, "Context", "CreateTyped",
			fmt.Sprintf("bind %s to type %q: no mapping repository configured", id, typeName))
	}
	m, ok := c.mappings.MappingFor(typeName)
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrMappingNotFound, "Context", "CreateTyped",
			fmt.Sprintf("bind %s to type %q", id, typeName))
	}
	return &Entity{ctx: c, slot: c.slotFor(id), mapping: m}, nil
}

// CreateBlank returns an untyped proxy over a fresh blank-node identity
// scoped to the context's default graph.
func (c *Context) CreateBlank() *Entity {
	id := rdf.NewBlankEntityID(c.nextBlank(), rdf.EntityID{}, c.defaultGraph)
	return &Entity{ctx: c, slot: c.slotFor(id)}
}

// nextBlank mints a fresh blank-node local identifier, unique within the
// context.
func (c *Context) nextBlank() string {
	return "b" + strconv.FormatInt(c.blankSeq.Add(1), 10)
}

// Detach removes an entity from the identity map and drops its cached quads
// and staged changes. A later Create for the same id starts a fresh record.
func (c *Context) Detach(id rdf.EntityID) {
	c.mu.Lock()
	if slot, ok := c.slots[id]; ok {
		delete(c.slots, id)
		c.records[slot] = &entityRecord{id: id} // orphan; old proxies keep reading it
	}
	c.mu.Unlock()

	c.store.Detach(id)
}

// HasChanges reports whether any tracked entity has staged changes.
func (c *Context) HasChanges() bool {
	return c.store.HasChanges()
}

// Commit flushes all staged changes through the adapter in one batch. On
// failure staged state is kept intact, so Commit can be retried.
func (c *Context) Commit(ctx context.Context) error {
	return c.store.Commit(ctx)
}

// Rollback discards all staged changes without touching the adapter.
func (c *Context) Rollback() {
	c.store.Rollback()
}

// Store exposes the change-tracking entity store.
func (c *Context) Store() *EntityStore {
	return c.store
}

// Ontologies exposes the scoped ontology provider.
func (c *Context) Ontologies() *ontologies.Provider {
	return c.ontologies
}

// Converters exposes the converter registry.
func (c *Context) Converters() *ConverterRegistry {
	return c.converters
}
