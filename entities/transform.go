package entities

import (
	"context"
	"fmt"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/mapping"
	"github.com/alien-mcl/RomanticWeb/rdf"
)

// readFilter computes which graphs a property read observes. An entity
// override pins the read; otherwise the property's graph policy decides.
func (e *Entity) readFilter(prop mapping.Property) GraphFilter {
	if e.graphOverride != nil {
		return FilterGraph(*e.graphOverride)
	}
	switch prop.Graph.Selection {
	case mapping.GraphNamed:
		return FilterGraph(prop.Graph.Named)
	case mapping.GraphUnion:
		return FilterUnion()
	default:
		return FilterGraph(e.ctx.defaultGraph)
	}
}

// writeGraph computes the single graph a property write targets.
// Precedence: entity override, then a named-graph property policy, then the
// context default graph. Union-read properties write to the default graph.
func (e *Entity) writeGraph(prop mapping.Property) string {
	if e.graphOverride != nil {
		return *e.graphOverride
	}
	if prop.Graph.Selection == mapping.GraphNamed {
		return prop.Graph.Named
	}
	return e.ctx.defaultGraph
}

// readProperty reads one property per its storage strategy and converts the
// matching graph nodes to typed values.
func (e *Entity) readProperty(ctx context.Context, prop mapping.Property) (any, error) {
	if prop.IsDictionary {
		return e.readDictionary(ctx, prop)
	}
	if prop.Storage == mapping.StorageList {
		return newList(e, prop).Values(ctx)
	}

	objects, err := e.ctx.store.QuadsMatching(ctx, e.ID(), e.Node(), prop.Predicate, e.readFilter(prop))
	if err != nil {
		return nil, err
	}

	if prop.Storage == mapping.StorageMulti {
		values := make([]any, 0, len(objects))
		for _, o := range objects {
			v, err := e.nodeToValue(o, prop)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}

	// Single-value: an absent property reads as nil. When several triples
	// match, one representative is taken; which one is unspecified.
	if len(objects) == 0 {
		return nil, nil
	}
	return e.nodeToValue(objects[0], prop)
}

// writeProperty replaces every value of the property's predicate in the
// target graph with the given value, staging retractions and assertions in
// the entity store. A nil value clears the property.
func (e *Entity) writeProperty(ctx context.Context, prop mapping.Property, value any) error {
	if prop.IsDictionary {
		return e.writeDictionary(ctx, prop, value)
	}

	graph := e.writeGraph(prop)
	quads, err := e.ctx.store.EffectiveQuads(ctx, e.ID())
	if err != nil {
		return err
	}

	retract, err := e.collectPropertyQuads(quads, prop, graph)
	if err != nil {
		return err
	}

	var assert []rdf.EntityQuad
	switch {
	case value == nil:
		// clear only
	case prop.Storage == mapping.StorageList:
		head, chain, err := e.buildChain(valueSlice(value), prop, graph)
		if err != nil {
			return err
		}
		assert = append(chain, rdf.NewGraphQuad(e.ID(), e.Node(), rdf.NewIRI(prop.Predicate), head, graph))
	case prop.Storage == mapping.StorageMulti:
		for _, v := range valueSlice(value) {
			node, err := e.valueToNode(v, prop)
			if err != nil {
				return err
			}
			assert = append(assert, rdf.NewGraphQuad(e.ID(), e.Node(), rdf.NewIRI(prop.Predicate), node, graph))
		}
	default:
		node, err := e.valueToNode(value, prop)
		if err != nil {
			return err
		}
		assert = append(assert, rdf.NewGraphQuad(e.ID(), e.Node(), rdf.NewIRI(prop.Predicate), node, graph))
	}

	if len(retract) > 0 {
		e.ctx.store.RetractEntity(e.ID(), retract...)
	}
	if len(assert) > 0 {
		e.ctx.store.AssertEntity(e.ID(), assert...)
	}
	return nil
}

// collectPropertyQuads gathers the quads an overwrite of the property must
// retract: the predicate links in the target graph plus, for list storage,
// every chain node the old heads reach.
func (e *Entity) collectPropertyQuads(quads []rdf.EntityQuad, prop mapping.Property, graph string) ([]rdf.EntityQuad, error) {
	var out []rdf.EntityQuad
	for _, q := range quads {
		if q.Subject != e.Node() || q.Predicate.Value() != prop.Predicate || q.Graph != graph {
			continue
		}
		out = append(out, q)

		if prop.Storage == mapping.StorageList {
			chain, err := collectChainQuads(quads, q.Object, graph)
			if err != nil {
				return nil, err
			}
			out = append(out, chain...)
		}
	}
	return out, nil
}

// nodeToValue converts one graph node to a typed value. IRI and blank nodes
// become nested entity proxies unless the property names a converter;
// literals convert through the named converter or datatype inference.
func (e *Entity) nodeToValue(node rdf.Node, prop mapping.Property) (any, error) {
	if prop.IsEntity || (!node.IsLiteral() && prop.Converter == "") {
		return e.nodeToEntity(node, prop)
	}

	var v any
	var err error
	if prop.Converter != "" {
		v, err = e.ctx.converters.Named(prop.Converter).FromNode(node)
	} else {
		v, err = e.ctx.converters.InferFromNode(node)
	}
	if err != nil && e.ctx.metrics != nil {
		e.ctx.metrics.RecordConversionError()
	}
	return v, err
}

// nodeToEntity materializes an associated entity proxy for an IRI or blank
// object node, typed when the property binds an entity type. Named-graph
// context propagates so nested access stays in the same graph.
func (e *Entity) nodeToEntity(node rdf.Node, prop mapping.Property) (*Entity, error) {
	id, err := node.EntityID()
	if err != nil {
		if e.ctx.metrics != nil {
			e.ctx.metrics.RecordConversionError()
		}
		return nil, errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrConversion, err),
			"Entity", "Get", fmt.Sprintf("materialize %s as entity", node))
	}

	var nested *Entity
	if prop.EntityType != "" {
		nested, err = e.ctx.CreateTyped(id, prop.EntityType)
	} else {
		nested, err = e.ctx.Create(id)
	}
	if err != nil {
		return nil, err
	}

	if e.graphOverride != nil {
		nested.graphOverride = e.graphOverride
	} else if prop.Graph.Selection == mapping.GraphNamed {
		g := prop.Graph.Named
		nested.graphOverride = &g
	}
	return nested, nil
}

// valueToNode converts one typed value to a graph node. Entity handles and
// raw terms pass through; everything else goes through the property's
// converter or the fallback.
func (e *Entity) valueToNode(value any, prop mapping.Property) (rdf.Node, error) {
	switch v := value.(type) {
	case *Entity:
		return v.Node(), nil
	case rdf.EntityID:
		return v.Node(), nil
	case rdf.Node:
		return v, nil
	}

	if prop.IsEntity {
		if e.ctx.metrics != nil {
			e.ctx.metrics.RecordConversionError()
		}
		return rdf.Node{}, errors.WrapInvalid(
			fmt.Errorf("%w: got %T", errors.ErrConversion, value),
			"Entity", "Set", fmt.Sprintf("property %q takes an entity value", prop.Name))
	}

	node, err := e.ctx.converters.Named(prop.Converter).ToNode(value)
	if err != nil && e.ctx.metrics != nil {
		e.ctx.metrics.RecordConversionError()
	}
	return node, err
}

// valueSlice normalizes a write value for multi-value and list members: a
// []any passes through, nil is empty, anything else is one element.
func valueSlice(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

// readDictionary decodes a key/value member: each object of the predicate
// is an entry node carrying one key triple and one value triple.
func (e *Entity) readDictionary(ctx context.Context, prop mapping.Property) (map[any]any, error) {
	quads, err := e.ctx.store.EffectiveQuads(ctx, e.ID())
	if err != nil {
		return nil, err
	}

	filter := e.readFilter(prop)
	result := make(map[any]any)
	for _, q := range quads {
		if q.Subject != e.Node() || q.Predicate.Value() != prop.Predicate || !filter.Matches(q.Graph) {
			continue
		}

		keyNode, ok := objectOf(quads, q.Object, prop.KeyPredicate, q.Graph)
		if !ok {
			continue
		}
		valueNode, ok := objectOf(quads, q.Object, prop.ValuePredicate, q.Graph)
		if !ok {
			continue
		}

		key, err := e.ctx.converters.InferFromNode(keyNode)
		if err != nil {
			return nil, err
		}
		value, err := e.nodeToValue(valueNode, mapping.Property{Name: prop.Name, Converter: prop.Converter})
		if err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, nil
}

// writeDictionary replaces the member's entries with the given map. Each
// entry gets a fresh blank node linked through the key and value predicates.
func (e *Entity) writeDictionary(ctx context.Context, prop mapping.Property, value any) error {
	graph := e.writeGraph(prop)
	quads, err := e.ctx.store.EffectiveQuads(ctx, e.ID())
	if err != nil {
		return err
	}

	var retract []rdf.EntityQuad
	for _, q := range quads {
		if q.Subject != e.Node() || q.Predicate.Value() != prop.Predicate || q.Graph != graph {
			continue
		}
		retract = append(retract, q)
		for _, eq := range quads {
			if eq.Subject == q.Object && eq.Graph == graph {
				retract = append(retract, eq)
			}
		}
	}

	var assert []rdf.EntityQuad
	if value != nil {
		entries, ok := value.(map[any]any)
		if !ok {
			return errors.WrapInvalid(
				fmt.Errorf("%w: got %T", errors.ErrConversion, value),
				"Entity", "Set", fmt.Sprintf("dictionary property %q takes map[any]any", prop.Name))
		}

		for k, v := range entries {
			keyNode, err := e.ctx.converters.Fallback().ToNode(k)
			if err != nil {
				return err
			}
			valueNode, err := e.valueToNode(v, mapping.Property{Name: prop.Name, Converter: prop.Converter})
			if err != nil {
				return err
			}

			entry := rdf.NewBlank(e.ctx.nextBlank(), e.ID(), graph)
			assert = append(assert,
				rdf.NewGraphQuad(e.ID(), e.Node(), rdf.NewIRI(prop.Predicate), entry, graph),
				rdf.NewGraphQuad(e.ID(), entry, rdf.NewIRI(prop.KeyPredicate), keyNode, graph),
				rdf.NewGraphQuad(e.ID(), entry, rdf.NewIRI(prop.ValuePredicate), valueNode, graph),
			)
		}
	}

	if len(retract) > 0 {
		e.ctx.store.RetractEntity(e.ID(), retract...)
	}
	if len(assert) > 0 {
		e.ctx.store.AssertEntity(e.ID(), assert...)
	}
	return nil
}

// objectOf finds the first object of (subject, predicate) in one graph
// within a quad set.
func objectOf(quads []rdf.EntityQuad, subject rdf.Node, predicateIRI, graph string) (rdf.Node, bool) {
	for _, q := range quads {
		if q.Subject == subject && q.Predicate.Value() == predicateIRI && q.Graph == graph {
			return q.Object, true
		}
	}
	return rdf.Node{}, false
}
