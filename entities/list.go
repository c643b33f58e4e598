package entities

import (
	"context"
	"fmt"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/mapping"
	"github.com/alien-mcl/RomanticWeb/rdf"
)

// List adapts one rdf:first/rdf:rest chain as an ordered collection. The
// chain is walked lazily on each read, restricted to the graph holding its
// head, with a visited guard so a cyclic chain fails instead of looping.
type List struct {
	entity *Entity
	prop   mapping.Property
}

func newList(e *Entity, prop mapping.Property) *List {
	return &List{entity: e, prop: prop}
}

// Values walks the chain and converts every rdf:first object to a typed
// value, in chain order. An absent member reads as nil; an explicit empty
// list (head rdf:nil) reads as an empty slice. A chain node missing its
// rdf:first or rdf:rest link, or a chain that revisits a node, fails with
// ErrMalformedList.
func (l *List) Values(ctx context.Context) ([]any, error) {
	quads, err := l.entity.ctx.store.EffectiveQuads(ctx, l.entity.ID())
	if err != nil {
		return nil, err
	}

	head, ok := l.head(quads)
	if !ok {
		return nil, nil
	}

	items, _, err := walkChain(quads, head.Object, head.Graph)
	if err != nil {
		return nil, err
	}

	values := make([]any, 0, len(items))
	for _, item := range items {
		v, err := l.entity.nodeToValue(item, l.prop)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Append stages one value at the end of the chain, rewriting only the
// terminal rdf:rest link. Appending to an absent or empty list starts a
// fresh single-element chain.
func (l *List) Append(ctx context.Context, value any) error {
	quads, err := l.entity.ctx.store.EffectiveQuads(ctx, l.entity.ID())
	if err != nil {
		return err
	}

	node, err := l.entity.valueToNode(value, l.prop)
	if err != nil {
		return err
	}

	e := l.entity
	head, ok := l.head(quads)
	if !ok {
		g := e.writeGraph(l.prop)
		fresh := rdf.NewBlank(e.ctx.nextBlank(), e.ID(), g)
		e.ctx.store.AssertEntity(e.ID(),
			rdf.NewGraphQuad(e.ID(), e.Node(), rdf.NewIRI(l.prop.Predicate), fresh, g),
			rdf.NewGraphQuad(e.ID(), fresh, rdf.NewIRI(rdf.RdfFirst), node, g),
			rdf.NewGraphQuad(e.ID(), fresh, rdf.NewIRI(rdf.RdfRest), rdf.NewIRI(rdf.RdfNil), g),
		)
		return nil
	}

	g := head.Graph
	fresh := rdf.NewBlank(e.ctx.nextBlank(), e.ID(), g)

	if isNil(head.Object) {
		e.ctx.store.RetractEntity(e.ID(), head)
		e.ctx.store.AssertEntity(e.ID(),
			rdf.NewGraphQuad(e.ID(), e.Node(), rdf.NewIRI(l.prop.Predicate), fresh, g),
			rdf.NewGraphQuad(e.ID(), fresh, rdf.NewIRI(rdf.RdfFirst), node, g),
			rdf.NewGraphQuad(e.ID(), fresh, rdf.NewIRI(rdf.RdfRest), rdf.NewIRI(rdf.RdfNil), g),
		)
		return nil
	}

	_, terminal, err := walkChain(quads, head.Object, g)
	if err != nil {
		return err
	}
	tail, _ := quadOf(quads, terminal, rdf.RdfRest, g)

	e.ctx.store.RetractEntity(e.ID(), tail)
	e.ctx.store.AssertEntity(e.ID(),
		rdf.NewGraphQuad(e.ID(), terminal, rdf.NewIRI(rdf.RdfRest), fresh, g),
		rdf.NewGraphQuad(e.ID(), fresh, rdf.NewIRI(rdf.RdfFirst), node, g),
		rdf.NewGraphQuad(e.ID(), fresh, rdf.NewIRI(rdf.RdfRest), rdf.NewIRI(rdf.RdfNil), g),
	)
	return nil
}

// Replace stages a full overwrite: the old chain is retracted and a fresh
// chain of blank nodes is built. An empty slice writes an explicit empty
// list; nil clears the member entirely.
func (l *List) Replace(ctx context.Context, values []any) error {
	var value any
	if values != nil {
		value = values
	}
	return l.entity.writeProperty(ctx, l.prop, value)
}

// head finds the chain's head link through the property's graph filter.
func (l *List) head(quads []rdf.EntityQuad) (rdf.EntityQuad, bool) {
	filter := l.entity.readFilter(l.prop)
	for _, q := range quads {
		if q.Subject == l.entity.Node() && q.Predicate.Value() == l.prop.Predicate && filter.Matches(q.Graph) {
			return q, true
		}
	}
	return rdf.EntityQuad{}, false
}

// buildChain encodes values as a fresh rdf:first/rdf:rest chain of blank
// nodes in one graph. An empty sequence encodes as a bare rdf:nil head with
// no chain nodes.
func (e *Entity) buildChain(values []any, prop mapping.Property, graph string) (rdf.Node, []rdf.EntityQuad, error) {
	if len(values) == 0 {
		return rdf.NewIRI(rdf.RdfNil), nil, nil
	}

	nodes := make([]rdf.Node, len(values))
	for i, v := range values {
		n, err := e.valueToNode(v, prop)
		if err != nil {
			return rdf.Node{}, nil, err
		}
		nodes[i] = n
	}

	links := make([]rdf.Node, len(values))
	for i := range links {
		links[i] = rdf.NewBlank(e.ctx.nextBlank(), e.ID(), graph)
	}

	quads := make([]rdf.EntityQuad, 0, 2*len(values))
	for i, link := range links {
		rest := rdf.NewIRI(rdf.RdfNil)
		if i < len(links)-1 {
			rest = links[i+1]
		}
		quads = append(quads,
			rdf.NewGraphQuad(e.ID(), link, rdf.NewIRI(rdf.RdfFirst), nodes[i], graph),
			rdf.NewGraphQuad(e.ID(), link, rdf.NewIRI(rdf.RdfRest), rest, graph),
		)
	}
	return links[0], quads, nil
}

// walkChain traverses a chain from its head node, returning the rdf:first
// objects in order and the terminal chain node (the one whose rdf:rest is
// rdf:nil). The terminal is the zero Node for an empty chain.
func walkChain(quads []rdf.EntityQuad, head rdf.Node, graph string) ([]rdf.Node, rdf.Node, error) {
	var items []rdf.Node
	var terminal rdf.Node

	visited := make(map[rdf.Node]struct{})
	current := head
	for !isNil(current) {
		if _, seen := visited[current]; seen {
			return nil, rdf.Node{}, errors.WrapFatal(errors.ErrMalformedList, "List", "walkChain",
				fmt.Sprintf("chain revisits node %s", current))
		}
		visited[current] = struct{}{}

		first, ok := objectOf(quads, current, rdf.RdfFirst, graph)
		if !ok {
			return nil, rdf.Node{}, errors.WrapFatal(errors.ErrMalformedList, "List", "walkChain",
				fmt.Sprintf("chain node %s has no rdf:first", current))
		}
		rest, ok := objectOf(quads, current, rdf.RdfRest, graph)
		if !ok {
			return nil, rdf.Node{}, errors.WrapFatal(errors.ErrMalformedList, "List", "walkChain",
				fmt.Sprintf("chain node %s has no rdf:rest", current))
		}

		items = append(items, first)
		terminal = current
		current = rest
	}
	return items, terminal, nil
}

// collectChainQuads gathers every rdf:first and rdf:rest quad a chain head
// reaches, for retraction on overwrite.
func collectChainQuads(quads []rdf.EntityQuad, head rdf.Node, graph string) ([]rdf.EntityQuad, error) {
	if head.IsLiteral() || isNil(head) {
		return nil, nil
	}

	var out []rdf.EntityQuad
	visited := make(map[rdf.Node]struct{})
	current := head
	for !isNil(current) {
		if _, seen := visited[current]; seen {
			return nil, errors.WrapFatal(errors.ErrMalformedList, "List", "collectChainQuads",
				fmt.Sprintf("chain revisits node %s", current))
		}
		visited[current] = struct{}{}

		firstQuad, ok := quadOf(quads, current, rdf.RdfFirst, graph)
		if !ok {
			return nil, errors.WrapFatal(errors.ErrMalformedList, "List", "collectChainQuads",
				fmt.Sprintf("chain node %s has no rdf:first", current))
		}
		restQuad, ok := quadOf(quads, current, rdf.RdfRest, graph)
		if !ok {
			return nil, errors.WrapFatal(errors.ErrMalformedList, "List", "collectChainQuads",
				fmt.Sprintf("chain node %s has no rdf:rest", current))
		}

		out = append(out, firstQuad, restQuad)
		current = restQuad.Object
	}
	return out, nil
}

// quadOf finds the first quad matching (subject, predicate, graph).
func quadOf(quads []rdf.EntityQuad, subject rdf.Node, predicateIRI, graph string) (rdf.EntityQuad, bool) {
	for _, q := range quads {
		if q.Subject == subject && q.Predicate.Value() == predicateIRI && q.Graph == graph {
			return q, true
		}
	}
	return rdf.EntityQuad{}, false
}

func isNil(n rdf.Node) bool {
	return n.IsIRI() && n.Value() == rdf.RdfNil
}
