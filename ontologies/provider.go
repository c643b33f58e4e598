package ontologies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alien-mcl/RomanticWeb/errors"
)

// Ontology describes one registered vocabulary: a prefix, its base IRI, and
// the set of declared terms. Terms are optional; a prefix with no declared
// terms still resolves prefixed names open-world (base IRI + local name) but
// does not participate in unprefixed term search.
type Ontology struct {
	Prefix  string
	BaseIRI string
	terms   map[string]struct{}
}

// Term returns the full IRI for a local name in this ontology.
func (o Ontology) Term(localName string) string {
	return o.BaseIRI + localName
}

// HasTerm reports whether the local name was declared for this ontology.
func (o Ontology) HasTerm(localName string) bool {
	_, ok := o.terms[localName]
	return ok
}

// Terms returns the declared term names in sorted order.
func (o Ontology) Terms() []string {
	terms := make([]string, 0, len(o.terms))
	for term := range o.terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// OntologyOption configures an ontology during registration.
type OntologyOption func(*Ontology)

// WithTerms declares term names for the ontology, enabling unprefixed
// resolution and class-membership checks against them.
func WithTerms(names ...string) OntologyOption {
	return func(o *Ontology) {
		for _, name := range names {
			o.terms[name] = struct{}{}
		}
	}
}

// Provider resolves vocabulary prefixes and term names to IRIs. It is
// immutable once built and safe for concurrent use.
type Provider struct {
	byPrefix map[string]Ontology
	prefixes []string // sorted, for deterministic enumeration and diagnostics
}

// Option configures a Provider during construction.
type Option func(*Provider) error

// WithOntology registers a vocabulary under a prefix. Registering the same
// prefix twice is a configuration error.
func WithOntology(prefix, baseIRI string, opts ...OntologyOption) Option {
	return func(p *Provider) error {
		if prefix == "" {
			return errors.Invalid("Provider", "WithOntology", "prefix cannot be empty")
		}
		if baseIRI == "" {
			return errors.Invalid("Provider", "WithOntology",
				fmt.Sprintf("base IRI for prefix %q cannot be empty", prefix))
		}
		if _, exists := p.byPrefix[prefix]; exists {
			return errors.Invalid("Provider", "WithOntology",
				fmt.Sprintf("prefix %q registered twice", prefix))
		}

		ont := Ontology{Prefix: prefix, BaseIRI: baseIRI, terms: make(map[string]struct{})}
		for _, opt := range opts {
			opt(&ont)
		}
		p.byPrefix[prefix] = ont
		return nil
	}
}

// NewProvider builds an ontology provider from the given registrations.
func NewProvider(opts ...Option) (*Provider, error) {
	p := &Provider{byPrefix: make(map[string]Ontology)}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	p.prefixes = make([]string, 0, len(p.byPrefix))
	for prefix := range p.byPrefix {
		p.prefixes = append(p.prefixes, prefix)
	}
	sort.Strings(p.prefixes)

	return p, nil
}

// HasPrefix reports whether a prefix is registered.
func (p *Provider) HasPrefix(prefix string) bool {
	_, ok := p.byPrefix[prefix]
	return ok
}

// Ontology returns the ontology registered under a prefix.
func (p *Provider) Ontology(prefix string) (Ontology, bool) {
	ont, ok := p.byPrefix[prefix]
	return ont, ok
}

// Prefixes returns all registered prefixes in sorted order.
func (p *Provider) Prefixes() []string {
	out := make([]string, len(p.prefixes))
	copy(out, p.prefixes)
	return out
}

// Resolve returns the IRI for a prefixed name. The prefix must be
// registered; the local name need not be declared (open-world resolution).
func (p *Provider) Resolve(prefix, localName string) (string, error) {
	ont, ok := p.byPrefix[prefix]
	if !ok {
		return "", errors.WrapInvalid(errors.ErrUnknownOntology, "Provider", "Resolve",
			fmt.Sprintf("resolve %s:%s", prefix, localName))
	}
	return ont.Term(localName), nil
}

// ResolveTerm resolves an unprefixed local name by searching every
// registered ontology's declared terms. Exactly one match resolves to its
// IRI. Zero matches fail with ErrNoSuchMember. More than one match fails
// with ErrAmbiguousProperty; the message enumerates every candidate as
// prefix:localName so callers can disambiguate.
func (p *Provider) ResolveTerm(localName string) (string, error) {
	var candidates []string
	var resolved string

	for _, prefix := range p.prefixes {
		ont := p.byPrefix[prefix]
		if ont.HasTerm(localName) {
			candidates = append(candidates, prefix+":"+localName)
			resolved = ont.Term(localName)
		}
	}

	switch len(candidates) {
	case 0:
		return "", errors.WrapInvalid(errors.ErrNoSuchMember, "Provider", "ResolveTerm",
			fmt.Sprintf("resolve %q", localName))
	case 1:
		return resolved, nil
	default:
		return "", errors.WrapInvalid(errors.ErrAmbiguousProperty, "Provider", "ResolveTerm",
			fmt.Sprintf("resolve %q: candidates are %s", localName, strings.Join(candidates, ", ")))
	}
}

// Compact rewrites an IRI as prefix:localName when a registered ontology's
// base IRI is its prefix. Used for diagnostics; returns the IRI unchanged
// when no ontology matches.
func (p *Provider) Compact(iri string) string {
	for _, prefix := range p.prefixes {
		ont := p.byPrefix[prefix]
		if strings.HasPrefix(iri, ont.BaseIRI) && len(iri) > len(ont.BaseIRI) {
			return prefix + ":" + iri[len(ont.BaseIRI):]
		}
	}
	return iri
}
