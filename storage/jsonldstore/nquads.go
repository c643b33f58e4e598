package jsonldstore

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/alien-mcl/RomanticWeb/rdf"
)

// The JSON-LD processor exchanges datasets as N-Quads text. Serialization
// flattens blank-node scopes into unique labels; parsing recovers ownership
// by reachability (a blank subject belongs to the entity whose quads
// reference it).

type termKind int

const (
	termIRI termKind = iota
	termBlank
	termLiteral
)

type term struct {
	kind     termKind
	value    string
	language string
	datatype string
}

type rawQuad struct {
	subject   term
	predicate term
	object    term
	graph     string
}

// serializeNQuads renders quads as sorted N-Quads text. Blank labels are
// derived from the node's identifier and scope so distinct blank identities
// never collide on the wire.
func serializeNQuads(quads []rdf.EntityQuad) string {
	lines := make([]string, 0, len(quads))
	for _, q := range quads {
		var b strings.Builder
		b.WriteString(renderNode(q.Subject))
		b.WriteByte(' ')
		b.WriteString(renderNode(q.Predicate))
		b.WriteByte(' ')
		b.WriteString(renderNode(q.Object))
		if q.Graph != "" {
			b.WriteString(" <")
			b.WriteString(q.Graph)
			b.WriteByte('>')
		}
		b.WriteString(" .")
		lines = append(lines, b.String())
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

func renderNode(n rdf.Node) string {
	switch {
	case n.IsIRI():
		return "<" + n.Value() + ">"
	case n.IsBlank():
		return "_:" + blankLabel(n)
	default:
		out := `"` + escapeLiteral(n.Value()) + `"`
		if n.Language() != "" {
			return out + "@" + n.Language()
		}
		if n.Datatype() != "" && n.Datatype() != rdf.XsdString {
			return out + "^^<" + n.Datatype() + ">"
		}
		return out
	}
}

func blankLabel(n rdf.Node) string {
	h := fnv.New64a()
	h.Write([]byte(n.Value()))
	h.Write([]byte{'|'})
	h.Write([]byte(n.Scope()))
	return "b" + strconv.FormatUint(h.Sum64(), 36)
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseNQuads reads N-Quads text into raw quads, keeping blank labels as
// written.
func parseNQuads(input string) ([]rawQuad, error) {
	var quads []rawQuad
	for lineNo, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := &lineParser{input: line}
		subject, err := p.term()
		if err != nil {
			return nil, fmt.Errorf("line %d: subject: %w", lineNo+1, err)
		}
		predicate, err := p.term()
		if err != nil {
			return nil, fmt.Errorf("line %d: predicate: %w", lineNo+1, err)
		}
		object, err := p.term()
		if err != nil {
			return nil, fmt.Errorf("line %d: object: %w", lineNo+1, err)
		}

		q := rawQuad{subject: subject, predicate: predicate, object: object}
		p.skipSpace()
		if p.peek() == '<' {
			g, err := p.term()
			if err != nil {
				return nil, fmt.Errorf("line %d: graph: %w", lineNo+1, err)
			}
			q.graph = g.value
		}

		p.skipSpace()
		if p.peek() != '.' {
			return nil, fmt.Errorf("line %d: missing terminating dot", lineNo+1)
		}
		quads = append(quads, q)
	}
	return quads, nil
}

type lineParser struct {
	input string
	pos   int
}

func (p *lineParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *lineParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *lineParser) term() (term, error) {
	p.skipSpace()
	switch p.peek() {
	case '<':
		return p.iri()
	case '_':
		return p.blank()
	case '"':
		return p.literal()
	case 0:
		return term{}, fmt.Errorf("unexpected end of line")
	default:
		return term{}, fmt.Errorf("unexpected character %q", p.input[p.pos])
	}
}

func (p *lineParser) iri() (term, error) {
	p.pos++ // consume '<'
	end := strings.IndexByte(p.input[p.pos:], '>')
	if end < 0 {
		return term{}, fmt.Errorf("unterminated IRI")
	}
	value := p.input[p.pos : p.pos+end]
	p.pos += end + 1
	return term{kind: termIRI, value: value}, nil
}

func (p *lineParser) blank() (term, error) {
	if !strings.HasPrefix(p.input[p.pos:], "_:") {
		return term{}, fmt.Errorf("malformed blank node")
	}
	p.pos += 2
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != ' ' && p.input[p.pos] != '\t' {
		p.pos++
	}
	return term{kind: termBlank, value: p.input[start:p.pos]}, nil
}

func (p *lineParser) literal() (term, error) {
	p.pos++ // consume '"'
	var b strings.Builder
	for {
		if p.pos >= len(p.input) {
			return term{}, fmt.Errorf("unterminated literal")
		}
		c := p.input[p.pos]
		if c == '"' {
			p.pos++
			break
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.input) {
				return term{}, fmt.Errorf("dangling escape")
			}
			switch p.input[p.pos] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'u':
				if p.pos+4 >= len(p.input) {
					return term{}, fmt.Errorf("truncated \\u escape")
				}
				code, err := strconv.ParseUint(p.input[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return term{}, fmt.Errorf("bad \\u escape: %w", err)
				}
				b.WriteRune(rune(code))
				p.pos += 4
			default:
				return term{}, fmt.Errorf("unknown escape \\%c", p.input[p.pos])
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}

	t := term{kind: termLiteral, value: b.String()}
	if strings.HasPrefix(p.input[p.pos:], "@") {
		p.pos++
		start := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != ' ' && p.input[p.pos] != '\t' {
			p.pos++
		}
		t.language = p.input[start:p.pos]
	} else if strings.HasPrefix(p.input[p.pos:], "^^") {
		p.pos += 2
		dt, err := p.iri()
		if err != nil {
			return term{}, fmt.Errorf("datatype: %w", err)
		}
		t.datatype = dt.value
	}
	return t, nil
}

// entityQuads rebuilds typed quads from raw ones, recovering ownership:
// an IRI subject owns its own quads; a blank subject belongs to the entity
// reached by following incoming references within the same graph.
func entityQuads(raws []rawQuad) []rdf.EntityQuad {
	// Blank label -> referencing subject, per graph.
	type blankKey struct {
		label string
		graph string
	}
	referrer := make(map[blankKey]term)
	for _, q := range raws {
		if q.object.kind == termBlank {
			referrer[blankKey{q.object.value, q.graph}] = q.subject
		}
	}

	ownerOf := func(label, graph string) rdf.EntityID {
		seen := make(map[string]struct{})
		current := label
		for {
			if _, loop := seen[current]; loop {
				return rdf.EntityID{}
			}
			seen[current] = struct{}{}

			ref, ok := referrer[blankKey{current, graph}]
			if !ok {
				return rdf.EntityID{}
			}
			if ref.kind == termIRI {
				return rdf.NewEntityID(ref.value)
			}
			current = ref.value
		}
	}

	out := make([]rdf.EntityQuad, 0, len(raws))
	for _, q := range raws {
		var owner rdf.EntityID
		if q.subject.kind == termIRI {
			owner = rdf.NewEntityID(q.subject.value)
		} else {
			owner = ownerOf(q.subject.value, q.graph)
		}

		out = append(out, rdf.EntityQuad{
			Owner:     owner,
			Subject:   buildNode(q.subject, owner, q.graph),
			Predicate: buildNode(q.predicate, owner, q.graph),
			Object:    buildNode(q.object, owner, q.graph),
			Graph:     q.graph,
		})
	}
	return out
}

func buildNode(t term, owner rdf.EntityID, graph string) rdf.Node {
	switch t.kind {
	case termIRI:
		return rdf.NewIRI(t.value)
	case termBlank:
		return rdf.NewBlank(t.value, owner, graph)
	default:
		if t.language != "" {
			return rdf.NewLangLiteral(t.value, t.language)
		}
		if t.datatype != "" {
			return rdf.NewTypedLiteral(t.value, t.datatype)
		}
		return rdf.NewLiteral(t.value)
	}
}
