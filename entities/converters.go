package entities

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/rdf"
)

// Converter converts between a single graph node and a typed value. Both
// directions are pure and total over the declared type's valid domain; a
// literal outside that domain fails with ErrConversion.
type Converter interface {
	// FromNode converts a graph node to a typed value.
	FromNode(node rdf.Node) (any, error)
	// ToNode converts a typed value to a graph node.
	ToNode(value any) (rdf.Node, error)
}

// FallbackConverter extends Converter with a capability query so callers
// can check whether an unregistered type can be handled before use.
type FallbackConverter interface {
	Converter
	// CanConvert reports whether ToNode would accept the value.
	CanConvert(value any) bool
}

// ConverterRegistry holds named converters plus the fallback. Immutable
// after construction; safe for concurrent use.
type ConverterRegistry struct {
	named    map[string]Converter
	fallback FallbackConverter
}

// Converter names registered by DefaultConverters.
const (
	ConverterString   = "string"
	ConverterInteger  = "integer"
	ConverterDecimal  = "decimal"
	ConverterBoolean  = "boolean"
	ConverterDateTime = "dateTime"
	ConverterIRI      = "iri"
)

// DefaultConverters returns a registry with the built-in scalar converters
// and the best-effort fallback.
func DefaultConverters() *ConverterRegistry {
	return &ConverterRegistry{
		named: map[string]Converter{
			ConverterString:   stringConverter{},
			ConverterInteger:  integerConverter{},
			ConverterDecimal:  decimalConverter{},
			ConverterBoolean:  booleanConverter{},
			ConverterDateTime: dateTimeConverter{},
			ConverterIRI:      iriConverter{},
		},
		fallback: fallbackConverter{},
	}
}

// WithConverter returns a copy of the registry with one converter added or
// replaced under the given name.
func (r *ConverterRegistry) WithConverter(name string, c Converter) *ConverterRegistry {
	named := make(map[string]Converter, len(r.named)+1)
	for k, v := range r.named {
		named[k] = v
	}
	named[name] = c
	return &ConverterRegistry{named: named, fallback: r.fallback}
}

// Named returns the converter registered under a name, falling back to the
// best-effort converter when the name is empty or unknown.
func (r *ConverterRegistry) Named(name string) Converter {
	if c, ok := r.named[name]; ok {
		return c
	}
	return r.fallback
}

// Fallback returns the queryable fallback converter.
func (r *ConverterRegistry) Fallback() FallbackConverter {
	return r.fallback
}

// InferFromNode converts a literal node by its datatype, used for dynamic
// (unmapped) reads: xsd:integer to int64, xsd:double/decimal to float64,
// xsd:boolean to bool, xsd:dateTime to time.Time, everything else to the
// lexical string.
func (r *ConverterRegistry) InferFromNode(node rdf.Node) (any, error) {
	return inferFromNode(node)
}

func inferFromNode(node rdf.Node) (any, error) {
	switch node.Datatype() {
	case rdf.XsdInteger:
		return integerConverter{}.FromNode(node)
	case rdf.XsdDouble, rdf.XsdNamespace + "decimal":
		return decimalConverter{}.FromNode(node)
	case rdf.XsdBoolean:
		return booleanConverter{}.FromNode(node)
	case rdf.XsdDateTime:
		return dateTimeConverter{}.FromNode(node)
	default:
		return node.Value(), nil
	}
}

func conversionError(component, method string, cause error, detail string) error {
	return errors.WrapInvalid(fmt.Errorf("%w: %s: %v", errors.ErrConversion, detail, cause),
		component, method, "convert value")
}

type stringConverter struct{}

func (stringConverter) FromNode(node rdf.Node) (any, error) {
	if !node.IsLiteral() {
		return nil, conversionError("stringConverter", "FromNode",
			fmt.Errorf("node %s is not a literal", node), "expected literal")
	}
	return node.Value(), nil
}

func (stringConverter) ToNode(value any) (rdf.Node, error) {
	s, ok := value.(string)
	if !ok {
		return rdf.Node{}, conversionError("stringConverter", "ToNode",
			fmt.Errorf("got %T", value), "expected string")
	}
	return rdf.NewLiteral(s), nil
}

type integerConverter struct{}

func (integerConverter) FromNode(node rdf.Node) (any, error) {
	v, err := strconv.ParseInt(node.Value(), 10, 64)
	if err != nil {
		return nil, conversionError("integerConverter", "FromNode", err,
			fmt.Sprintf("literal %q is not an integer", node.Value()))
	}
	return v, nil
}

func (integerConverter) ToNode(value any) (rdf.Node, error) {
	switch v := value.(type) {
	case int:
		return rdf.NewTypedLiteral(strconv.FormatInt(int64(v), 10), rdf.XsdInteger), nil
	case int32:
		return rdf.NewTypedLiteral(strconv.FormatInt(int64(v), 10), rdf.XsdInteger), nil
	case int64:
		return rdf.NewTypedLiteral(strconv.FormatInt(v, 10), rdf.XsdInteger), nil
	default:
		return rdf.Node{}, conversionError("integerConverter", "ToNode",
			fmt.Errorf("got %T", value), "expected integer")
	}
}

type decimalConverter struct{}

func (decimalConverter) FromNode(node rdf.Node) (any, error) {
	v, err := strconv.ParseFloat(node.Value(), 64)
	if err != nil {
		return nil, conversionError("decimalConverter", "FromNode", err,
			fmt.Sprintf("literal %q is not a number", node.Value()))
	}
	return v, nil
}

func (decimalConverter) ToNode(value any) (rdf.Node, error) {
	switch v := value.(type) {
	case float32:
		return rdf.NewTypedLiteral(strconv.FormatFloat(float64(v), 'g', -1, 64), rdf.XsdDouble), nil
	case float64:
		return rdf.NewTypedLiteral(strconv.FormatFloat(v, 'g', -1, 64), rdf.XsdDouble), nil
	default:
		return rdf.Node{}, conversionError("decimalConverter", "ToNode",
			fmt.Errorf("got %T", value), "expected float")
	}
}

type booleanConverter struct{}

func (booleanConverter) FromNode(node rdf.Node) (any, error) {
	switch node.Value() {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return nil, conversionError("booleanConverter", "FromNode",
			fmt.Errorf("literal %q", node.Value()), "expected xsd:boolean lexical form")
	}
}

func (booleanConverter) ToNode(value any) (rdf.Node, error) {
	b, ok := value.(bool)
	if !ok {
		return rdf.Node{}, conversionError("booleanConverter", "ToNode",
			fmt.Errorf("got %T", value), "expected bool")
	}
	return rdf.NewTypedLiteral(strconv.FormatBool(b), rdf.XsdBoolean), nil
}

type dateTimeConverter struct{}

func (dateTimeConverter) FromNode(node rdf.Node) (any, error) {
	v, err := time.Parse(time.RFC3339, node.Value())
	if err != nil {
		return nil, conversionError("dateTimeConverter", "FromNode", err,
			fmt.Sprintf("literal %q is not an xsd:dateTime", node.Value()))
	}
	return v, nil
}

func (dateTimeConverter) ToNode(value any) (rdf.Node, error) {
	t, ok := value.(time.Time)
	if !ok {
		return rdf.Node{}, conversionError("dateTimeConverter", "ToNode",
			fmt.Errorf("got %T", value), "expected time.Time")
	}
	return rdf.NewTypedLiteral(t.UTC().Format(time.RFC3339), rdf.XsdDateTime), nil
}

type iriConverter struct{}

func (iriConverter) FromNode(node rdf.Node) (any, error) {
	if !node.IsIRI() {
		return nil, conversionError("iriConverter", "FromNode",
			fmt.Errorf("node %s", node), "expected IRI node")
	}
	return node.Value(), nil
}

func (iriConverter) ToNode(value any) (rdf.Node, error) {
	s, ok := value.(string)
	if !ok {
		return rdf.Node{}, conversionError("iriConverter", "ToNode",
			fmt.Errorf("got %T", value), "expected IRI string")
	}
	return rdf.NewIRI(s), nil
}

// fallbackConverter handles unregistered types by best-effort literal
// round-tripping. Reads come back as inferred scalars; writes accept the
// scalar kinds the built-in converters cover plus raw nodes.
type fallbackConverter struct{}

func (fallbackConverter) CanConvert(value any) bool {
	switch value.(type) {
	case string, int, int32, int64, float32, float64, bool, time.Time, rdf.Node:
		return true
	default:
		return false
	}
}

func (fallbackConverter) FromNode(node rdf.Node) (any, error) {
	return inferFromNode(node)
}

func (fallbackConverter) ToNode(value any) (rdf.Node, error) {
	switch v := value.(type) {
	case string:
		return rdf.NewLiteral(v), nil
	case int, int32, int64:
		return integerConverter{}.ToNode(v)
	case float32, float64:
		return decimalConverter{}.ToNode(v)
	case bool:
		return booleanConverter{}.ToNode(v)
	case time.Time:
		return dateTimeConverter{}.ToNode(v)
	case rdf.Node:
		return v, nil
	default:
		return rdf.Node{}, conversionError("fallbackConverter", "ToNode",
			fmt.Errorf("got %T", value), "unhandled value type")
	}
}
