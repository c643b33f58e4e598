package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/rdf"
)

func TestBuiltinConverters(t *testing.T) {
	reg := DefaultConverters()
	when := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		converter string
		node      rdf.Node
		value     any
	}{
		{"string", ConverterString, rdf.NewLiteral("hello"), "hello"},
		{"integer", ConverterInteger, rdf.NewTypedLiteral("42", rdf.XsdInteger), int64(42)},
		{"negative integer", ConverterInteger, rdf.NewTypedLiteral("-7", rdf.XsdInteger), int64(-7)},
		{"decimal", ConverterDecimal, rdf.NewTypedLiteral("3.14", rdf.XsdDouble), 3.14},
		{"boolean true", ConverterBoolean, rdf.NewTypedLiteral("true", rdf.XsdBoolean), true},
		{"dateTime", ConverterDateTime, rdf.NewTypedLiteral("2026-08-25T12:00:00Z", rdf.XsdDateTime), when},
		{"iri", ConverterIRI, rdf.NewIRI("http://example.org/x"), "http://example.org/x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reg.Named(tc.converter).FromNode(tc.node)
			require.NoError(t, err)
			assert.Equal(t, tc.value, got)

			node, err := reg.Named(tc.converter).ToNode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.node, node)
		})
	}
}

func TestConverterDomainErrors(t *testing.T) {
	reg := DefaultConverters()

	tests := []struct {
		name      string
		converter string
		node      rdf.Node
	}{
		{"integer from text", ConverterInteger, rdf.NewLiteral("not a number")},
		{"decimal from text", ConverterDecimal, rdf.NewLiteral("x")},
		{"boolean from text", ConverterBoolean, rdf.NewLiteral("yes")},
		{"dateTime from text", ConverterDateTime, rdf.NewLiteral("yesterday")},
		{"string from iri", ConverterString, rdf.NewIRI("http://example.org/x")},
		{"iri from literal", ConverterIRI, rdf.NewLiteral("x")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reg.Named(tc.converter).FromNode(tc.node)
			assert.ErrorIs(t, err, errors.ErrConversion)
		})
	}

	_, err := reg.Named(ConverterInteger).ToNode("nope")
	assert.ErrorIs(t, err, errors.ErrConversion)
}

func TestInferFromNode(t *testing.T) {
	reg := DefaultConverters()

	tests := []struct {
		name  string
		node  rdf.Node
		value any
	}{
		{"plain literal", rdf.NewLiteral("text"), "text"},
		{"lang literal", rdf.NewLangLiteral("text", "EN"), "text"},
		{"integer", rdf.NewTypedLiteral("5", rdf.XsdInteger), int64(5)},
		{"double", rdf.NewTypedLiteral("2.5", rdf.XsdDouble), 2.5},
		{"decimal", rdf.NewTypedLiteral("2.5", rdf.XsdNamespace+"decimal"), 2.5},
		{"boolean", rdf.NewTypedLiteral("false", rdf.XsdBoolean), false},
		{"unknown datatype", rdf.NewTypedLiteral("P1D", rdf.XsdNamespace+"duration"), "P1D"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reg.InferFromNode(tc.node)
			require.NoError(t, err)
			assert.Equal(t, tc.value, got)
		})
	}
}

func TestFallbackConverter(t *testing.T) {
	fb := DefaultConverters().Fallback()

	assert.True(t, fb.CanConvert("s"))
	assert.True(t, fb.CanConvert(42))
	assert.True(t, fb.CanConvert(time.Now()))
	assert.True(t, fb.CanConvert(rdf.NewIRI("http://example.org/x")))
	assert.False(t, fb.CanConvert(struct{}{}))

	node, err := fb.ToNode(42)
	require.NoError(t, err)
	assert.Equal(t, rdf.NewTypedLiteral("42", rdf.XsdInteger), node)

	passthrough := rdf.NewIRI("http://example.org/x")
	node, err = fb.ToNode(passthrough)
	require.NoError(t, err)
	assert.Equal(t, passthrough, node)

	_, err = fb.ToNode(struct{}{})
	assert.ErrorIs(t, err, errors.ErrConversion)
}

func TestWithConverter(t *testing.T) {
	base := DefaultConverters()
	custom := base.WithConverter("upper", stringConverter{})

	// The original registry is untouched; unknown names fall back.
	_, isFallback := base.Named("upper").(fallbackConverter)
	assert.True(t, isFallback)

	_, isString := custom.Named("upper").(stringConverter)
	assert.True(t, isString)
}
