package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextFloatCoercion(t *testing.T) {
	ctx := Context{
		"f64":    0.7,
		"f32":    float32(0.5),
		"int":    3,
		"i64":    int64(4),
		"string": "0.9",
		"nested": map[string]interface{}{"score": 0.2},
	}

	v, ok := ctx.Float("f64")
	assert.True(t, ok)
	assert.Equal(t, 0.7, v)

	v, ok = ctx.Float("f32")
	assert.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-6)

	v, ok = ctx.Float("int")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = ctx.Float("i64")
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	// Strings are not silently parsed.
	_, ok = ctx.Float("string")
	assert.False(t, ok)

	_, ok = ctx.Float("nested")
	assert.False(t, ok)

	_, ok = ctx.Float("absent")
	assert.False(t, ok)
}

func TestContextNilSafety(t *testing.T) {
	var ctx Context

	_, ok := ctx.Float("anything")
	assert.False(t, ok)
	_, ok = ctx.Map("anything")
	assert.False(t, ok)
	_, ok = ctx.String("anything")
	assert.False(t, ok)
	_, ok = ctx.Slice("anything")
	assert.False(t, ok)
}

func TestContextAccessors(t *testing.T) {
	ctx := Context{
		"sentiment": map[string]interface{}{"source": "forum", "score": 0.4},
		"topics":    []interface{}{"treasury", "staking"},
		"label":     "governance",
	}

	m, ok := ctx.Map("sentiment")
	require.True(t, ok)
	assert.Equal(t, "forum", m["source"])

	nested, ok := NestedFloat(m, "score")
	assert.True(t, ok)
	assert.Equal(t, 0.4, nested)

	_, ok = NestedFloat(m, "source")
	assert.False(t, ok)

	_, ok = NestedFloat(nil, "score")
	assert.False(t, ok)

	s, ok := ctx.Slice("topics")
	require.True(t, ok)
	assert.Len(t, s, 2)

	label, ok := ctx.String("label")
	assert.True(t, ok)
	assert.Equal(t, "governance", label)
}

func TestContextFromJSONRoundTrip(t *testing.T) {
	// A Context decoded from JSON carries float64 numbers and nested maps;
	// the accessors must read them without further conversion.
	raw := `{"sentiment_score": 0.4, "sentiment": {"message_size_kb": 8}, "trending_topics": ["a","b","c"]}`
	var ctx Context
	require.NoError(t, json.Unmarshal([]byte(raw), &ctx))

	v, ok := ctx.Float("sentiment_score")
	assert.True(t, ok)
	assert.Equal(t, 0.4, v)

	m, ok := ctx.Map("sentiment")
	require.True(t, ok)
	kb, ok := NestedFloat(m, "message_size_kb")
	assert.True(t, ok)
	assert.Equal(t, 8.0, kb)

	s, ok := ctx.Slice("trending_topics")
	assert.True(t, ok)
	assert.Len(t, s, 3)
}
