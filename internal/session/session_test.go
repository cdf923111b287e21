package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobarthurs/flake8lint/internal/editor"
)

func TestStore_ReplaceIsWholesale(t *testing.T) {
	st := NewStore()
	id := editor.ViewID(7)

	first := &Session{ViewID: id, Errors: ErrorMap{
		0:  {Region: editor.Region{A: 0, B: 6}, Message: "F401 'os' imported but unused"},
		10: {Region: editor.Region{A: 10, B: 11}, Message: "E225 missing whitespace around operator"},
	}}
	assert.Nil(t, st.Replace(first))

	second := &Session{ViewID: id, Errors: ErrorMap{
		10: {Region: editor.Region{A: 10, B: 11}, Message: "E225 missing whitespace around operator"},
	}}
	prev := st.Replace(second)
	require.Same(t, first, prev)

	got, ok := st.Get(id)
	require.True(t, ok)
	assert.Len(t, got.Errors, 1)
	_, stale := got.Errors[0]
	assert.False(t, stale, "entries of the previous pass must not survive")
}

func TestStore_Evict(t *testing.T) {
	st := NewStore()
	st.Replace(&Session{ViewID: 1, Errors: ErrorMap{}})
	st.Replace(&Session{ViewID: 2, Errors: ErrorMap{}})

	assert.Equal(t, 2, st.Len())
	assert.True(t, st.Evict(1))
	assert.False(t, st.Evict(1))
	assert.False(t, st.Has(1))
	assert.True(t, st.Has(2))
	assert.Equal(t, 1, st.Len())
}

func TestStore_MessagesIntersectLine(t *testing.T) {
	st := NewStore()
	st.Replace(&Session{ViewID: 3, Errors: ErrorMap{
		14: {Region: editor.Region{A: 14, B: 15}, Message: "E225 missing whitespace around operator"},
		10: {Region: editor.Region{A: 10, B: 20}, Message: "E501 line too long"},
		30: {Region: editor.Region{A: 30, B: 31}, Message: "W291 trailing whitespace"},
	}})

	msgs := st.Messages(3, editor.Region{A: 10, B: 20})
	assert.Equal(t, []string{"E501 line too long", "E225 missing whitespace around operator"}, msgs)

	assert.Empty(t, st.Messages(3, editor.Region{A: 21, B: 29}))
	assert.Nil(t, st.Messages(99, editor.Region{A: 0, B: 100}))
}
