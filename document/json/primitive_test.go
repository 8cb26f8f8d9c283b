package json_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crdtlabs/docsync/document/json"
	"github.com/crdtlabs/docsync/document/time"
)

// TestPrimitive_Marshal verifies JSON text for each supported value type.
func TestPrimitive_Marshal(t *testing.T) {
	actor := mustActorID(t, "0000000000abcdef01234567")
	createdAt := time.NewTicket(1, 0, actor)

	cases := []struct {
		value any
		want  string
	}{
		{nil, "null"},
		{true, "true"},
		{false, "false"},
		{int32(42), "42"},
		{7, "7"},
		{int64(1 << 40), "1099511627776"},
		{2.5, "2.5"},
		{"hello", `"hello"`},
		{`say "hi"`, `"say \"hi\""`},
	}

	for _, c := range cases {
		p := json.NewPrimitive(c.value, createdAt)
		assert.Equal(t, c.want, p.Marshal())
	}
}

// TestPrimitive_Remove verifies tombstone rules: the removal ticket must
// order after creation and after any earlier tombstone.
func TestPrimitive_Remove(t *testing.T) {
	actor := mustActorID(t, "0000000000abcdef01234567")
	p := json.NewPrimitive("value", time.NewTicket(1, 0, actor))
	assert.Nil(t, p.RemovedAt())

	// not after creation
	assert.False(t, p.Remove(time.NewTicket(1, 0, actor)))
	assert.Nil(t, p.RemovedAt())

	removedAt := time.NewTicket(2, 0, actor)
	assert.True(t, p.Remove(removedAt))
	assert.Equal(t, removedAt, *p.RemovedAt())

	// older than the existing tombstone
	assert.False(t, p.Remove(time.NewTicket(1, 1, actor)))
	assert.Equal(t, removedAt, *p.RemovedAt())

	// newer than the existing tombstone
	newerAt := time.NewTicket(3, 0, actor)
	assert.True(t, p.Remove(newerAt))
	assert.Equal(t, newerAt, *p.RemovedAt())
}

// TestPrimitive_DeepCopy verifies that copies share no state with the
// original.
func TestPrimitive_DeepCopy(t *testing.T) {
	actor := mustActorID(t, "0000000000abcdef01234567")
	p := json.NewPrimitive("value", time.NewTicket(1, 0, actor))

	clone := p.DeepCopy()
	assert.Equal(t, p.Marshal(), clone.Marshal())
	assert.Equal(t, p.CreatedAt(), clone.CreatedAt())

	clone.Remove(time.NewTicket(2, 0, actor))
	assert.NotNil(t, clone.RemovedAt())
	assert.Nil(t, p.RemovedAt())
}

// TestNewPrimitive_Unsupported verifies that unsupported value types are
// rejected loudly.
func TestNewPrimitive_Unsupported(t *testing.T) {
	actor := mustActorID(t, "0000000000abcdef01234567")
	assert.Panics(t, func() {
		json.NewPrimitive(struct{}{}, time.NewTicket(1, 0, actor))
	})
}
