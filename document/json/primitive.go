package json

import (
	"fmt"
	"strconv"

	"github.com/crdtlabs/docsync/document/time"
)

// ValueType is the concrete type a Primitive holds.
type ValueType int

const (
	Null ValueType = iota
	Boolean
	Integer
	Long
	Double
	String
)

// Primitive is an Element holding a scalar value.
type Primitive struct {
	valueType ValueType
	value     any

	createdAt time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewPrimitive creates a Primitive from a Go value. Supported types are
// nil, bool, int32, int, int64, float64 and string; anything else panics,
// which indicates a programming error in the caller.
func NewPrimitive(value any, createdAt time.Ticket) *Primitive {
	p := &Primitive{createdAt: createdAt}

	switch v := value.(type) {
	case nil:
		p.valueType = Null
		p.value = nil
	case bool:
		p.valueType = Boolean
		p.value = v
	case int32:
		p.valueType = Integer
		p.value = v
	case int:
		p.valueType = Integer
		p.value = int32(v)
	case int64:
		p.valueType = Long
		p.value = v
	case float64:
		p.valueType = Double
		p.value = v
	case string:
		p.valueType = String
		p.value = v
	default:
		panic(fmt.Sprintf("unsupported primitive type %T", value))
	}

	return p
}

// ValueType returns the type of the held value.
func (p *Primitive) ValueType() ValueType {
	return p.valueType
}

// Value returns the held value.
func (p *Primitive) Value() any {
	return p.value
}

// Marshal returns the JSON text of the value.
func (p *Primitive) Marshal() string {
	switch p.valueType {
	case Null:
		return "null"
	case Boolean:
		return strconv.FormatBool(p.value.(bool))
	case Integer:
		return strconv.FormatInt(int64(p.value.(int32)), 10)
	case Long:
		return strconv.FormatInt(p.value.(int64), 10)
	case Double:
		return strconv.FormatFloat(p.value.(float64), 'f', -1, 64)
	case String:
		return strconv.Quote(p.value.(string))
	default:
		return "null"
	}
}

// DeepCopy implements Element.
func (p *Primitive) DeepCopy() Element {
	clone := *p
	return &clone
}

// CreatedAt implements Element.
func (p *Primitive) CreatedAt() time.Ticket {
	return p.createdAt
}

// MovedAt implements Element.
func (p *Primitive) MovedAt() *time.Ticket {
	return p.movedAt
}

// SetMovedAt implements Element.
func (p *Primitive) SetMovedAt(ticket time.Ticket) {
	p.movedAt = &ticket
}

// RemovedAt implements Element.
func (p *Primitive) RemovedAt() *time.Ticket {
	return p.removedAt
}

// Remove implements Element.
func (p *Primitive) Remove(ticket time.Ticket) bool {
	if !ticket.After(p.createdAt) {
		return false
	}
	if p.removedAt != nil && !ticket.After(*p.removedAt) {
		return false
	}
	p.removedAt = &ticket
	return true
}
