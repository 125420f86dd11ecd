// Package form holds the product form state and the transitions applied to it.
//
// A State owns one ProductRecord. Every transition builds a new record from
// the old one and swaps it in, then re-derives the serialized view. State is
// not safe for concurrent use; callers serialize access (see session.Store).
package form

import (
	"go.uber.org/zap"

	"github.com/talkincode/productform/internal/domain"
)

// Field identifies a top-level record field edited by the form.
type Field string

const (
	FieldName  Field = "productName"
	FieldType  Field = "productType"
	FieldPrice Field = "productPrice"
)

// ParseField maps an input name to a Field.
func ParseField(name string) (Field, bool) {
	switch f := Field(name); f {
	case FieldName, FieldType, FieldPrice:
		return f, true
	}
	return "", false
}

// State is the form state container: the current record plus its
// serialized view, kept in step after every transition.
type State struct {
	record domain.ProductRecord
	output string
}

// NewState returns a State holding the canonical empty record.
func NewState() *State {
	s := &State{record: domain.NewProductRecord()}
	s.RegenerateOutput()
	return s
}

// Record returns a copy of the current record.
func (s *State) Record() domain.ProductRecord {
	return s.record.Clone()
}

// Output returns the serialized view of the current record.
func (s *State) Output() string {
	return s.output
}

// PatchField replaces one top-level field. Unknown fields are ignored.
func (s *State) PatchField(field Field, value string) {
	next := s.record.Clone()
	switch field {
	case FieldName:
		next.ProductName = value
	case FieldType:
		next.ProductType = domain.ProductType(value)
	case FieldPrice:
		next.ProductPrice = value
	default:
		return
	}
	s.replace(next)
}

// Reset replaces the record with the canonical empty default.
func (s *State) Reset() {
	s.replace(domain.NewProductRecord())
}

// Fill replaces the record with the demonstration record.
func (s *State) Fill() {
	s.replace(domain.DemoProductRecord())
}

// RegenerateOutput recomputes the serialized view from the current record.
func (s *State) RegenerateOutput() {
	out, err := Serialize(s.record)
	if err != nil {
		// keep the previous view; the record types always marshal
		zap.L().Error("serialize product record", zap.Error(err))
		return
	}
	s.output = out
}

func (s *State) replace(next domain.ProductRecord) {
	s.record = next
	s.RegenerateOutput()
}
