// Package kisrequest defines the work items queued for the KIS open API and
// routes consumed items to the market ports.
package kisrequest

import (
	"fmt"
	"strings"
)

// Type discriminates the payload of an Envelope.
type Type string

const (
	TypeStock Type = "stock"
	TypeFx    Type = "fx"
)

// Wire field names.
const (
	FieldType      = "type"
	FieldStockCode = "stockCode"
	FieldFxType    = "fxType"
	FieldFxCode    = "fxCode"
)

// Payload is implemented by Stock and Fx only.
type Payload interface {
	kind() Type
	fields() map[string]any
}

// Stock requests a quote refresh for one instrument.
type Stock struct {
	Code string
}

func (Stock) kind() Type { return TypeStock }

func (s Stock) fields() map[string]any {
	return map[string]any{FieldStockCode: s.Code}
}

// Fx requests a currency pair lookup.
type Fx struct {
	Type string
	Code string
}

func (Fx) kind() Type { return TypeFx }

func (f Fx) fields() map[string]any {
	return map[string]any{FieldFxType: f.Type, FieldFxCode: f.Code}
}

// Envelope is one queued request. Exactly one payload variant is set and
// the value is immutable once built.
type Envelope struct {
	payload Payload
}

// NewStock builds a stock envelope.
func NewStock(code string) (Envelope, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Envelope{}, ErrEmptyStockCode
	}
	return Envelope{payload: Stock{Code: code}}, nil
}

// NewFx builds an fx envelope.
func NewFx(fxType, fxCode string) (Envelope, error) {
	fxType, fxCode = strings.TrimSpace(fxType), strings.TrimSpace(fxCode)
	if fxType == "" || fxCode == "" {
		return Envelope{}, ErrEmptyFxPair
	}
	return Envelope{payload: Fx{Type: fxType, Code: fxCode}}, nil
}

// Type returns the discriminator, or "" for the zero Envelope.
func (e Envelope) Type() Type {
	if e.payload == nil {
		return ""
	}
	return e.payload.kind()
}

// Payload returns the populated variant. Callers switch on its concrete type.
func (e Envelope) Payload() Payload {
	return e.payload
}

// Values flattens the envelope into stream fields. Only the populated
// variant's fields are written.
func (e Envelope) Values() map[string]any {
	if e.payload == nil {
		return nil
	}
	v := e.payload.fields()
	v[FieldType] = string(e.payload.kind())
	return v
}

// Decode rebuilds an envelope from stream fields. Unknown types, missing
// fields and fields of the other variant are rejected with ErrMalformedEnvelope.
func Decode(values map[string]any) (Envelope, error) {
	typ, err := field(values, FieldType)
	if err != nil {
		return Envelope{}, err
	}

	switch Type(typ) {
	case TypeStock:
		if err := reject(values, FieldFxType, FieldFxCode); err != nil {
			return Envelope{}, err
		}
		code, err := field(values, FieldStockCode)
		if err != nil {
			return Envelope{}, err
		}
		return NewStock(code)

	case TypeFx:
		if err := reject(values, FieldStockCode); err != nil {
			return Envelope{}, err
		}
		fxType, err := field(values, FieldFxType)
		if err != nil {
			return Envelope{}, err
		}
		fxCode, err := field(values, FieldFxCode)
		if err != nil {
			return Envelope{}, err
		}
		return NewFx(fxType, fxCode)

	default:
		return Envelope{}, fmt.Errorf("%w: %w %q", ErrMalformedEnvelope, ErrUnsupportedType, typ)
	}
}

func field(values map[string]any, name string) (string, error) {
	raw, ok := values[name]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedEnvelope, name)
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: field %q must be a non-empty string", ErrMalformedEnvelope, name)
	}
	return s, nil
}

func reject(values map[string]any, names ...string) error {
	for _, name := range names {
		if _, ok := values[name]; ok {
			return fmt.Errorf("%w: unexpected field %q for type %q", ErrMalformedEnvelope, name, values[FieldType])
		}
	}
	return nil
}
