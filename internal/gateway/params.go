package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// SignatureField is never part of the signed string.
const SignatureField = "signature"

// Param is a single gateway field.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered set of gateway fields. Order is significant: the
// signature is computed over the fields in the order they were added.
type Params []Param

// Add appends a field.
func (p *Params) Add(key string, value any) {
	*p = append(*p, Param{Key: key, Value: value})
}

// AddNonEmpty appends a field unless its rendered value is blank. Outgoing
// requests must not carry blank fields.
func (p *Params) AddNonEmpty(key string, value any) error {
	s, err := render(value)
	if err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	p.Add(key, s)
	return nil
}

// Get returns the rendered value of the first field named key, or "".
func (p Params) Get(key string) string {
	for _, f := range p {
		if f.Key == key {
			s, _ := render(f.Value)
			return s
		}
	}
	return ""
}

// Has reports whether a field named key is present.
func (p Params) Has(key string) bool {
	for _, f := range p {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Map flattens p for logging and JSON responses.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, f := range p {
		s, _ := render(f.Value)
		m[f.Key] = s
	}
	return m
}

// render turns a scalar into the string the gateway expects.
func render(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case decimal.Decimal:
		return t.StringFixed(2), nil
	case *decimal.Decimal:
		if t == nil {
			return "", nil
		}
		return t.StringFixed(2), nil
	case time.Time:
		return t.Format("2006-01-02"), nil
	case float32, float64:
		return decimal.NewFromFloat(cast.ToFloat64(t)).StringFixed(2), nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return s, nil
}
