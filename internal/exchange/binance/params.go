package binance

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"binance-trade/internal/core"
)

type param struct {
	key   string
	value string
}

// Params is an insertion-ordered parameter list. Unlike url.Values it never
// sorts keys, so the encoded form matches the declared field order.
type Params struct {
	items []param
}

func (p *Params) Set(key, value string) {
	for i := range p.items {
		if p.items[i].key == key {
			p.items[i].value = value
			return
		}
	}
	p.items = append(p.items, param{key: key, value: value})
}

// Encode returns key=value pairs joined by '&' in insertion order.
func (p Params) Encode() string {
	if len(p.items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, it := range p.items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(it.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(it.value))
	}
	return b.String()
}

type validator interface {
	Valid() bool
}

// formatParam renders v for the wire. ok is false when v is absent: nil, an
// empty string, a zero number, a zero decimal or a zero time.
func formatParam(spec ParamSpec, v any) (out string, ok bool, err error) {
	if v == nil {
		return "", false, nil
	}
	switch spec.Kind {
	case KindString:
		s, isStr := v.(string)
		if !isStr {
			return "", false, fmt.Errorf("%w: %s: want string, got %T", ErrInvalidParam, spec.Name, v)
		}
		return s, s != "", nil
	case KindInt:
		switch n := v.(type) {
		case int64:
			if n == 0 {
				return "", false, nil
			}
			return strconv.FormatInt(n, 10), true, nil
		case int:
			if n == 0 {
				return "", false, nil
			}
			return strconv.Itoa(n), true, nil
		}
		return "", false, fmt.Errorf("%w: %s: want integer, got %T", ErrInvalidParam, spec.Name, v)
	case KindDecimal:
		d, isDec := v.(decimal.Decimal)
		if !isDec {
			return "", false, fmt.Errorf("%w: %s: want decimal, got %T", ErrInvalidParam, spec.Name, v)
		}
		if d.IsZero() {
			return "", false, nil
		}
		return core.FormatDecimal(d), true, nil
	case KindEnum:
		s := fmt.Sprint(v)
		if s == "" {
			return "", false, nil
		}
		if val, isVal := v.(validator); isVal && !val.Valid() {
			return "", false, fmt.Errorf("%w: %s=%q", ErrInvalidParam, spec.Name, s)
		}
		return s, true, nil
	case KindTimestamp:
		switch t := v.(type) {
		case time.Time:
			if t.IsZero() {
				return "", false, nil
			}
			return strconv.FormatInt(t.UnixMilli(), 10), true, nil
		case int64:
			if t == 0 {
				return "", false, nil
			}
			return strconv.FormatInt(t, 10), true, nil
		}
		return "", false, fmt.Errorf("%w: %s: want time, got %T", ErrInvalidParam, spec.Name, v)
	case KindDuration:
		d, isDur := v.(time.Duration)
		if !isDur {
			return "", false, fmt.Errorf("%w: %s: want duration, got %T", ErrInvalidParam, spec.Name, v)
		}
		ms := d.Milliseconds()
		if ms <= 0 {
			return "", false, nil
		}
		return strconv.FormatInt(ms, 10), true, nil
	}
	return "", false, fmt.Errorf("%w: %s: unknown parameter kind %d", ErrInvalidParam, spec.Name, spec.Kind)
}
