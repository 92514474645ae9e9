package signing

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/gowebpki/jcs"
	"github.com/pkg/errors"
)

// Canonicalize encodes v as RFC 8785 canonical JSON: object keys sorted,
// numbers in ECMAScript form, no insignificant whitespace. Values json cannot
// represent fail with domain.ErrSerialization, as do top-level scalars: a
// signed payload is always an object or an array.
//
// Canonical numbers are IEEE doubles, so a number whose value would change on
// that conversion (9007199254740993, 1e400) is rejected rather than signed
// as something the caller never sent.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSerialization, "marshal payload: %v", err)
	}

	if len(raw) == 0 || (raw[0] != '{' && raw[0] != '[') {
		return nil, errors.Wrapf(domain.ErrSerialization, "payload must be a JSON object or array, got %s", bytes.TrimSpace(raw))
	}

	if err := checkNumbers(raw); err != nil {
		return nil, errors.Wrapf(domain.ErrSerialization, "canonicalize payload: %v", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSerialization, "canonicalize payload: %v", err)
	}
	return canonical, nil
}

func checkNumbers(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return errors.Wrap(err, "re-read payload")
	}
	return walkNumbers(tree)
}

func walkNumbers(v any) error {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			if err := walkNumbers(e); err != nil {
				return errors.Wrapf(err, "at %q", k)
			}
		}
	case []any:
		for i, e := range t {
			if err := walkNumbers(e); err != nil {
				return errors.Wrapf(err, "at [%d]", i)
			}
		}
	case json.Number:
		if !exactDouble(t.String()) {
			return errors.Errorf("number %s is not exactly representable as a double", t)
		}
	}
	return nil
}

// exactDouble reports whether the decimal literal n has the same value as the
// nearest float64.
func exactDouble(n string) bool {
	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return false
	}

	want, ok := decimalValue(n)
	if !ok {
		return false
	}
	got, ok := decimalValue(strconv.FormatFloat(f, 'e', -1, 64))
	if !ok {
		return false
	}
	return want == got
}

type decimal struct {
	neg    bool
	digits string
	exp    int
}

// decimalValue normalizes a JSON number literal to sign, significant digits
// and a base-10 exponent. Zero is always positive.
func decimalValue(s string) (decimal, bool) {
	var d decimal
	if strings.HasPrefix(s, "-") {
		d.neg = true
		s = s[1:]
	}

	mantissa := s
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return decimal{}, false
		}
		d.exp = e
	}

	whole, frac, _ := strings.Cut(mantissa, ".")
	digits := whole + frac
	d.exp -= len(frac)

	trimmed := strings.TrimRight(digits, "0")
	d.exp += len(digits) - len(trimmed)
	d.digits = strings.TrimLeft(trimmed, "0")

	if d.digits == "" {
		return decimal{}, true
	}
	return d, true
}
