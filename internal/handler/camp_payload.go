package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/reliefmap/relief-camps/internal/model"
)

// payload is a decoded request body.  Numbers are kept as json.Number so
// integers survive without a float round trip.
type payload map[string]any

// decodePayload parses body as a JSON object.  Anything else (empty body,
// malformed JSON, trailing data, arrays, scalars) yields an empty payload.
func decodePayload(body []byte) payload {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return payload{}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return payload{}
	}
	return payload(obj)
}

// campField describes one required input field: how to tell it is missing
// and how to copy it onto the camp being built.
type campField struct {
	name    string
	missing func(v any, present bool) bool
	apply   func(camp *model.Camp, v any) error
}

// campFields lists the required fields in the order error lists report them.
var campFields = []campField{
	{name: "campName", missing: isBlank, apply: textField(func(c *model.Camp, s string) { c.Name = s })},
	{name: "campType", missing: isBlank, apply: textField(func(c *model.Camp, s string) { c.Type = s })},
	{name: "maxCapacity", missing: isBlank, apply: func(c *model.Camp, v any) (err error) {
		c.MaxCapacity, err = toInt(v)
		return err
	}},
	{name: "contactPhone", missing: isBlank, apply: textField(func(c *model.Camp, s string) { c.ContactPhone = s })},
	{name: "campAddress", missing: isBlank, apply: textField(func(c *model.Camp, s string) { c.Address = s })},
	{name: "district", missing: isBlank, apply: textField(func(c *model.Camp, s string) { c.District = s })},
	{name: "city", missing: isBlank, apply: textField(func(c *model.Camp, s string) { c.City = s })},
	{name: "createdBy", missing: isBlank, apply: func(c *model.Camp, v any) error {
		c.CreatedBy = native(v)
		return nil
	}},
	{name: "amenities", missing: isBlank, apply: func(c *model.Camp, v any) (err error) {
		c.Amenities, err = toList(v)
		return err
	}},
	{name: "lat", missing: isBlank, apply: func(c *model.Camp, v any) (err error) {
		c.Location.Coordinates[1], err = toFloat(v)
		return err
	}},
	{name: "lng", missing: isBlank, apply: func(c *model.Camp, v any) (err error) {
		c.Location.Coordinates[0], err = toFloat(v)
		return err
	}},
}

// missingFields returns the names of required fields that are absent, null,
// "" or [], in campFields order.
func (p payload) missingFields() []string {
	var out []string
	for _, f := range campFields {
		v, ok := p[f.name]
		if f.missing(v, ok) {
			out = append(out, f.name)
		}
	}
	return out
}

// toCamp shapes p into a Camp document.  Fields whose values cannot be
// coerced are returned in campFields order; the camp is nil in that case.
func (p payload) toCamp() (*model.Camp, []string) {
	camp := &model.Camp{Location: model.NewPoint(0, 0)}
	var invalid []string
	for _, f := range campFields {
		if err := f.apply(camp, p[f.name]); err != nil {
			invalid = append(invalid, f.name)
		}
	}
	if len(invalid) > 0 {
		return nil, invalid
	}
	return camp, nil
}

func isBlank(v any, present bool) bool {
	if !present || v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

var errType = errors.New("unsupported type")

func textField(set func(*model.Camp, string)) func(*model.Camp, any) error {
	return func(c *model.Camp, v any) error {
		switch t := v.(type) {
		case string:
			set(c, t)
		case json.Number:
			set(c, t.String())
		default:
			return fmt.Errorf("%w: %T", errType, v)
		}
		return nil
	}
}

// toInt accepts integral numbers, fractional numbers (truncated toward
// zero) and strings holding a base-10 integer.
func toInt(v any) (int, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 0); err == nil {
			return int(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, err
		}
		return truncate(f)
	case float64:
		return truncate(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 0)
		if err != nil {
			return 0, err
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("%w: %T", errType, v)
}

func truncate(f float64) (int, error) {
	f = math.Trunc(f)
	if math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%g out of range", f)
	}
	return int(f), nil
}

// toFloat accepts numbers and numeric strings.  NaN and infinities are
// rejected since they are not valid coordinates.
func toFloat(v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		err = fmt.Errorf("%w: %T", errType, v)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%g is not finite", f)
	}
	return f, nil
}

// toList accepts any array; items are kept as sent.  A nil value becomes an
// empty list.
func toList(v any) ([]any, error) {
	if v == nil {
		return []any{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errType, v)
	}
	return native(items).([]any), nil
}

// native replaces json.Number values, at any depth, with int64 when the
// literal is integral and float64 otherwise, so stored documents carry
// real BSON numbers instead of strings.
func native(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = native(it)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[k] = native(it)
		}
		return out
	}
	return v
}
