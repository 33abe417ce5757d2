// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// CircularMarker replaces a reference back to a container that is still being
// serialized.
const CircularMarker = `"[Circular]"`

// Canonicalize parses s as JSON and returns a stable serialization with object
// keys sorted at every level. Array order is preserved. Numbers are written in
// one form per value, so 1, 1.0 and 1e0 serialize alike.
// The second return is false when s is not JSON; s is then returned as is.
func Canonicalize(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return s, false
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return s, false
	}

	return CanonicalValue(v), true
}

// CanonicalValue serializes an already decoded value the same way Canonicalize
// does. Maps and slices that refer back to an ancestor are written as
// CircularMarker instead of recursing forever.
func CanonicalValue(v any) string {
	var buf bytes.Buffer
	c := canonicalizer{buf: &buf, seen: map[uintptr]bool{}}
	c.write(v)
	return buf.String()
}

type canonicalizer struct {
	buf  *bytes.Buffer
	seen map[uintptr]bool
}

func (c *canonicalizer) write(v any) {
	switch v := v.(type) {
	case nil:
		c.buf.WriteString("null")
	case string:
		c.writeString(v)
	case json.Number:
		c.buf.WriteString(canonicalNumber(v))
	case float64:
		c.buf.WriteString(formatFloat(v))
	case bool, float32, int, int64, int32, uint64, uint32:
		b, _ := json.Marshal(v)
		c.buf.Write(b)
	case map[string]any:
		if c.enter(v) {
			return
		}
		defer c.leave(v)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		c.buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				c.buf.WriteByte(',')
			}
			c.writeString(k)
			c.buf.WriteByte(':')
			c.write(v[k])
		}
		c.buf.WriteByte('}')
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, val := range v {
			converted[fmt.Sprint(k)] = val
		}
		if c.enter(v) {
			return
		}
		defer c.leave(v)
		c.write(converted)
	case []any:
		if c.enter(v) {
			return
		}
		defer c.leave(v)
		c.buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				c.buf.WriteByte(',')
			}
			c.write(item)
		}
		c.buf.WriteByte(']')
	default:
		b, err := json.Marshal(v)
		if err != nil {
			c.writeString(fmt.Sprint(v))
			return
		}
		c.buf.Write(b)
	}
}

// canonicalNumber rewrites a JSON number literal. Integer literals keep every
// digit; anything else goes through float64. A literal outside the float64
// range is left as written.
func canonicalNumber(n json.Number) string {
	lit := n.String()
	if i, ok := new(big.Int).SetString(lit, 10); ok {
		return i.String()
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	return formatFloat(f)
}

// formatFloat writes integral values below 1e21 without exponent or fraction,
// and everything else in the shortest form that round-trips.
func formatFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// enter marks a container as in progress. It returns true, having written the
// marker, when the container is already on the current path.
func (c *canonicalizer) enter(v any) bool {
	p := identity(v)
	if p == 0 {
		return false
	}
	if c.seen[p] {
		c.buf.WriteString(CircularMarker)
		return true
	}
	c.seen[p] = true
	return false
}

func (c *canonicalizer) leave(v any) {
	if p := identity(v); p != 0 {
		delete(c.seen, p)
	}
}

// identity returns the address backing a map or slice, or 0 for empty ones,
// which cannot form cycles.
func identity(v any) uintptr {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.Len() == 0 {
			return 0
		}
		return rv.Pointer()
	}
	return 0
}

// writeString writes s as a JSON string without HTML escaping.
func (c *canonicalizer) writeString(s string) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	c.buf.Write(bytes.TrimRight(b.Bytes(), "\n"))
}
