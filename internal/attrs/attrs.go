// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/lorectl/internal/log"
)

// NewlineMark replaces line breaks under the n transform.
const NewlineMark = "⏎"

var lengthSpec = regexp.MustCompile(`-?\d+`)

// Attr is one column of output: where its value comes from in a row, what it
// is called and how it is transformed.
type Attr struct {
	// The dotted path to extract from each row.
	Key string `yaml:"key" json:"Key"`
	// Should this Attr be shown or is it only used for filtering and sorting?
	Include bool `yaml:"include" json:"Include"`
	// The key used in the output, and the column title when output=text.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transformation spec applied to the output value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attribute's transform spec to a value.
//
//	t  RFC3339 timestamp in local time
//	T  RFC3339 timestamp as time ago
//	b  byte count in human units
//	n  line breaks shown as NewlineMark
//	l  lower case, u upper case; the last one wins
//	N  truncate to N runes; -N elides the middle
func (a *Attr) Transform(value interface{}) interface{} {
	spec := a.TransformSpec
	if spec == "" {
		return value
	}

	if strings.Contains(spec, "b") {
		if n, ok := value.(float64); ok && n >= 0 {
			value = humanize.Bytes(uint64(n))
		}
	}

	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	result = transformTime(result, spec)

	if strings.Contains(spec, "n") {
		result = strings.NewReplacer("\r\n", NewlineMark, "\n", NewlineMark).Replace(result)
	}

	result = transformCase(result, spec)
	return transformLength(result, spec)
}

func transformTime(s, spec string) string {
	if !strings.ContainsAny(spec, "tT") {
		return s
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	if strings.Contains(spec, "T") {
		return humanize.Time(t)
	}
	return t.In(time.Local).Format("2006-01-02T15:04:05MST")
}

// transformCase applies the last case directive in spec, which lets an
// attr's own spec override a global one prepended to it.
func transformCase(s, spec string) string {
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")
	switch {
	case lastL > lastU:
		return strings.ToLower(s)
	case lastU > lastL:
		return strings.ToUpper(s)
	}
	return s
}

// transformLength applies the last length directive in spec.
func transformLength(s, spec string) string {
	match := lengthSpec.FindAllString(spec, -1)
	if len(match) == 0 {
		return s
	}
	l, _ := strconv.Atoi(match[len(match)-1])
	abs := l
	if abs < 0 {
		abs = -abs
	}

	runes := []rune(s)
	if len(runes) <= abs {
		return s
	}
	if l >= 0 {
		return string(runes[:l])
	}

	side := abs/2 - 1
	if side < 1 {
		return string(runes[:abs])
	}
	return string(runes[:side]) + ".." + string(runes[len(runes)-side:])
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses a comma separated --attrs value. Each spec is
// key[:outputKey[:transform]]. A key starting with ! is kept for filtering and
// sorting but not shown, and a key starting with . is taken from the row root
// instead of its attributes. The key * carries a transform for every attr.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		jsonIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		attr := Attr{Include: true}
		fields := strings.Split(spec, ":")

		attr.Key = strings.TrimSpace(fields[jsonIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		switch {
		case len(fields) == 1:
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		case strings.TrimSpace(fields[outputIdx]) != "":
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		default:
			attr.OutputKey = strings.TrimPrefix(attr.Key, ".")
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// A spec naming an attr already in the list (a command default, say)
		// updates it in place.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		if strings.HasPrefix(attr.Key, ".") {
			attr.Key = attr.Key[1:]
		} else if attr.Key != "*" {
			attr.Key = "attributes." + attr.Key
		}
		log.Tracef("attr: key=%s output=%s spec=%s", attr.Key, attr.OutputKey, attr.TransformSpec)

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the transform of the * attr, if any, to
// every attr's spec.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	log.Debugf("global transform: spec=%s", spec)
	return nil
}

// String renders the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
