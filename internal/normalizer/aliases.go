// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"strconv"
	"strings"
)

// Field names a schema field that is located in a raw record through an alias
// list.
type Field string

const (
	FieldID        Field = "id"
	FieldKey       Field = "key"
	FieldTriggers  Field = "triggers"
	FieldLabel     Field = "label"
	FieldContent   Field = "content"
	FieldCategory  Field = "category"
	FieldCharacter Field = "character"
)

// Aliases maps each schema field to the raw attribute names that may carry
// it, most preferred first. The first present alias wins.
//
// FieldKey holds only scalar aliases. Multi-value trigger lists live under
// FieldTriggers, and when a record has no scalar key only the first trigger
// is used for matching. Later triggers are ignored, so two records sharing
// only a later trigger are not matched. This is a known limitation, kept so
// that matching stays stable across versions.
var Aliases = map[Field][]string{
	FieldID:        {"uid", "id", "_id", "entryId", "entry_id"},
	FieldKey:       {"primary_key", "primaryKey", "keyword", "trigger", "key"},
	FieldTriggers:  {"key", "keys", "triggers", "keywords"},
	FieldLabel:     {"comment", "title", "label", "name", "displayName", "display_name", "memo"},
	FieldContent:   {"content", "value", "text", "body", "description"},
	FieldCategory:  {"category", "group", "folder", "world", "book"},
	FieldCharacter: {"character", "speaker", "char", "persona", "owner"},
}

// recordFields are the fields whose presence marks a map as a record rather
// than a container.
var recordFields = []Field{FieldKey, FieldTriggers, FieldLabel, FieldContent}

// Resolve returns the value of the first present alias of field in rec along
// with the attribute name it came from. Present means the attribute exists
// and renders to a non-blank scalar string; containers never resolve a scalar
// field.
func Resolve(rec map[string]any, field Field) (value string, from string, ok bool) {
	for _, alias := range Aliases[field] {
		v, exists := rec[alias]
		if !exists {
			continue
		}
		s, scalar := scalarString(v)
		if !scalar || strings.TrimSpace(s) == "" {
			continue
		}
		return s, alias, true
	}
	return "", "", false
}

// ResolveList returns the first present alias of field that holds a non-empty
// list, rendered to strings. Blank elements are dropped.
func ResolveList(rec map[string]any, field Field) (values []string, from string, ok bool) {
	for _, alias := range Aliases[field] {
		list, isList := rec[alias].([]any)
		if !isList {
			continue
		}
		for _, item := range list {
			if s, scalar := scalarString(item); scalar && strings.TrimSpace(s) != "" {
				values = append(values, s)
			}
		}
		if len(values) > 0 {
			return values, alias, true
		}
	}
	return nil, "", false
}

// looksLikeRecord reports whether any record-defining field has an alias
// present in m.
func looksLikeRecord(m map[string]any) bool {
	for _, field := range recordFields {
		if _, _, ok := Resolve(m, field); ok {
			return true
		}
		if field == FieldTriggers {
			if _, _, ok := ResolveList(m, field); ok {
				return true
			}
		}
	}
	// Content may legitimately be structured.
	for _, alias := range Aliases[FieldContent] {
		switch m[alias].(type) {
		case map[string]any, []any:
			return true
		}
	}
	return false
}

// scalarString renders scalar JSON/YAML values to a string. Integral floats
// print without a fraction so ids decoded from JSON look like ids.
func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	case interface{ String() string }:
		return v.String(), true
	default:
		return "", false
	}
}
