// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"sort"
	"strconv"

	"github.com/tfctl/lorectl/internal/log"
)

// ContainerFields are the attribute names under which a collection may nest
// its records. Nesting may repeat, e.g. {"data": {"entries": {...}}}.
var ContainerFields = []string{"entries", "records", "items", "lore", "world_info", "worldInfo", "data", "list"}

// maxDepth bounds how deep extraction descends into nested containers.
const maxDepth = 8

// node is a value met during extraction together with the map key it was
// found under, if any.
type node struct {
	id    string
	value any
}

// candidate is a record-shaped map awaiting field resolution.
type candidate struct {
	id     string
	record map[string]any
}

// extractor is one container-shape strategy. It reports false when the value
// does not have its shape.
type extractor struct {
	name    string
	extract func(v any) ([]node, bool)
}

// extractors are tried in order on every value that is not itself a record.
// The first strategy that recognizes the shape wins for that value; its
// children are walked independently, so shapes may mix within one input.
var extractors = []extractor{
	{name: "sequence", extract: fromSequence},
	{name: "id-keyed", extract: fromIDKeyed},
	{name: "nested", extract: fromNested},
}

// extraction accumulates the outcome of walking a raw collection.
type extraction struct {
	candidates []candidate
	skipped    int
}

// extract flattens raw into an ordered list of record candidates.
func extract(raw any) extraction {
	var ex extraction
	if raw == nil {
		return ex
	}
	ex.walk(node{value: raw}, 0)
	return ex
}

func (ex *extraction) walk(n node, depth int) {
	if depth > maxDepth {
		log.Tracef("extract: depth exceeded: id=%s", n.id)
		ex.skipped++
		return
	}

	if m, ok := n.value.(map[string]any); ok && isRecord(m) {
		ex.candidates = append(ex.candidates, candidate{id: n.id, record: m})
		return
	}

	for _, e := range extractors {
		children, ok := e.extract(n.value)
		if !ok {
			continue
		}
		log.Tracef("extract: strategy=%s id=%s children=%d", e.name, n.id, len(children))
		for _, child := range children {
			ex.walk(child, depth+1)
		}
		return
	}

	log.Tracef("extract: unrecognized shape: id=%s type=%T", n.id, n.value)
	ex.skipped++
}

// isRecord reports whether m is a record. A map that carries content is
// always a record; otherwise a map holding a named container is treated as a
// wrapper even if it also has a title.
func isRecord(m map[string]any) bool {
	if !looksLikeRecord(m) {
		return false
	}
	if hasContent(m) {
		return true
	}
	return !hasNestedContainer(m)
}

func hasContent(m map[string]any) bool {
	for _, alias := range Aliases[FieldContent] {
		if v, ok := m[alias]; ok && v != nil {
			return true
		}
	}
	return false
}

func hasNestedContainer(m map[string]any) bool {
	for _, f := range ContainerFields {
		switch m[f].(type) {
		case []any, map[string]any:
			return true
		}
	}
	return false
}

// fromSequence handles a plain list of records.
func fromSequence(v any) ([]node, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	nodes := make([]node, 0, len(list))
	for _, item := range list {
		nodes = append(nodes, node{value: item})
	}
	return nodes, true
}

// fromIDKeyed handles an object whose values are records keyed by id. Keys
// are visited in ascending order, numerically when every key is an integer,
// so the result does not depend on map iteration order.
func fromIDKeyed(v any) ([]node, bool) {
	m, ok := v.(map[string]any)
	if !ok || hasNestedContainer(m) {
		return nil, false
	}
	// An empty object is an empty collection, not a malformed record.
	if len(m) == 0 {
		return nil, true
	}
	for _, child := range m {
		if _, isMap := child.(map[string]any); !isMap {
			return nil, false
		}
	}

	nodes := make([]node, 0, len(m))
	for _, k := range sortedKeys(m) {
		nodes = append(nodes, node{id: k, value: m[k]})
	}
	return nodes, true
}

// fromNested handles records nested under one or more ContainerFields. Each
// present container is visited in ContainerFields order.
func fromNested(v any) ([]node, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	var nodes []node
	for _, f := range ContainerFields {
		switch child := m[f].(type) {
		case []any, map[string]any:
			nodes = append(nodes, node{value: child})
		}
	}
	return nodes, len(nodes) > 0
}

// sortedKeys orders map keys numerically when all are integers and
// lexically otherwise.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	numeric := true
	for k := range m {
		keys = append(keys, k)
		if _, err := strconv.ParseInt(k, 10, 64); err != nil {
			numeric = false
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseInt(keys[i], 10, 64)
			b, _ := strconv.ParseInt(keys[j], 10, 64)
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}
