// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

// schemaTag is a jsonapi attr tag discovered on a row type.
type schemaTag struct {
	Kind     string
	Name     string
	Encoding string
}

// maxSchemaDepth limits how far nested structs are walked.
const maxSchemaDepth = 1

// NewTag parses a jsonapi struct tag. Only attr tags are kept; holder, when
// set, prefixes the name of a nested attr.
func NewTag(holder string, s string) schemaTag {
	parts := strings.Split(s, ",")
	if parts[0] != "attr" {
		return schemaTag{}
	}

	tag := schemaTag{Kind: parts[0]}
	if len(parts) > 1 {
		tag.Name = parts[1]
		if holder != "" {
			tag.Name = holder + "." + parts[1]
		}
	}
	if len(parts) > 2 {
		tag.Encoding = parts[2]
	}
	return tag
}

// DumpSchema writes the sorted attr names of typ, the names --attrs, --filter
// and --sort accept for a command's rows. If w is nil, os.Stdout is used.
func DumpSchema(prefix string, typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Row attributes available to --attrs, --filter and --sort. Use --output=raw
to see the complete document a command produces.`)
	fmt.Fprintln(w, "")

	tags := dumpSchemaWalker(prefix, typ, 0)
	if len(tags) == 0 {
		log.Debugf("no tags found for type: %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	for _, tag := range tags {
		fmt.Fprintln(w, tag.Name)
	}
}

func dumpSchemaWalker(holder string, typ reflect.Type, depth int) []schemaTag {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	tags := make([]schemaTag, 0, typ.NumField())

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		tagValue, ok := field.Tag.Lookup("jsonapi")
		if !ok {
			continue
		}

		tag := NewTag(holder, tagValue)
		if tag.Kind != "attr" {
			continue
		}
		tags = append(tags, tag)

		if depth >= maxSchemaDepth {
			continue
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		// time.Time and friends are leaves.
		if ft.Kind() == reflect.Struct && ft.PkgPath() == typ.PkgPath() {
			tags = append(tags, dumpSchemaWalker(tag.Name, ft, depth+1)...)
		}
	}

	return tags
}
