// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/tfctl/lorectl/internal/driller"
)

// Document returns the view as a JSON-ready map: the core fields, the extra
// attributes and the content, decoded when it is JSON.
func Document(v View) map[string]any {
	if !v.Found {
		return map[string]any{"found": false}
	}

	doc := make(map[string]any, len(v.Extra)+8)
	for k, val := range v.Extra {
		doc[k] = val
	}
	for k, val := range v.Fields {
		doc[k] = val
	}
	doc["found"] = true
	doc["value"] = v.Entry.Value

	raw := content(v)
	doc["content"] = raw
	if v.JSONLike {
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			doc["content"] = decoded
		}
	}
	return doc
}

// Drill extracts a dotted path from the view's document. Array segments take
// an index, as in "content.tags[1]".
func Drill(v View, path string) gjson.Result {
	b, err := json.Marshal(Document(v))
	if err != nil {
		return gjson.Result{}
	}
	return driller.Driller(string(b), path)
}
