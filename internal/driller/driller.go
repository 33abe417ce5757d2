// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var segment = regexp.MustCompile(`^([^.\[\]]+)(\[(\d+|\*)?\])?$`)

// Driller navigates JSON along a dotted path. A segment may carry an index,
// as in "tags[2]". "tags[]" and "tags[*]" keep the whole array, and a bare
// array segment holding a single element unwraps it.
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)
	if path == "" {
		return current
	}

	for _, p := range strings.Split(path, ".") {
		matches := segment.FindStringSubmatch(p)
		if matches == nil {
			return gjson.Result{}
		}

		val := current.Get(gjson.Escape(matches[1]))
		if !val.Exists() {
			return gjson.Result{}
		}

		index := -1
		switch matches[3] {
		case "", "*":
		default:
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}

		if val.IsArray() {
			arr := val.Array()
			switch {
			case index == -1:
				if matches[2] == "" && len(arr) == 1 {
					val = arr[0]
				}
			case index < len(arr):
				val = arr[index]
			default:
				return gjson.Result{}
			}
		} else if index >= 0 {
			return gjson.Result{}
		}

		current = val
	}

	return current
}
