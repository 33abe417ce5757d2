// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset orders rows by a comma separated list of OutputKeys. A leading
// - sorts descending and a leading ! compares case sensitively. Numbers
// compare numerically, anything else as text. The sort is stable so rows
// that tie keep their incoming order.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}

	type sortKey struct {
		field         string
		ascending     bool
		caseSensitive bool
	}

	var keys []sortKey
	for _, field := range strings.Split(spec, ",") {
		k := sortKey{ascending: true}
		field = strings.TrimSpace(field)
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			k.ascending = false
		}
		if strings.HasPrefix(field, "!") {
			field = field[1:]
			k.caseSensitive = true
		}
		if field == "" {
			continue
		}
		k.field = field
		keys = append(keys, k)
	}

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, k := range keys {
			oneValue := resultSet[one][k.field]
			twoValue := resultSet[two][k.field]

			oneNum, oneOk := oneValue.(float64)
			twoNum, twoOk := twoValue.(float64)
			if oneOk && twoOk {
				if oneNum == twoNum {
					continue
				}
				return (oneNum < twoNum) == k.ascending
			}

			oneStr := InterfaceToString(oneValue)
			twoStr := InterfaceToString(twoValue)
			if !k.caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}
			if oneStr == twoStr {
				continue
			}
			return (oneStr < twoStr) == k.ascending
		}
		return false
	})
}
