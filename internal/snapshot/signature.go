// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import "strings"

// SignatureSep separates the fields of a rendered Signature.
const SignatureSep = "|"

// Signature is the composite identity (label-or-key, category, character)
// that matches the same logical record across two snapshots.
type Signature struct {
	Key       string `json:"key" yaml:"key"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	Character string `json:"character,omitempty" yaml:"character,omitempty"`
}

// String renders key|category|character. Trailing empty fields are dropped so
// the common case prints as just the key.
func (s Signature) String() string {
	switch {
	case s.Character != "":
		return s.Key + SignatureSep + s.Category + SignatureSep + s.Character
	case s.Category != "":
		return s.Key + SignatureSep + s.Category
	default:
		return s.Key
	}
}

// ParseSignature is the inverse of String. Fields are split from the right so
// a key containing the separator survives when category and character are
// given. The second return reports how many fields were present (1-3); fields
// beyond that count were absent rather than empty.
func ParseSignature(s string) (Signature, int) {
	var sig Signature
	parts := 1

	key := s
	if i := strings.LastIndex(key, SignatureSep); i >= 0 {
		tail := key[i+1:]
		key = key[:i]
		parts++
		if j := strings.LastIndex(key, SignatureSep); j >= 0 {
			sig.Character = tail
			sig.Category = key[j+1:]
			key = key[:j]
			parts++
		} else {
			sig.Category = tail
		}
	}
	sig.Key = key

	return sig, parts
}
