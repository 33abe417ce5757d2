// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"strings"

	"github.com/tfctl/lorectl/internal/snapshot"
)

// Query selects entries by signature. A nil field matches anything; a
// non-nil field must match exactly, so a pointer to "" selects entries where
// that field is empty.
type Query struct {
	Key       *string
	Category  *string
	Character *string
}

// ParseQuery reads key|category|character. Missing trailing fields and "*"
// fields are unconstrained.
func ParseQuery(s string) Query {
	var q Query
	parts := strings.SplitN(s, snapshot.SignatureSep, 3)
	fields := []**string{&q.Key, &q.Category, &q.Character}
	for i, p := range parts {
		if p == "*" {
			continue
		}
		v := p
		*fields[i] = &v
	}
	return q
}

// ForSignature returns the query matching exactly sig.
func ForSignature(sig snapshot.Signature) Query {
	return Query{Key: &sig.Key, Category: &sig.Category, Character: &sig.Character}
}

// Matches reports whether e satisfies every constraint of q.
func (q Query) Matches(e snapshot.Entry) bool {
	sig := e.Signature()
	return match(q.Key, sig.Key) && match(q.Category, sig.Category) && match(q.Character, sig.Character)
}

func match(want *string, got string) bool {
	return want == nil || *want == got
}

func (q Query) String() string {
	part := func(p *string) string {
		if p == nil {
			return "*"
		}
		return *p
	}
	return strings.Join([]string{part(q.Key), part(q.Category), part(q.Character)}, snapshot.SignatureSep)
}

// signature is the signature named by q, with unconstrained fields empty.
func (q Query) signature() snapshot.Signature {
	var sig snapshot.Signature
	if q.Key != nil {
		sig.Key = *q.Key
	}
	if q.Category != nil {
		sig.Category = *q.Category
	}
	if q.Character != nil {
		sig.Character = *q.Character
	}
	return sig
}
