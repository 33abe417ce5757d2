// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package codec holds what every repository gateway shares: stored body
// decoding and encoding, the not-found sentinel, collection info and the
// cache-bypass context flag.
package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/lorectl/internal/sealed"
)

// ErrNotFound is returned when a named collection cannot be resolved.
var ErrNotFound = errors.New("collection not found")

// Extensions lists the file extensions recognized as collections, in lookup
// order.
var Extensions = []string{".json", ".yaml", ".yml"}

// Info describes one stored collection.
type Info struct {
	Name    string
	Source  string
	Size    int64
	ModTime time.Time
	Version string
}

// SplitName strips a recognized extension from base. ok is false when base
// carries no recognized extension.
func SplitName(base string) (name, ext string, ok bool) {
	ext = strings.ToLower(filepath.Ext(base))
	for _, e := range Extensions {
		if ext == e {
			return strings.TrimSuffix(base, filepath.Ext(base)), ext, true
		}
	}
	return base, "", false
}

// PassphraseFunc supplies the passphrase for sealed collections.
type PassphraseFunc func() (string, error)

// Codec decodes and encodes stored collection bodies.
type Codec struct {
	// Passphrase is consulted at most once, on the first sealed body.
	Passphrase PassphraseFunc
	// Seal makes Encode produce sealed bodies.
	Seal bool

	once sync.Once
	pass string
	err  error
}

func (c *Codec) passphrase() (string, error) {
	c.once.Do(func() {
		if c.Passphrase == nil {
			c.err = fmt.Errorf("collection is sealed and no passphrase source is configured")
			return
		}
		c.pass, c.err = c.Passphrase()
	})
	return c.pass, c.err
}

// Decode turns a stored body into a raw collection. ext selects YAML for
// .yaml and .yml; everything else is read as JSON. Sealed bodies are opened
// first.
func (c *Codec) Decode(ext string, data []byte) (any, error) {
	if sealed.IsSealed(data) {
		pass, err := c.passphrase()
		if err != nil {
			return nil, err
		}
		if data, err = sealed.Open(data, pass); err != nil {
			return nil, err
		}
		log.Debugf("codec: opened sealed body (%d bytes)", len(data))
	}

	var raw any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	}
	return raw, nil
}

// Encode renders raw for storage in the format ext selects.
func (c *Codec) Encode(ext string, raw any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if c.Seal {
			return nil, fmt.Errorf("sealed collections must be stored as json")
		}
		data, err = yaml.Marshal(raw)
	default:
		data, err = json.MarshalIndent(raw, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}

	if !c.Seal {
		return data, nil
	}
	pass, err := c.passphrase()
	if err != nil {
		return nil, err
	}
	return sealed.Seal(data, pass)
}

type bypassKey struct{}

// WithoutCache marks ctx so gateways read through any local cache.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// CacheBypassed reports whether ctx was marked by WithoutCache.
func CacheBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}
