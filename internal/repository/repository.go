// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"strings"

	"github.com/apex/log"

	"github.com/tfctl/lorectl/internal/repository/codec"
	"github.com/tfctl/lorectl/internal/repository/local"
	"github.com/tfctl/lorectl/internal/repository/s3"
	"github.com/tfctl/lorectl/internal/repository/sqlite"
)

// ErrNotFound is returned by Get when a name cannot be resolved.
var ErrNotFound = codec.ErrNotFound

// Info describes one stored collection.
type Info = codec.Info

// Gateway supplies raw collections and persists edits.
type Gateway interface {
	// List returns collection names, deduplicated, in source order.
	List(ctx context.Context) ([]string, error)
	// Get returns the raw collection. Errors wrap ErrNotFound when name is
	// unknown.
	Get(ctx context.Context, name string) (any, error)
	// Put stores raw under name.
	Put(ctx context.Context, name string, raw any) error
	String() string
}

// Stater is implemented by gateways that can describe a collection without
// reading it.
type Stater interface {
	Stat(ctx context.Context, name string) (Info, error)
}

// Closer is implemented by gateways holding resources.
type Closer interface {
	Close() error
}

// Versioner is implemented by gateways that keep earlier versions of a
// collection. Versions are most recent first.
type Versioner interface {
	Versions(ctx context.Context, name string) ([]Info, error)
}

// Options selects and configures a gateway.
type Options struct {
	// Spec is s3://bucket/prefix, sqlite://path or a directory.
	Spec   string
	Region string
	// Passphrase supplies the passphrase for sealed collections.
	Passphrase codec.PassphraseFunc
	// Seal makes Put store sealed collections.
	Seal bool
}

// New returns the gateway for opts.Spec. An empty spec is the current
// directory.
func New(ctx context.Context, opts Options) (Gateway, error) {
	c := &codec.Codec{Passphrase: opts.Passphrase, Seal: opts.Seal}
	log.Debugf("repository: spec=%q", opts.Spec)

	switch {
	case strings.HasPrefix(opts.Spec, "s3://"):
		return s3.NewS3(ctx,
			s3.FromURL(opts.Spec),
			s3.WithRegion(opts.Region),
			s3.WithCodec(c),
		)
	case strings.HasPrefix(opts.Spec, "sqlite://"):
		return sqlite.NewSQLite(ctx,
			sqlite.FromURL(opts.Spec),
			sqlite.WithCodec(c),
		)
	default:
		options := []local.LocalOption{local.WithCodec(c)}
		if opts.Spec != "" {
			options = append(options, local.FromRootDir(opts.Spec))
		}
		return local.NewLocal(ctx, options...)
	}
}

// Close releases gw if it holds resources.
func Close(gw Gateway) {
	if c, ok := gw.(Closer); ok {
		if err := c.Close(); err != nil {
			log.WithError(err).Warn("failed to close repository")
		}
	}
}

// Fresh marks ctx so gateways bypass any local cache.
func Fresh(ctx context.Context) context.Context {
	return codec.WithoutCache(ctx)
}
