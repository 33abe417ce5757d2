// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/tfctl/lorectl/internal/repository/codec"
)

// LocalOption configures a Local gateway.
type LocalOption = func(ctx context.Context, gw *Local) error

// NewLocal returns a Local gateway rooted at the current directory unless an
// option says otherwise.
func NewLocal(ctx context.Context, options ...LocalOption) (*Local, error) {
	options = append([]LocalOption{WithDefaults()}, options...)

	gw := &Local{}
	for _, opt := range options {
		if err := opt(ctx, gw); err != nil {
			return nil, err
		}
	}
	return gw, nil
}

// WithDefaults roots the gateway at the current directory with a codec that
// cannot open sealed collections.
func WithDefaults() LocalOption {
	return func(ctx context.Context, gw *Local) error {
		cwd, _ := os.Getwd()
		gw.RootDir = cwd
		gw.Codec = &codec.Codec{}
		return nil
	}
}

// FromRootDir roots the gateway at rootDir, relative to the current directory
// unless absolute. The directory must exist.
func FromRootDir(rootDir string) LocalOption {
	return func(ctx context.Context, gw *Local) error {
		if filepath.IsAbs(rootDir) {
			gw.RootDir = rootDir
		} else {
			cwd, _ := os.Getwd()
			gw.RootDir = filepath.Join(cwd, rootDir)
		}

		fi, err := os.Stat(gw.RootDir)
		if err != nil {
			return fmt.Errorf("repository directory: %w", err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("repository %s is not a directory", gw.RootDir)
		}
		log.Debugf("local: rootDir = %s", gw.RootDir)
		return nil
	}
}

// WithCodec replaces the codec, typically to supply a passphrase source.
func WithCodec(c *codec.Codec) LocalOption {
	return func(ctx context.Context, gw *Local) error {
		if c != nil {
			gw.Codec = c
		}
		return nil
	}
}
