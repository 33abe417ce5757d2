// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"

	"github.com/tfctl/lorectl/internal/repository/codec"
)

// ErrInvalidName is returned for a collection name that would resolve outside
// RootDir or into a subdirectory of it.
var ErrInvalidName = errors.New("invalid collection name")

// Local is a directory of collection files. Each .json, .yaml or .yml file is
// one collection named by its base name without the extension.
type Local struct {
	RootDir string
	Codec   *codec.Codec
}

// List returns collection names in filename order. When two files share a
// name only the first is listed.
func (gw *Local) List(ctx context.Context) ([]string, error) {
	files, err := gw.files()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.name)
	}
	return names, nil
}

// Get reads and decodes the named collection.
func (gw *Local) Get(ctx context.Context, name string) (any, error) {
	p, ext, err := gw.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}

	raw, err := gw.Codec.Decode(ext, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	return raw, nil
}

// Put writes raw as the named collection. An existing file keeps its format;
// a new one is written as JSON unless name carries a recognized extension.
func (gw *Local) Put(ctx context.Context, name string, raw any) error {
	if err := checkName(name); err != nil {
		return err
	}
	p, ext, err := gw.path(name)
	if err != nil {
		if base, e, ok := codec.SplitName(name); ok {
			p, ext = filepath.Join(gw.RootDir, base+e), e
		} else {
			p, ext = filepath.Join(gw.RootDir, name+".json"), ".json"
		}
	}

	data, err := gw.Codec.Encode(ext, raw)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(gw.RootDir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create repository directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write collection file: %w", err)
	}
	log.Debugf("local: wrote %s (%d bytes)", p, len(data))
	return nil
}

// Stat describes the named collection.
func (gw *Local) Stat(ctx context.Context, name string) (codec.Info, error) {
	p, _, err := gw.path(name)
	if err != nil {
		return codec.Info{}, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return codec.Info{}, fmt.Errorf("failed to stat collection file: %w", err)
	}
	return codec.Info{
		Name:    name,
		Source:  p,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

func (gw *Local) String() string {
	return gw.RootDir
}

type file struct {
	name string
	ext  string
	path string
}

// files scans RootDir. os.ReadDir returns entries sorted by filename.
func (gw *Local) files() ([]file, error) {
	entries, err := os.ReadDir(gw.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository directory: %w", err)
	}

	seen := map[string]bool{}
	var files []file
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ext, ok := codec.SplitName(e.Name())
		if !ok {
			continue
		}
		if seen[name] {
			log.Debugf("local: %s shadowed by an earlier file of the same name", e.Name())
			continue
		}
		seen[name] = true
		files = append(files, file{name: name, ext: ext, path: filepath.Join(gw.RootDir, e.Name())})
	}
	return files, nil
}

// checkName accepts only a plain file name within RootDir.
func checkName(name string) error {
	if !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// path resolves name, with or without extension, to an existing file.
func (gw *Local) path(name string) (string, string, error) {
	if err := checkName(name); err != nil {
		return "", "", err
	}
	if base, ext, ok := codec.SplitName(name); ok {
		p := filepath.Join(gw.RootDir, name)
		if _, err := os.Stat(p); err == nil {
			return p, ext, nil
		}
		name = base
	}

	files, err := gw.files()
	if err != nil {
		return "", "", err
	}
	for _, f := range files {
		if f.name == name {
			return f.path, f.ext, nil
		}
	}
	return "", "", fmt.Errorf("%s in %s: %w", name, gw.RootDir, codec.ErrNotFound)
}
