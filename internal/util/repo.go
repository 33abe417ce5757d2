// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// RemoteSchemes are repository specs that are passed through without
// touching the filesystem.
var RemoteSchemes = []string{"s3://", "sqlite://"}

// ParseRepo splits a repository spec into the repository and an optional
// ::snapshot suffix. Remote specs are returned as given. Anything else must
// name an existing directory and is made absolute.
func ParseRepo(spec string) (string, string, error) {
	if spec == "" {
		return "", "", os.ErrInvalid
	}

	repo, snap, _ := strings.Cut(spec, "::")
	if i := strings.Index(snap, "::"); i >= 0 {
		snap = snap[:i]
	}

	for _, scheme := range RemoteSchemes {
		if strings.HasPrefix(repo, scheme) {
			if len(repo) == len(scheme) {
				return "", "", os.ErrInvalid
			}
			return repo, snap, nil
		}
	}

	dir := repo
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		dir = filepath.Join(cwd, dir)
	}

	if r, err := os.Stat(dir); err != nil {
		return "", "", err
	} else if !r.IsDir() {
		return "", "", os.ErrInvalid
	}

	return dir, snap, nil
}
