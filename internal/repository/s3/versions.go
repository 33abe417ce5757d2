// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tfctl/lorectl/internal/repository/codec"
)

// splitSpec separates a trailing version spec from name. "lore~2" yields
// ("lore", "~2") and "lore@3HL4kqtJ" yields ("lore", "@3HL4kqtJ").
func splitSpec(name string) (string, string) {
	if i := strings.LastIndexAny(name, "~@"); i > 0 {
		return name[:i], name[i:]
	}
	return name, ""
}

// resolveVersion maps a version spec onto one of the versions of key.
//
//	~N  the Nth version before the latest; ~0 is the latest
//	@ID the version whose ID starts with ID
func (gw *S3) resolveVersion(ctx context.Context, key, spec string) (codec.Info, error) {
	versions, err := gw.versions(ctx, key)
	if err != nil {
		return codec.Info{}, err
	}

	switch spec[0] {
	case '~':
		index, err := strconv.Atoi(spec[1:])
		if err != nil {
			return codec.Info{}, fmt.Errorf("invalid version index: %s", spec[1:])
		}
		if index < 0 || index > len(versions)-1 {
			return codec.Info{}, fmt.Errorf("version index %d out of range for %d versions: %w", index, len(versions), codec.ErrNotFound)
		}
		return versions[index], nil
	default:
		prefix := spec[1:]
		if prefix == "" {
			return codec.Info{}, fmt.Errorf("empty version id")
		}
		for _, v := range versions {
			if strings.HasPrefix(v.Version, prefix) {
				return v, nil
			}
		}
		return codec.Info{}, fmt.Errorf("no version with ID prefix %s: %w", prefix, codec.ErrNotFound)
	}
}
