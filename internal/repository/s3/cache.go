// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"github.com/tfctl/lorectl/internal/cacheutil"
	"github.com/tfctl/lorectl/internal/config"
)

// Cache entries live under bucket/key and are named by the hashed version ID.
func cacheDirs(gw *S3, key string) []string {
	return []string{"s3", gw.Bucket, key}
}

// CacheReader reads the cached body of key at versionID. The second return
// value is false when the cache is disabled or holds no such entry.
func CacheReader(gw *S3, key, versionID string) (*cacheutil.Entry, bool) {
	return cacheutil.Read(cacheDirs(gw, key), versionID)
}

func CacheWriter(gw *S3, key, versionID string, data []byte) error {
	return cacheutil.Write(cacheDirs(gw, key), versionID, data)
}

// PurgeCache removes entries older than cache.clean hours.
func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}
