// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tfctl/lorectl/internal/repository/codec"
)

// API is the subset of the S3 client the gateway uses.
type API interface {
	s3v2.ListObjectsV2APIClient
	s3v2.ListObjectVersionsAPIClient
	s3v2.HeadObjectAPIClient
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// S3 is a bucket prefix of collection objects.
type S3 struct {
	Bucket   string
	Prefix   string
	Region   string
	// Profile selects a shared config profile.
	Profile  string
	// Endpoint targets an S3-compatible service with path-style addressing.
	Endpoint string
	Codec    *codec.Codec

	client API
}

type object struct {
	name string
	ext  string
	key  string
}

// List returns the collection names beneath the prefix in key order.
func (gw *S3) List(ctx context.Context) ([]string, error) {
	objects, err := gw.objects(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.name)
	}
	return names, nil
}

// Get fetches and decodes the named collection, reading object bodies from
// the local cache unless ctx bypasses it.
func (gw *S3) Get(ctx context.Context, name string) (any, error) {
	base, spec := splitSpec(name)

	obj, err := gw.find(ctx, base)
	if err != nil {
		return nil, err
	}

	versionID := ""
	if spec != "" {
		v, err := gw.resolveVersion(ctx, obj.key, spec)
		if err != nil {
			return nil, err
		}
		versionID = v.Version
	}

	data, err := gw.body(ctx, obj.key, versionID)
	if err != nil {
		return nil, err
	}

	raw, err := gw.Codec.Decode(obj.ext, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", obj.key, err)
	}
	return raw, nil
}

// Put uploads raw as the named collection. An existing object keeps its
// format; a new one is stored as JSON unless name carries an extension.
func (gw *S3) Put(ctx context.Context, name string, raw any) error {
	obj, err := gw.find(ctx, name)
	if err != nil {
		if !errors.Is(err, codec.ErrNotFound) {
			return err
		}
		base, ext, ok := codec.SplitName(name)
		if !ok {
			ext = ".json"
		}
		obj = object{name: base, ext: ext, key: gw.key(base + ext)}
	}

	data, err := gw.Codec.Encode(obj.ext, raw)
	if err != nil {
		return err
	}

	_, err = gw.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(gw.Bucket),
		Key:    awsv2.String(obj.key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to put S3 object: %w", err)
	}
	log.Debugf("s3: put s3://%s/%s (%d bytes)", gw.Bucket, obj.key, len(data))
	return nil
}

// Stat describes the named collection.
func (gw *S3) Stat(ctx context.Context, name string) (codec.Info, error) {
	base, spec := splitSpec(name)
	obj, err := gw.find(ctx, base)
	if err != nil {
		return codec.Info{}, err
	}

	if spec != "" {
		v, err := gw.resolveVersion(ctx, obj.key, spec)
		if err != nil {
			return codec.Info{}, err
		}
		v.Name = name
		return v, nil
	}

	head, err := gw.client.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(gw.Bucket),
		Key:    awsv2.String(obj.key),
	})
	if err != nil {
		return codec.Info{}, fmt.Errorf("failed to head S3 object: %w", err)
	}
	return codec.Info{
		Name:    name,
		Source:  "s3://" + gw.Bucket + "/" + obj.key,
		Size:    awsv2.ToInt64(head.ContentLength),
		ModTime: awsv2.ToTime(head.LastModified),
		Version: awsv2.ToString(head.VersionId),
	}, nil
}

// Versions lists the live versions of the named collection, most recent
// first. Versions older than the latest delete marker are dropped.
func (gw *S3) Versions(ctx context.Context, name string) ([]codec.Info, error) {
	obj, err := gw.find(ctx, name)
	if err != nil {
		return nil, err
	}
	return gw.versions(ctx, obj.key)
}

func (gw *S3) String() string {
	return "s3://" + path.Join(gw.Bucket, gw.Prefix)
}

func (gw *S3) key(base string) string {
	if gw.Prefix == "" {
		return base
	}
	return strings.TrimSuffix(gw.Prefix, "/") + "/" + base
}

func (gw *S3) objects(ctx context.Context) ([]object, error) {
	prefix := ""
	if gw.Prefix != "" {
		prefix = strings.TrimSuffix(gw.Prefix, "/") + "/"
	}

	paginator := s3v2.NewListObjectsV2Paginator(gw.client, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(gw.Bucket),
		Prefix: awsv2.String(prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, o := range page.Contents {
			if o.Key != nil {
				keys = append(keys, *o.Key)
			}
		}
	}
	sort.Strings(keys)

	seen := map[string]bool{}
	var objects []object
	for _, k := range keys {
		rel := strings.TrimPrefix(k, prefix)
		// Only direct children of the prefix are collections.
		if strings.Contains(rel, "/") {
			continue
		}
		name, ext, ok := codec.SplitName(rel)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		objects = append(objects, object{name: name, ext: ext, key: k})
	}
	return objects, nil
}

func (gw *S3) find(ctx context.Context, name string) (object, error) {
	objects, err := gw.objects(ctx)
	if err != nil {
		return object{}, err
	}

	_, _, hasExt := codec.SplitName(name)
	for _, o := range objects {
		if hasExt && o.key == gw.key(name) {
			return o, nil
		}
		if !hasExt && o.name == name {
			return o, nil
		}
	}
	return object{}, fmt.Errorf("%s in %s: %w", name, gw, codec.ErrNotFound)
}

// body returns the object body for key at versionID, or the latest version
// when versionID is empty.
func (gw *S3) body(ctx context.Context, key, versionID string) ([]byte, error) {
	useCache := !codec.CacheBypassed(ctx)
	if useCache {
		if err := PurgeCache(); err != nil {
			log.WithError(err).Warn("failed to purge cache")
		}
	}

	// The cache is keyed by version ID, so the latest version has to be
	// resolved first.
	if versionID == "" {
		head, err := gw.client.HeadObject(ctx, &s3v2.HeadObjectInput{
			Bucket: awsv2.String(gw.Bucket),
			Key:    awsv2.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to head S3 object: %w", err)
		}
		versionID = awsv2.ToString(head.VersionId)
	}

	// Unversioned buckets report "null" or nothing; those bodies are never
	// cached.
	cacheable := versionID != "" && versionID != "null"
	if useCache && cacheable {
		if entry, ok := CacheReader(gw, key, versionID); ok {
			return entry.Data, nil
		}
	}

	in := &s3v2.GetObjectInput{
		Bucket: awsv2.String(gw.Bucket),
		Key:    awsv2.String(key),
	}
	if cacheable {
		in.VersionId = awsv2.String(versionID)
	}
	result, err := gw.client.GetObject(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	if cacheable {
		if err := CacheWriter(gw, key, versionID, data); err != nil {
			log.WithError(err).Error("error writing to cache")
		}
	}
	return data, nil
}

func (gw *S3) versions(ctx context.Context, key string) ([]codec.Info, error) {
	paginator := s3v2.NewListObjectVersionsPaginator(gw.client, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(gw.Bucket),
		Prefix: awsv2.String(key),
	})

	var allDeleteMarkers []types.DeleteMarkerEntry
	var allVersions []types.ObjectVersion
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list object versions: %w", err)
		}
		allDeleteMarkers = append(allDeleteMarkers, page.DeleteMarkers...)
		allVersions = append(allVersions, page.Versions...)
	}

	var mostRecentDelete time.Time
	for _, d := range allDeleteMarkers {
		// The prefix is literally a prefix, so siblings sharing it show up too.
		if awsv2.ToString(d.Key) != key {
			continue
		}
		if d.LastModified != nil && d.LastModified.After(mostRecentDelete) {
			mostRecentDelete = *d.LastModified
		}
	}

	var infos []codec.Info
	for _, v := range allVersions {
		if awsv2.ToString(v.Key) != key || v.VersionId == nil || v.LastModified == nil {
			continue
		}
		if v.LastModified.Before(mostRecentDelete) {
			continue
		}
		infos = append(infos, codec.Info{
			Name:    path.Base(key),
			Source:  "s3://" + gw.Bucket + "/" + key,
			Size:    awsv2.ToInt64(v.Size),
			ModTime: *v.LastModified,
			Version: *v.VersionId,
		})
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].ModTime.After(infos[j].ModTime)
	})
	return infos, nil
}
