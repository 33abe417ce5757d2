// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/apex/log"

	awsx "github.com/tfctl/lorectl/internal/aws"
	"github.com/tfctl/lorectl/internal/repository/codec"
)

// S3Option configures an S3 gateway.
type S3Option = func(ctx context.Context, gw *S3) error

// NewS3 returns an S3 gateway. Unless WithClient supplies one, the client is
// built from the shell's AWS configuration.
func NewS3(ctx context.Context, options ...S3Option) (*S3, error) {
	options = append([]S3Option{WithDefaults()}, options...)

	gw := &S3{}
	for _, opt := range options {
		if err := opt(ctx, gw); err != nil {
			return nil, err
		}
	}

	if gw.Bucket == "" {
		return nil, fmt.Errorf("s3 repository needs a bucket")
	}

	if gw.client == nil {
		cfg, err := awsx.LoadAWSConfig(ctx,
			awsx.WithRegion(gw.Region),
			awsx.WithProfile(gw.Profile),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		gw.client = awsx.NewS3(cfg, awsx.WithS3Endpoint(gw.Endpoint))
	}

	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	return gw, nil
}

func WithDefaults() S3Option {
	return func(ctx context.Context, gw *S3) error {
		gw.Codec = &codec.Codec{}
		return nil
	}
}

// FromURL reads bucket and prefix from s3://bucket/prefix. The region,
// profile and endpoint query parameters override the shell's AWS setup, as in
// s3://lore/v2?endpoint=http://localhost:9000.
func FromURL(spec string) S3Option {
	return func(ctx context.Context, gw *S3) error {
		u, err := url.Parse(spec)
		if err != nil {
			return fmt.Errorf("invalid s3 repository %q: %w", spec, err)
		}
		if u.Scheme != "s3" {
			return fmt.Errorf("invalid s3 repository %q: scheme must be s3", spec)
		}
		gw.Bucket = u.Host
		gw.Prefix = strings.Trim(u.Path, "/")
		q := u.Query()
		if r := q.Get("region"); r != "" {
			gw.Region = r
		}
		gw.Profile = q.Get("profile")
		gw.Endpoint = q.Get("endpoint")
		log.Debugf("s3: bucket=%s prefix=%s region=%s endpoint=%s", gw.Bucket, gw.Prefix, gw.Region, gw.Endpoint)
		return nil
	}
}

func WithRegion(region string) S3Option {
	return func(ctx context.Context, gw *S3) error {
		if region != "" {
			gw.Region = region
		}
		return nil
	}
}

// WithClient injects the S3 client.
func WithClient(client API) S3Option {
	return func(ctx context.Context, gw *S3) error {
		gw.client = client
		return nil
	}
}

func WithCodec(c *codec.Codec) S3Option {
	return func(ctx context.Context, gw *S3) error {
		if c != nil {
			gw.Codec = c
		}
		return nil
	}
}
