// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package s3 implements the repository gateway over objects beneath an S3
// bucket prefix. On versioned buckets a collection name may carry a version
// spec: "name~N" is the Nth previous version and "name@ID" a version ID.
package s3
