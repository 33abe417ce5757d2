// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for lorectl's user
// configuration. The configuration is a YAML document at $LORECTL_CFG_FILE or
// lorectl.yaml in the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/lorectl.yaml or $HOME/.config/lorectl.yaml
//   - macOS: $HOME/Library/Application Support/lorectl.yaml
//   - Windows: %AppData%/lorectl.yaml
//
// Command flags read the same file through cli-altsrc, and named argument
// sets ("dq.strict") are expanded from it by the @set syntax.
package config
