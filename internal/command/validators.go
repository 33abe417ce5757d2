// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/snapshot"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks combinations no single flag validator can see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("schema") && c.String("output") == "raw" {
		return fmt.Errorf("--schema and --output=raw are mutually exclusive")
	}
	return nil
}

func OutputValidator(value any) error {
	validOutputFlagValues := []string{"text", "json", "raw", "yaml"}
	if s, ok := value.(string); !ok || !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// StatusValidator accepts a comma separated list of diff statuses.
func StatusValidator(value any) error {
	s, _ := value.(string)
	for _, st := range strings.Split(s, ",") {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		if !slices.Contains(snapshot.Statuses, snapshot.Status(st)) {
			return fmt.Errorf("invalid status %q: must be one of %v", st, snapshot.Statuses)
		}
	}
	return nil
}

// NonNegativeValidator rejects negative integers.
func NonNegativeValidator(value any) error {
	if n, ok := value.(int); ok && n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

// SideValidator accepts a or b.
func SideValidator(value any) error {
	if value != "a" && value != "b" {
		return fmt.Errorf("must be a or b")
	}
	return nil
}
