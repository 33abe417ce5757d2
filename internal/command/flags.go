// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// Flags are built per command; a cli.Flag holds its parsed value.

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the row attributes",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the output pipeline flags every query command
// carries.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, raw)",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between text columns",
			Value: 2,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewRepoFlags returns the flags selecting and opening the repository. When
// a config file is given, --repo and --region also fall back to the
// namespaced and plain config keys.
func NewRepoFlags(params ...string) []cli.Flag {
	repo := &cli.StringFlag{
		Name:    "repo",
		Aliases: []string{"r"},
		Usage:   "repository: s3://bucket/prefix, sqlite://file.db or a directory. Overrides RepoDir",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("LORECTL_REPO"),
		),
	}

	region := &cli.StringFlag{
		Name:  "region",
		Usage: "AWS region for s3 repositories",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("LORECTL_REGION"),
		),
	}

	if len(params) == 2 && params[1] != "" {
		repo = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], repo)
		region = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], region)
	}

	return []cli.Flag{
		repo,
		region,
		&cli.StringFlag{
			Name:    "passphrase",
			Aliases: []string{"p"},
			Usage:   "passphrase for sealed collections",
		},
	}
}

// NewNormalizeFlags returns the comparison option flags. Unset flags defer
// to the ignore_whitespace, ignore_case and json_normalize config keys.
func NewNormalizeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "ignore-whitespace",
			Aliases: []string{"w"},
			Usage:   "collapse whitespace before comparing",
		},
		&cli.BoolFlag{
			Name:    "ignore-case",
			Aliases: []string{"i"},
			Usage:   "compare case-insensitively",
		},
		&cli.BoolFlag{
			Name:    "json-normalize",
			Aliases: []string{"j"},
			Usage:   "compare JSON-looking content by value",
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
