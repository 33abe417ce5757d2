// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/lorectl/internal/cacheutil"
	"github.com/tfctl/lorectl/internal/command"
	"github.com/tfctl/lorectl/internal/config"
	"github.com/tfctl/lorectl/internal/log"
	"github.com/tfctl/lorectl/internal/util"
	"github.com/tfctl/lorectl/internal/version"
)

var ctx = context.Background()

// boolFlags never take a separate value argument.
var boolFlags = map[string]bool{
	"--color":             true,
	"-c":                  true,
	"--content":           true,
	"--help":              true,
	"-h":                  true,
	"--ignore-case":       true,
	"-i":                  true,
	"--ignore-whitespace": true,
	"-w":                  true,
	"--json-normalize":    true,
	"-j":                  true,
	"--lines":             true,
	"--local":             true,
	"-l":                  true,
	"--pick":              true,
	"--refresh":           true,
	"--schema":            true,
	"--seal":              true,
	"--summary":           true,
	"--titles":            true,
	"-t":                  true,
	"--tldr":              true,
	"--version":           true,
	"-v":                  true,
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs places the RepoDir positional, expands @set arguments
// from config and drops repeated flags.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		return args
	}

	args = processRepoArg(args)
	args = processSets(args)
	log.Debugf("args after set processing: args=%v", args)

	return deduplicateFlags(args)
}

// processRepoArg makes sure args[2] is the RepoDir. When the argument after
// the subcommand is not a repository spec, the current directory is
// inserted.
func processRepoArg(args []string) []string {
	if len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		if _, _, err := util.ParseRepo(args[2]); err == nil {
			return args
		}
	}

	cwd, _ := os.Getwd()
	out := append([]string{}, args[:2]...)
	out = append(out, cwd)
	return append(out, args[2:]...)
}

// processSets expands an explicit @set argument in place with the entries of
// config key <subcommand>.<set>. Without one, <subcommand>.defaults is
// inserted right after the RepoDir so anything given on the command line
// wins.
func processSets(args []string) []string {
	if len(args) < 3 {
		return args
	}

	for i := 3; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") && len(args[i]) > 1 {
			rest := append([]string{}, args[i+1:]...)
			entries, _ := config.GetStringSlice(args[1] + "." + args[i][1:])
			return append(injectConfigSet(args[:i], entries, i), rest...)
		}
	}

	entries, _ := config.GetStringSlice(args[1] + ".defaults")
	return injectConfigSet(args, entries, 3)
}

// injectConfigSet splits entries on whitespace and inserts them into args at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := append([]string{}, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags keeps only the last occurrence of each flag after the
// subcommand, along with its value. --name=value and --name value count as
// the same flag. Positional arguments keep their places and everything after
// "--" is left alone.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type token struct {
		key   string
		parts []string
	}

	var tokens []token
	for i := 2; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			for _, rest := range args[i:] {
				tokens = append(tokens, token{parts: []string{rest}})
			}
			i = len(args)
		case len(a) > 1 && strings.HasPrefix(a, "-") && !isNumber(a):
			key, _, hasValue := strings.Cut(a, "=")
			t := token{key: key, parts: []string{a}}
			if !hasValue && !boolFlags[key] && i+1 < len(args) && isValue(args[i+1]) {
				t.parts = append(t.parts, args[i+1])
				i++
			}
			tokens = append(tokens, t)
		default:
			tokens = append(tokens, token{parts: []string{a}})
		}
	}

	last := map[string]int{}
	for i, t := range tokens {
		if t.key != "" {
			last[t.key] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, t := range tokens {
		if t.key != "" && last[t.key] != i {
			continue
		}
		out = append(out, t.parts...)
	}
	return out
}

// isValue reports whether a can be the value of a preceding flag.
func isValue(a string) bool {
	return !strings.HasPrefix(a, "-") || isNumber(a)
}

func isNumber(a string) bool {
	s := strings.TrimPrefix(a, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI
	// handle it.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			if args[1] != "completion" && !strings.HasPrefix(args[1], "-") {
				args = processRepoArg(args)
			}
			return initAndRunApp(args)
		}
	}

	return initAndRunApp(processCommandArgs(args))
}
