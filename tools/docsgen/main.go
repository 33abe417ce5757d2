// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen writes a markdown page and a tldr page for every lorectl
// subcommand, built from the command tree itself.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/command"
)

type flagDoc struct {
	Syntax  string
	Usage   string
	Default string
}

type pageData struct {
	ID      string
	Short   string
	Usage   string
	Flags   []flagDoc
	Date    string
	Version string
}

var markdownTmpl = template.Must(template.New("md").Parse(`# lorectl {{.ID}}

{{.Short}}

## Usage

    {{.Usage}}

## Flags
{{range .Flags}}
- ` + "`{{.Syntax}}`" + ` {{.Usage}}{{if .Default}} (default {{.Default}}){{end}}{{end}}

_{{.Version}}, {{.Date}}_
`))

var tldrTmpl = template.Must(template.New("tldr").Parse(`# lorectl {{.ID}}

> {{.Short}}.

- Usage:

` + "`{{.Usage}}`" + `
`))

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCSDIR")
		os.Exit(1)
	}
	docs := os.Args[1]

	app, err := command.InitApp(context.Background(), []string{"lorectl"})
	if err != nil {
		panic(err)
	}

	version := getVersion()
	date := time.Now().Format("January 2, 2006")

	for _, cmd := range app.Commands {
		data := newPageData(cmd)
		data.Version, data.Date = version, date

		for _, out := range []struct {
			tmpl *template.Template
			path string
		}{
			{markdownTmpl, filepath.Join(docs, "commands", cmd.Name+".md")},
			{tldrTmpl, filepath.Join(docs, "tldr", "lorectl-"+cmd.Name+".md")},
		} {
			fmt.Println("Generating", out.path)
			if err := writePage(out.path, out.tmpl, data); err != nil {
				panic(err)
			}
		}
	}
}

func newPageData(cmd *cli.Command) pageData {
	data := pageData{ID: cmd.Name, Short: cmd.Usage, Usage: cmd.UsageText}
	for _, f := range cmd.Flags {
		if v, ok := f.(cli.VisibleFlag); ok && !v.IsVisible() {
			continue
		}
		var names []string
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "-"+n)
			} else {
				names = append(names, "--"+n)
			}
		}
		doc := flagDoc{Syntax: strings.Join(names, ", ")}
		if d, ok := f.(cli.DocGenerationFlag); ok {
			doc.Usage = d.GetUsage()
			if d.TakesValue() {
				doc.Default = d.GetValue()
			}
		}
		data.Flags = append(data.Flags, doc)
	}
	return data
}

func writePage(path string, tmpl *template.Template, data pageData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render(f, tmpl, data)
}

func render(w io.Writer, tmpl *template.Template, data pageData) error {
	return tmpl.Execute(w, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
