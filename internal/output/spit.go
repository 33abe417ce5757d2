// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/lorectl/internal/attrs"
	"github.com/tfctl/lorectl/internal/config"
	"github.com/tfctl/lorectl/internal/filters"
)

// InterfaceToString renders a row value for a table cell. Zero values become
// emptyValue, "" by default.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit filters, transforms, sorts and renders a jsonapi document
// according to the command's flags. parent selects the row array within raw,
// "data" for documents built by EmitJSONAPISlice. postProcess, if given, runs
// on the rows before a text table is drawn.
func SliceDiceSpit(raw bytes.Buffer,
	attrs attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) {

	if w == nil {
		w = os.Stdout
	}

	output := cmd.String("output")
	if output == "raw" {
		_, _ = w.Write(raw.Bytes())
		return
	}

	doc := gjson.Parse(raw.String())
	if parent != "" {
		doc = doc.Get(parent)
	}

	rows := filters.FilterDataset(doc, attrs, cmd.String("filter"))

	if cmd.Bool("local") {
		for a := range attrs {
			attrs[a].TransformSpec += "t"
		}
	}

	for _, row := range rows {
		for _, attr := range attrs {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(rows, cmd.String("sort"))

	switch output {
	case "json":
		out, err := json.Marshal(rows)
		if err != nil {
			log.Errorf("SliceDiceSpit json marshal: %v", err)
			return
		}
		fmt.Fprintln(w, string(out))
	case "yaml":
		out, err := yaml.Marshal(rows)
		if err != nil {
			log.Errorf("SliceDiceSpit yaml marshal: %v", err)
			return
		}
		_, _ = w.Write(out)
	default:
		if postProcess != nil {
			if err := postProcess(rows); err != nil {
				log.Errorf("PostProcess: %v", err)
			}
		}
		TableWriter(rows, attrs, cmd, w)
	}
}

// TableWriter renders rows as a borderless table honoring --color, --titles
// and --padding. cmd.Metadata "header" and "footer" strings, when set, are
// printed above and below it. Nothing is printed for an empty result set.
func TableWriter(
	resultSet []map[string]interface{},
	attrs attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")
		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	var headers []string
	for _, attr := range attrs {
		if attr.Include {
			headers = append(headers, attr.OutputKey)
		}
	}

	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(headers))
		for _, attr := range attrs {
			if attr.Include {
				row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
			}
		}
		rows = append(rows, row)
	}

	if header, ok := cmd.Metadata["header"].(string); ok && header != "" {
		fmt.Fprintln(w, headerStyle.Render(header))
	}

	pad := cmd.Int("padding")
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Headers().
		Rows(rows...)

	if cmd.Bool("titles") {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if footer, ok := cmd.Metadata["footer"].(string); ok && footer != "" {
		fmt.Fprintln(w, headerStyle.Render(footer))
	}
}

// getColors resolves the table colors. Configured colors.title, colors.even
// and colors.odd win; otherwise a default is chosen for the terminal's
// background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		if c, err := config.GetString(key); err == nil {
			return lipgloss.Color(c)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
