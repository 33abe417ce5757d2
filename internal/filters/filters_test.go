// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/lorectl/internal/attrs"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

type testBuildFiltersCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	Delimiter string   `yaml:"delimiter"`
	Want      []Filter `yaml:"want"`
}

type testCheckCase struct {
	Name   string      `yaml:"name"`
	Value  interface{} `yaml:"value"`
	Filter Filter      `yaml:"filter"`
	Want   bool        `yaml:"want"`
}

type testFilterDatasetCase struct {
	Name       string   `yaml:"name"`
	Spec       string   `yaml:"spec"`
	WantLabels []string `yaml:"wantLabels"`
}

func loadTestData(filename string, v any) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestBuildFilters(t *testing.T) {
	var tests []testBuildFiltersCase
	require.NoError(t, loadTestData("build_filters_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if tt.Delimiter != "" {
				t.Setenv(DelimEnv, tt.Delimiter)
			}
			got := BuildFilters(tt.Spec)
			if len(tt.Want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.Want, got)
		})
	}
}

func TestCheck(t *testing.T) {
	var tests []testCheckCase
	require.NoError(t, loadTestData("check_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			value := tt.Value
			// yaml decodes whole numbers as int; rows carry float64.
			if n, ok := value.(int); ok {
				value = float64(n)
			}
			assert.Equal(t, tt.Want, check(value, tt.Filter))
		})
	}
}

const rows = `[
  {"id": "Intro", "attributes": {"status": "changed", "label": "Intro", "before": "Hello world", "after": "Hello World!", "weight": 3}},
  {"id": "Gate", "attributes": {"status": "removed", "label": "Gate", "before": "shut", "weight": 10}},
  {"id": "Stats", "attributes": {"status": "added", "label": "Stats", "after": "{}", "tags": ["x", "y"]}},
  {"id": "Keep", "attributes": {"status": "same", "label": "Keep", "before": "k", "after": "k", "weight": 1}}
]`

func TestFilterDataset(t *testing.T) {
	var tests []testFilterDatasetCase
	require.NoError(t, loadTestData("filter_dataset_cases.yaml", &tests))

	var al attrs.AttrList
	require.NoError(t, al.Set("status,label,before,after,weight,tags"))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := FilterDataset(gjson.Parse(rows), al, tt.Spec)

			labels := []string{}
			for _, row := range got {
				labels = append(labels, row["label"].(string))
			}
			assert.Equal(t, tt.WantLabels, labels)
		})
	}
}

func TestFilterDataset_Projection(t *testing.T) {
	var al attrs.AttrList
	require.NoError(t, al.Set("label:name,.id"))

	got := FilterDataset(gjson.Parse(rows), al, "name=Gate")
	require.Len(t, got, 1)
	assert.Equal(t, map[string]interface{}{"name": "Gate", "id": "Gate"}, got[0])
}
