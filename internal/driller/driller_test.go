// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package driller

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// drillerTestCase represents a single case in driller_cases.yaml.
type drillerTestCase struct {
	Name        string         `yaml:"name"`
	JSON        map[string]any `yaml:"json"`
	Path        string         `yaml:"path"`
	ExpectedStr string         `yaml:"expectedStr"`
	IsNil       bool           `yaml:"isNil"`
	IsArray     bool           `yaml:"isArray"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v interface{}) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestDriller(t *testing.T) {
	var tests []drillerTestCase
	require.NoError(t, loadTestData("driller_cases.yaml", &tests))
	require.NotEmpty(t, tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			jsonBytes, err := json.Marshal(tt.JSON)
			require.NoError(t, err)
			result := Driller(string(jsonBytes), tt.Path)

			switch {
			case tt.IsNil:
				assert.False(t, result.Exists(), "got %v", result.Value())
			case tt.IsArray:
				require.True(t, result.Exists())
				assert.True(t, result.IsArray(), "got %v", result.Value())
			default:
				require.True(t, result.Exists())
				assert.Equal(t, tt.ExpectedStr, result.String())
			}
		})
	}
}

func TestDriller_EmptyPathIsWholeDocument(t *testing.T) {
	result := Driller(`{"a":1}`, "")
	assert.True(t, result.IsObject())
	assert.Equal(t, int64(1), result.Get("a").Int())
}
