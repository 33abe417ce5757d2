// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Evaluate evaluates an HCL expression over the inspection. The variables a
// and b hold the two sides as produced by Document, and status holds the
// inspection status.
func Evaluate(expression string, ins Inspection) (string, error) {
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"a":      toCty(Document(ins.A)),
			"b":      toCty(Document(ins.B)),
			"status": cty.StringVal(string(ins.Status())),
		},
		Functions: functions(),
	}

	expr, diags := hclsyntax.ParseExpression([]byte(expression), "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", fmt.Errorf("parsing expression: %s", diags.Error())
	}

	result, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return "", fmt.Errorf("evaluating expression: %s", diags.Error())
	}

	return formatCty(result), nil
}

func functions() map[string]function.Function {
	return map[string]function.Function{
		"abs":   stdlib.AbsoluteFunc,
		"ceil":  stdlib.CeilFunc,
		"floor": stdlib.FloorFunc,
		"max":   stdlib.MaxFunc,
		"min":   stdlib.MinFunc,

		"chomp":      stdlib.ChompFunc,
		"format":     stdlib.FormatFunc,
		"join":       stdlib.JoinFunc,
		"lower":      stdlib.LowerFunc,
		"replace":    stdlib.ReplaceFunc,
		"split":      stdlib.SplitFunc,
		"strlen":     stdlib.StrlenFunc,
		"substr":     stdlib.SubstrFunc,
		"title":      stdlib.TitleFunc,
		"trim":       stdlib.TrimFunc,
		"trimprefix": stdlib.TrimPrefixFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"trimsuffix": stdlib.TrimSuffixFunc,
		"upper":      stdlib.UpperFunc,

		"coalesce": stdlib.CoalesceFunc,
		"compact":  stdlib.CompactFunc,
		"concat":   stdlib.ConcatFunc,
		"contains": stdlib.ContainsFunc,
		"distinct": stdlib.DistinctFunc,
		"element":  stdlib.ElementFunc,
		"flatten":  stdlib.FlattenFunc,
		"keys":     stdlib.KeysFunc,
		"length":   stdlib.LengthFunc,
		"lookup":   stdlib.LookupFunc,
		"merge":    stdlib.MergeFunc,
		"reverse":  stdlib.ReverseListFunc,
		"setunion": stdlib.SetUnionFunc,
		"slice":    stdlib.SliceFunc,
		"sort":     stdlib.SortFunc,
		"values":   stdlib.ValuesFunc,

		"jsondecode": stdlib.JSONDecodeFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
		"regex":      stdlib.RegexFunc,
		"regexall":   stdlib.RegexAllFunc,

		"try": tryfunc.TryFunc,
		"can": tryfunc.CanFunc,
	}
}

// toCty converts decoded JSON or YAML values to cty values.
func toCty(val any) cty.Value {
	switch v := val.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case bool:
		return cty.BoolVal(v)
	case int:
		return cty.NumberIntVal(int64(v))
	case int64:
		return cty.NumberIntVal(v)
	case float64:
		return cty.NumberFloatVal(v)
	case json.Number:
		if n, err := cty.ParseNumberVal(v.String()); err == nil {
			return n
		}
		return cty.StringVal(v.String())
	case string:
		return cty.StringVal(v)
	case []any:
		vals := make([]cty.Value, len(v))
		for i, item := range v {
			vals[i] = toCty(item)
		}
		return cty.TupleVal(vals)
	case map[string]any:
		vals := make(map[string]cty.Value, len(v))
		for key, item := range v {
			vals[key] = toCty(item)
		}
		return cty.ObjectVal(vals)
	default:
		return cty.StringVal(fmt.Sprintf("%v", v))
	}
}

// formatCty renders a cty value for display. Scalars print bare; collections
// print as JSON.
func formatCty(val cty.Value) string {
	if val.IsNull() {
		return "null"
	}
	if !val.IsKnown() {
		return "(unknown)"
	}

	switch val.Type() {
	case cty.Bool:
		return fmt.Sprintf("%t", val.True())
	case cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return fmt.Sprintf("%d", i)
		}
		f, _ := bf.Float64()
		return fmt.Sprintf("%g", f)
	case cty.String:
		return val.AsString()
	default:
		if b, err := json.Marshal(fromCty(val)); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%#v", val)
	}
}

func fromCty(val cty.Value) any {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}

	ty := val.Type()
	switch {
	case ty == cty.Bool:
		return val.True()
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return i
		}
		f, _ := bf.Float64()
		return f
	case ty == cty.String:
		return val.AsString()
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		result := []any{}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			result = append(result, fromCty(elem))
		}
		return result
	case ty.IsObjectType() || ty.IsMapType():
		result := map[string]any{}
		for it := val.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			result[k.AsString()] = fromCty(elem)
		}
		return result
	default:
		return fmt.Sprintf("%#v", val)
	}
}
