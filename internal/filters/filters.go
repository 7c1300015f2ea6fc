// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// exprRegex splits "<key><op><target>". The op is one of = ~ ^ < > @ /,
// optionally negated with a leading '!'.
var exprRegex = regexp.MustCompile(`^(.*?)(!?[=~^<>@/])(.*)$`)

// Filter is one parsed --filter expression, e.g. "saved>1000" or
// "format!=svg".
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a delimited filter list. The delimiter is "," unless
// IMGMIN_FILTER_DELIM overrides it. Malformed expressions are logged and
// skipped.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	delim := ","
	if d, ok := os.LookupEnv("IMGMIN_FILTER_DELIM"); ok {
		delim = d
	}

	//nolint:prealloc
	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		m := exprRegex.FindStringSubmatch(expr)
		if m == nil {
			log.Error("invalid filter: " + expr)
			continue
		}
		op, negate := strings.CutPrefix(m[2], "!")
		filters = append(filters, Filter{
			Key:     m[1],
			Negate:  negate,
			Operand: op,
			Target:  m[3],
		})
	}

	return filters
}

// Match reports whether row satisfies f. A missing or null field never
// matches.
func (f Filter) Match(row gjson.Result) bool {
	field := row.Get(f.Key)

	switch field.Type {
	case gjson.String:
		return f.matchString(field.Str)
	case gjson.True, gjson.False:
		return f.matchString(field.String())
	case gjson.Number:
		return f.matchNumber(field.Num)
	case gjson.JSON:
		return f.matchContains(field)
	default:
		return false
	}
}

// FilterDataset returns the rows of candidates matching every filter in
// spec, projected to columns. Filter keys name row fields, which need not be
// among the projected columns.
func FilterDataset(candidates gjson.Result, columns []string, spec string) []map[string]interface{} {
	rows := candidates.Array()
	filters := knownFilters(BuildFilters(spec), rows)

	//nolint:prealloc
	var out []map[string]interface{}
	for _, row := range rows {
		if !matchAll(row, filters) {
			continue
		}
		projected := make(map[string]interface{}, len(columns))
		for _, column := range columns {
			projected[column] = row.Get(column).Value()
		}
		out = append(out, projected)
	}

	return out
}

// knownFilters drops filters whose key no row carries and warns once per
// dropped key. With no rows there is nothing to check against.
func knownFilters(filters []Filter, rows []gjson.Result) []Filter {
	if len(rows) == 0 {
		return filters
	}

	kept := filters[:0]
	for _, f := range filters {
		if fieldExists(rows, f.Key) {
			kept = append(kept, f)
			continue
		}
		msg := "filter key not found: " + f.Key
		log.Error(msg)
		fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
	}
	return kept
}

func fieldExists(rows []gjson.Result, key string) bool {
	for _, row := range rows {
		if row.Get(key).Exists() {
			return true
		}
	}
	return false
}

func matchAll(row gjson.Result, filters []Filter) bool {
	for _, f := range filters {
		if !f.Match(row) {
			return false
		}
	}
	return true
}

// result applies negation to an outcome.
func (f Filter) result(ok bool) bool {
	return ok != f.Negate
}

func (f Filter) matchString(value string) bool {
	switch f.Operand {
	case "=":
		return f.result(value == f.Target)
	case "~":
		return f.result(strings.EqualFold(value, f.Target))
	case "^":
		return f.result(strings.HasPrefix(value, f.Target))
	case ">":
		return f.result(value > f.Target)
	case "<":
		return f.result(value < f.Target)
	case "@":
		return f.result(strings.Contains(value, f.Target))
	case "/":
		re, err := regexp.Compile(f.Target)
		if err != nil {
			log.Error("invalid regex: " + f.Target)
			return false
		}
		return f.result(re.MatchString(value))
	default:
		log.Error("unsupported filter operand: " + f.Operand)
		return false
	}
}

func (f Filter) matchNumber(value float64) bool {
	target, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + f.Target)
		return false
	}

	switch f.Operand {
	case "=":
		return f.result(value == target)
	case ">":
		return f.result(value > target)
	case "<":
		return f.result(value < target)
	default:
		log.Error("unsupported numeric operand: " + f.Operand)
		return false
	}
}

// matchContains handles '@' against arrays (an element equals the target)
// and objects (a key equals the target). Other operands never match a
// composite field.
func (f Filter) matchContains(field gjson.Result) bool {
	if f.Operand != "@" {
		return false
	}

	found := false
	switch {
	case field.IsArray():
		for _, item := range field.Array() {
			if item.String() == f.Target {
				found = true
				break
			}
		}
	case field.IsObject():
		_, found = field.Map()[f.Target]
	default:
		return false
	}
	return f.result(found)
}
