// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/imgmin/internal/config"
	"github.com/staranto/imgmin/internal/filters"
)

// ByteColumns are rendered as human readable sizes in text output.
var ByteColumns = map[string]bool{
	"original":   true,
	"compressed": true,
	"saved":      true,
	"size":       true,
}

// PercentColumns are rendered with one decimal and a percent sign in text
// output.
var PercentColumns = map[string]bool{
	"percent": true,
}

// Settings are the rendering choices normally taken from the global flags.
type Settings struct {
	Output string
	Filter string
	Sort   string
	Titles bool
	Color  bool
}

// SettingsFromCommand reads Settings from the global output flags.
func SettingsFromCommand(cmd *cli.Command) Settings {
	return Settings{
		Output: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// SliceDiceSpit filters, sorts and renders the JSON array in raw according
// to the command's output flags. Only columns are rendered, in order.
func SliceDiceSpit(raw bytes.Buffer, columns []string, cmd *cli.Command, w io.Writer) error {
	return Spit(raw, columns, SettingsFromCommand(cmd), w)
}

// Spit is SliceDiceSpit with explicit settings.
func Spit(raw bytes.Buffer, columns []string, s Settings, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	if s.Output == "raw" {
		_, err := w.Write(raw.Bytes())
		return err
	}

	// Filter out the rows we don't want before anything else touches them.
	dataset := filters.FilterDataset(gjson.Parse(raw.String()), columns, s.Filter)
	SortDataset(dataset, s.Sort)

	switch s.Output {
	case "json":
		return writeJSON(dataset, columns, w)
	case "yaml":
		return writeYAML(dataset, columns, w)
	default:
		TableWriter(dataset, columns, s, w)
		return nil
	}
}

// writeJSON emits rows with keys in column order.
func writeJSON(rows []map[string]interface{}, columns []string, w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(col)
			if err != nil {
				return err
			}
			v, err := json.Marshal(row[col])
			if err != nil {
				return fmt.Errorf("failed to marshal %s: %w", col, err)
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// writeYAML emits rows with keys in column order.
func writeYAML(rows []map[string]interface{}, columns []string, w io.Writer) error {
	ordered := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		item := make(yaml.MapSlice, 0, len(columns))
		for _, col := range columns {
			item = append(item, yaml.MapItem{Key: col, Value: row[col]})
		}
		ordered = append(ordered, item)
	}

	out, err := yaml.Marshal(ordered)
	if err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// TableWriter renders the result set in a tabular form honoring color and
// titles. Color is only applied when w is a terminal.
func TableWriter(
	resultSet []map[string]interface{},
	columns []string,
	s Settings,
	w io.Writer) {

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if s.Color && isTerminal(w) {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 1)
	log.Debugf("padding: %v", pad)

	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(columns))
		for _, col := range columns {
			row = append(row, formatCell(col, result[col]))
		}
		rows = append(rows, row)
	}

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

	if s.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(columns...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// formatCell renders one value for the text table.
func formatCell(column string, value interface{}) string {
	if n, ok := number(value); ok {
		switch {
		case ByteColumns[column] && n >= 0:
			return humanize.Bytes(uint64(n))
		case PercentColumns[column]:
			return strconv.FormatFloat(n, 'f', 1, 64) + "%"
		}
	}
	return InterfaceToString(value, "-")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
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
		// Report values are whole numbers other than percentages, which are
		// formatted before reaching here.
		return fmt.Sprintf("%.0f", value)
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
