package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/MKhiriev/go-entity-sync/internal/codec"
	"github.com/MKhiriev/go-entity-sync/internal/service"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var errUnknownFormat = errors.New("unknown output format")

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

// section is one titled block of text output.
type section struct {
	title string
	rows  [][2]string
}

// emit writes v as JSON or YAML, or the text sections otherwise.
func (a *app) emit(v any, sections ...section) error {
	switch a.format {
	case formatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		var b strings.Builder
		b.WriteString(titleStyle.Render(s.title))
		for _, row := range s.rows {
			b.WriteString("\n")
			b.WriteString(keyStyle.Render(row[0] + ":"))
			b.WriteString(" ")
			b.WriteString(row[1])
		}
		blocks = append(blocks, boxStyle.Render(b.String()))
	}
	_, err := fmt.Fprintln(a.out, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}

func (a *app) printOK(msg string) {
	if a.format == formatText {
		fmt.Fprintln(a.out, okStyle.Render(msg))
	}
}

func (a *app) printError(err error) {
	var b strings.Builder
	var opErr *service.OperationError
	if errors.As(err, &opErr) {
		fmt.Fprintf(&b, "%s failed (%s)", opErr.Op, opErr.Kind)
		if opErr.Retryable() {
			b.WriteString(", retry later")
		}
	} else {
		b.WriteString("error")
	}
	fmt.Fprintf(a.out, "%s %v\n", errorStyle.Render(b.String()+":"), err)

	var verr *codec.ValidationErrors
	if errors.As(err, &verr) {
		for _, ee := range verr.Entities {
			fmt.Fprintf(a.out, "  %s\n", keyStyle.Render(ee.Error()))
		}
	}
}

// entityRows renders an untyped entity as sorted key/value rows.
func entityRows(obj any) [][2]string {
	fields, ok := obj.(map[string]string)
	if !ok {
		return [][2]string{{"value", fmt.Sprintf("%+v", obj)}}
	}

	rows := make([][2]string, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		rows = append(rows, [2]string{k, fields[k]})
	}
	return rows
}
