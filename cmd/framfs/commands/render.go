// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ANSI 256-color codes.
const (
	colorLabel = lipgloss.Color("245")
	colorOK    = lipgloss.Color("35")
	colorBad   = lipgloss.Color("196")
)

// table renders aligned "label  value" lines. Styling is dropped
// automatically when the writer is not a terminal.
type table struct {
	writer io.Writer
	label  lipgloss.Style
	ok     lipgloss.Style
	bad    lipgloss.Style
	rows   [][2]string
}

func newTable(w io.Writer) *table {
	renderer := lipgloss.NewRenderer(w)
	return &table{
		writer: w,
		label:  renderer.NewStyle().Foreground(colorLabel),
		ok:     renderer.NewStyle().Foreground(colorOK).Bold(true),
		bad:    renderer.NewStyle().Foreground(colorBad).Bold(true),
	}
}

func (t *table) row(label, format string, args ...any) {
	t.rows = append(t.rows, [2]string{label, fmt.Sprintf(format, args...)})
}

func (t *table) flush() error {
	width := 0
	for _, row := range t.rows {
		width = max(width, len(row[0]))
	}
	var builder strings.Builder
	for _, row := range t.rows {
		label := t.label.Render(row[0] + strings.Repeat(" ", width-len(row[0])))
		fmt.Fprintf(&builder, "%s  %s\n", label, row[1])
	}
	t.rows = nil
	_, err := io.WriteString(t.writer, builder.String())
	return err
}

// bytesValue renders n as "7.6 KiB (7824 bytes)", or "N bytes" when
// the IEC form would add nothing.
func bytesValue(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d bytes", n)
	}
	return fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(n)), n)
}
