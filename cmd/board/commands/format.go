package commands

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const lineWidth = 59

// PrintHeader prints a titled block with key/value lines
func PrintHeader(w io.Writer, title string, fields [][2]string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("═", lineWidth))
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("─", lineWidth))
	for _, f := range fields {
		fmt.Fprintf(w, "  %-10s: %s\n", f[0], f[1])
	}
	fmt.Fprintln(w, strings.Repeat("─", lineWidth))
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintTable prints rows under a header, sizing every column to its widest cell
func PrintTable(w io.Writer, columns []string, rows [][]string) {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	printRow(w, columns, widths)

	total := 0
	for i, width := range widths {
		total += width
		if i < len(widths)-1 {
			total += 2
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", total))

	for _, row := range rows {
		printRow(w, row, widths)
	}
}

func printRow(w io.Writer, values []string, widths []int) {
	cells := make([]string, len(widths))
	for i := range widths {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		cells[i] = v + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
}
