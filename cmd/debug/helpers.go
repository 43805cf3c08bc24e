package debug

import (
	"strconv"
	"strings"
)

// formatNumber renders n with thousands separators
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}

	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// formatSignedNumber renders n with an explicit sign, for balance deltas
func formatSignedNumber(n int64) string {
	if n > 0 {
		return "+" + formatNumber(n)
	}
	return formatNumber(n)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// formatTable renders rows as a bordered ASCII table sized to the widest
// cell in each column
func formatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 || len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sep strings.Builder
	sep.WriteByte('+')
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteByte('+')
	}

	writeRow := func(b *strings.Builder, cells []string) {
		b.WriteByte('|')
		for i, cell := range cells {
			if i < len(widths) {
				b.WriteString(" " + padRight(cell, widths[i]) + " |")
			}
		}
		b.WriteByte('\n')
	}

	var b strings.Builder
	b.WriteString(sep.String() + "\n")
	writeRow(&b, headers)
	b.WriteString(sep.String() + "\n")
	for _, row := range rows {
		writeRow(&b, row)
	}
	b.WriteString(sep.String())

	return b.String()
}
