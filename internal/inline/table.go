package inline

import "strings"

// TableCells splits a table line into its cell texts. Cells are
// delimited by unescaped '|' characters; "\|" puts a literal pipe
// inside a cell. Leading and trailing delimiters are decorative.
func TableCells(text string) []string {
	var cells []string
	var cell strings.Builder
	escaped := false

	body := strings.TrimPrefix(text, "|")
	body = strings.TrimSuffix(body, "|")
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case escaped:
			if c != '|' {
				cell.WriteByte('\\')
			}
			cell.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(c)
		}
	}
	if escaped {
		cell.WriteByte('\\')
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}

// IsSeparatorRow reports whether the cells form a dashed header
// separator row.
func IsSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if c == "" {
			return false
		}
		for i := 0; i < len(c); i++ {
			if c[i] != '-' {
				return false
			}
		}
	}
	return len(cells) > 0
}
