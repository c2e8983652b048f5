package listing

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV writes the header row and rows with every field quoted and
// embedded quotes doubled. Rows end in "\n".
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writeRow(bw, r); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(Quote(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func Quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
