package utils

import (
	"bufio"
	"encoding/csv"
	"io"
)

// ParseCSV reads all records from r. Rows may carry differing field counts,
// so files with an optional trailing column parse cleanly, and a UTF-8 BOM
// (which Excel prepends on export) is skipped.
func ParseCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
