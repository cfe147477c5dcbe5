package gateway

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// zipSignature prefixes every xlsx workbook.
var zipSignature = []byte("PK\x03\x04")

// ReadRows reads a delimited-text or xlsx stream into raw string rows. The
// format is sniffed from the leading bytes; workbooks are read from their
// first sheet.
func ReadRows(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zipSignature))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to sniff input format: %w", err)
	}
	if bytes.Equal(head, zipSignature) {
		return readWorkbookRows(br)
	}
	return readCSVRows(br)
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		rows = append(rows, record)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func readWorkbookRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
