package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads delimited text exports. A zero Comma sniffs between comma
// and tab from the first line.
type CSVReader struct {
	Name  string
	Comma rune
}

// Format returns the reader name.
func (r *CSVReader) Format() string { return r.Name }

// Read decodes the export and returns every record as cells.
func (r *CSVReader) Read(in io.Reader) ([][]Cell, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.Name, err)
	}
	data, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.Name, err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = r.Comma
	if cr.Comma == 0 {
		cr.Comma = sniffDelimiter(data)
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.Name, err)
	}

	rows := make([][]Cell, len(records))
	for i, rec := range records {
		rows[i] = TextCells(rec...)
	}
	return rows, nil
}

// decodeText strips a UTF-8 BOM and decodes legacy CP949 exports, which most
// Korean internet banking sites still produce.
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	return korean.EUCKR.NewDecoder().Bytes(data)
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{','}) {
		return '\t'
	}
	return ','
}
