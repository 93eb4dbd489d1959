package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var errRowNotObject = errors.New("csv rows must encode as JSON objects")

// ExportCSV renders rows as CSV text.
//
// Column headers come from the key set of the first row only; rows are
// assumed to be homogeneous, so keys missing from a later row render as empty
// cells and extra keys are dropped. Every cell is quoted with inner quotes
// doubled, nested objects and arrays are JSON-encoded, null renders empty.
// An empty input returns nil and no error.
func ExportCSV[T any](rows []T) ([]byte, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	first, err := marshalRow(rows[0])
	if err != nil {
		return nil, err
	}
	headers, err := objectKeys(first)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(headers, ","))
	for i, row := range rows {
		raw, err := marshalRow(row)
		if err != nil {
			return nil, err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i, errRowNotObject)
		}
		buf.WriteByte('\n')
		for j, h := range headers {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quoteCell(cellValue(fields[h])))
		}
	}
	return buf.Bytes(), nil
}

// WriteCSVFile exports rows into path. Nothing is written for an empty input
// and the returned flag is false.
func WriteCSVFile[T any](path string, rows []T) (bool, error) {
	data, err := ExportCSV(rows)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("error writing %s: %w", path, err)
	}
	return true, nil
}

// ExportFilename names an export after its subject and the current day.
func ExportFilename(subject string) string {
	return fmt.Sprintf("%s-%s.csv", subject, FormatDate(Now()))
}

func marshalRow(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("error encoding csv row: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// objectKeys returns the keys of a JSON object in document order, which for a
// struct is its field order.
func objectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errRowNotObject
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errRowNotObject
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func cellValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case 'n':
		return ""
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
		return s
	}
	return string(raw)
}

func quoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
