package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"crm-service/internal/service"
	"crm-service/internal/utils"
)

// MaxInputBytes bounds how much of a CSV body is read.
const MaxInputBytes = 8 << 20

// Warning is a non-fatal problem found while decoding a row. The row is
// still returned; the import pipeline decides whether it is usable.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Result struct {
	Rows     []service.ImportRow `json:"rows"`
	Warnings []Warning           `json:"warnings"`
	Encoding string              `json:"encoding"`
}

var headerAliases = map[string]string{
	"name":         "name",
	"customer":     "name",
	"customername": "name",
	"company":      "company",
	"companyname":  "company",
	"address":      "address",
	"addressname":  "address",
	"location":     "address",
	"x":            "x",
	"lng":          "x",
	"lon":          "x",
	"y":            "y",
	"lat":          "y",
	"driver":       "driver",
	"driverid":     "driver",
}

var requiredColumns = []string{"name", "company", "address", "x", "y"}

// DecodeImportCSV reads a spreadsheet export (header row + data rows) into
// import rows. Cells that cannot be parsed as numbers leave the coordinate
// unset so the import validate stage reports the row.
func DecodeImportCSV(r io.Reader) (*Result, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(raw) > MaxInputBytes {
		return nil, fmt.Errorf("read csv: input exceeds %d bytes", MaxInputBytes)
	}

	decoded, encoding, err := toUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode csv: empty file: no header row found")
		}
		return nil, fmt.Errorf("decode csv: read header row: %w", err)
	}

	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		if field, ok := headerAliases[utils.NormalizeHeader(h)]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	for _, field := range requiredColumns {
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("decode csv: missing required column %q", field)
		}
	}

	result := &Result{Encoding: encoding}
	rowNum := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Warnings = append(result.Warnings, Warning{Row: rowNum, Message: fmt.Sprintf("parse error: %v", err)})
			result.Rows = append(result.Rows, service.ImportRow{})
			continue
		}
		if isBlank(record) {
			rowNum--
			continue
		}

		cell := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		row := service.ImportRow{
			Name:     cell("name"),
			Company:  cell("company"),
			Address:  cell("address"),
			DriverID: cell("driver"),
		}
		for _, axis := range []struct {
			field string
			dst   **float64
		}{{"x", &row.X}, {"y", &row.Y}} {
			v := cell(axis.field)
			if v == "" {
				continue
			}
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{Row: rowNum, Message: fmt.Sprintf("column %s: %q is not a number", axis.field, v)})
				continue
			}
			*axis.dst = &parsed
		}
		if len(record) != len(headers) {
			result.Warnings = append(result.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d", len(record), len(headers)),
			})
		}

		result.Rows = append(result.Rows, row)
	}

	if len(result.Rows) == 0 {
		return nil, fmt.Errorf("decode csv: file contains no data rows")
	}

	return result, nil
}

// toUTF8 strips a UTF-8/UTF-16 BOM and falls back to Latin-1 for input that
// is not valid UTF-8.
func toUTF8(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:], "utf-8-bom", nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return nil, "", err
		}
		return out, "utf-16", nil
	case utf8.Valid(data):
		return data, "utf-8", nil
	}

	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, "", err
	}
	return out, "latin-1", nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
