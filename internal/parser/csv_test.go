package parser

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeImportCSV(t *testing.T) {
	input := "Name,Company,Address Name,X,Y,Driver ID\n" +
		"Global Corp HQ,Global Corp,100 Financial Dist,55,20,d3\n" +
		"\n" +
		"Fresh Market,Eat Fresh Ltd,\"22 Market St\",80,60,\n"

	result, err := DecodeImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Encoding != "utf-8" {
		t.Fatalf("encoding = %q, want utf-8", result.Encoding)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(result.Rows))
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %+v, want none", result.Warnings)
	}

	first := result.Rows[0]
	if first.Name != "Global Corp HQ" || first.Address != "100 Financial Dist" || first.DriverID != "d3" {
		t.Fatalf("first row = %+v", first)
	}
	if first.X == nil || *first.X != 55 || first.Y == nil || *first.Y != 20 {
		t.Fatalf("first row coordinates = %v, %v", first.X, first.Y)
	}
	if result.Rows[1].DriverID != "" {
		t.Fatalf("second row driver = %q, want empty", result.Rows[1].DriverID)
	}
}

func TestDecodeImportCSVBadNumberLeavesCoordinateUnset(t *testing.T) {
	input := "name,company,address,lng,lat\nA,B,C,abc,10\n"

	result, err := DecodeImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rows[0].X != nil {
		t.Fatalf("x = %v, want nil", *result.Rows[0].X)
	}
	if result.Rows[0].Y == nil || *result.Rows[0].Y != 10 {
		t.Fatalf("y = %v, want 10", result.Rows[0].Y)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Row != 1 {
		t.Fatalf("warnings = %+v, want one for row 1", result.Warnings)
	}
}

func TestDecodeImportCSVEncodings(t *testing.T) {
	t.Run("latin-1", func(t *testing.T) {
		// "Café" with 0xE9 for é.
		input := []byte("name,company,address,x,y\nCaf\xe9,B,C,1,2\n")
		result, err := DecodeImportCSV(bytes.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Encoding != "latin-1" {
			t.Fatalf("encoding = %q, want latin-1", result.Encoding)
		}
		if result.Rows[0].Name != "Café" {
			t.Fatalf("name = %q, want Café", result.Rows[0].Name)
		}
	})

	t.Run("utf-8 bom", func(t *testing.T) {
		input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,company,address,x,y\nA,B,C,1,2\n")...)
		result, err := DecodeImportCSV(bytes.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Encoding != "utf-8-bom" || result.Rows[0].Name != "A" {
			t.Fatalf("result = %+v", result)
		}
	})

	t.Run("utf-16le", func(t *testing.T) {
		text := "name,company,address,x,y\nA,B,C,1,2\n"
		input := []byte{0xFF, 0xFE}
		for _, b := range []byte(text) {
			input = append(input, b, 0x00)
		}
		result, err := DecodeImportCSV(bytes.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Encoding != "utf-16" || result.Rows[0].Company != "B" {
			t.Fatalf("result = %+v", result)
		}
	})
}

func TestDecodeImportCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "no header row"},
		{name: "missing column", input: "name,company,x,y\nA,B,1,2\n", want: `missing required column "address"`},
		{name: "header only", input: "name,company,address,x,y\n", want: "no data rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImportCSV(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
