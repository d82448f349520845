package utils

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	csvData := `name,age,city
Alice,30,New York
Bob,25,Los Angeles`

	reader := strings.NewReader(csvData)

	got, err := ParseCSV(reader)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	want := [][]string{
		{"name", "age", "city"},
		{"Alice", "30", "New York"},
		{"Bob", "25", "Los Angeles"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV returned %+v, want %+v", got, want)
	}
}

func TestParseCSVRaggedRows(t *testing.T) {
	csvData := `name,age,city
Alice,30
Bob,25,Los Angeles,CA`

	got, err := ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(got) != 3 || len(got[1]) != 2 || len(got[2]) != 4 {
		t.Errorf("ParseCSV returned %+v, want rows of 3, 2 and 4 fields", got)
	}
}

func TestParseCSVSkipsByteOrderMark(t *testing.T) {
	csvData := "\xEF\xBB\xBFname,age\nAlice,30"

	got, err := ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if got[0][0] != "name" {
		t.Errorf("first field = %q, want %q", got[0][0], "name")
	}
}
