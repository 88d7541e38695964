package simpleexcel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDataExporter_YamlTemplate(t *testing.T) {
	yamlConfig := `
sheets:
  - name: "Card"
    sections:
      - id: "people"
        title: "People"
        show_header: true
        header_style:
          font:
            bold: true
          fill:
            color: "#DDEBF7"
        columns:
          - field_name: "Name"
            header: "Name"
            width: 20
          - field_name: "Score"
            header: "Score"
      - id: "notes"
        title: "Notes"
        columns:
          - field_name: "text"
            header: "Text"
`
	exporter, err := NewDataExporterFromYamlConfig(yamlConfig)
	if err != nil {
		t.Fatalf("Failed to create exporter: %v", err)
	}

	seven := 7
	exporter.BindSectionData("people", []struct {
		Name  string
		Score *int
	}{{"Asha", &seven}, {"Ravi", nil}})
	exporter.BindSectionData("notes", []map[string]string{{"text": "first"}})

	f, err := exporter.BuildExcel()
	if err != nil {
		t.Fatalf("Failed to build excel: %v", err)
	}
	defer f.Close()

	expect := map[string]string{
		"A1": "People",
		"A2": "Name",
		"B2": "Score",
		"A3": "Asha",
		"B3": "7",
		"A4": "Ravi",
		"B4": "",
		"A6": "Notes",
		"A7": "first",
	}
	for cell, want := range expect {
		got, _ := f.GetCellValue("Card", cell)
		if got != want {
			t.Errorf("cell %s: expected %q, got %q", cell, want, got)
		}
	}

	styleID, _ := f.GetCellStyle("Card", "A2")
	if styleID == 0 {
		t.Errorf("expected a header style on A2")
	}
}

func TestDataExporter_Programmatic(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Left").
		AddSection(&SectionConfig{
			Title:      "Main",
			ShowHeader: true,
			Data:       []struct{ A string }{{"a1"}},
			Columns:    []ColumnConfig{{FieldName: "A", Header: "A"}},
		}).
		AddSection(&SectionConfig{
			Title:     "Side",
			Direction: SectionDirectionHorizontal,
			Data:      []struct{ B int }{{42}},
			Columns:   []ColumnConfig{{FieldName: "B", Header: "B"}},
		})

	data, err := exporter.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Left", "A3"); got != "a1" {
		t.Errorf("expected a1 at A3, got %q", got)
	}
	if got, _ := f.GetCellValue("Left", "C1"); got != "Side" {
		t.Errorf("expected Side title at C1, got %q", got)
	}
	if got, _ := f.GetCellValue("Left", "C2"); got != "42" {
		t.Errorf("expected 42 at C2, got %q", got)
	}
}

func TestNewDataExporterFromYamlConfig_Invalid(t *testing.T) {
	if _, err := NewDataExporterFromYamlConfig("sheets: ["); err == nil {
		t.Errorf("expected a decode error")
	}
	if _, err := NewDataExporterFromYamlConfig("sheets: []"); err == nil {
		t.Errorf("expected an error for an empty template")
	}
}
