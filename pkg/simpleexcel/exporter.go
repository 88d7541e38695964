package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Constants & Types
// =============================================================================

const (
	SectionDirectionHorizontal = "horizontal"
	SectionDirectionVertical   = "vertical"
)

// DataExporter renders sections of tabular data into one workbook.
type DataExporter struct {
	template *ReportTemplate
	// data is bound to section IDs of the template
	data map[string]interface{}
	// sheets are added programmatically
	sheets []*SheetBuilder
}

// ReportTemplate is the YAML layout of a workbook.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig is a titled block of rows.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Data        interface{}    `yaml:"-"`
	ShowHeader  bool           `yaml:"show_header"`
	Direction   string         `yaml:"direction"`
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig maps a struct field or map key to a column.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"`
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
}

type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"`
}

type FillTemplate struct {
	Color string `yaml:"color"`
}

// =============================================================================
// Constructors
// =============================================================================

func NewDataExporter() *DataExporter {
	return &DataExporter{data: make(map[string]interface{})}
}

// NewDataExporterFromYamlConfig parses a template given as YAML text.
func NewDataExporterFromYamlConfig(cfg string) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.Unmarshal([]byte(cfg), &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("template has no sheets")
	}
	e := NewDataExporter()
	e.template = &tmpl
	return e, nil
}

// =============================================================================
// Fluent API
// =============================================================================

// AddSheet starts a new sheet builder.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{exporter: e, name: name}
	e.sheets = append(e.sheets, sb)
	return sb
}

// BindSectionData binds rows to a template section ID.
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

func (sb *SheetBuilder) Build() *DataExporter {
	return sb.exporter
}

// =============================================================================
// Output
// =============================================================================

// BuildExcel renders the workbook in memory. The caller closes the file.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	f := excelize.NewFile()
	first := true
	addSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		if idx, _ := f.GetSheetIndex(name); idx == -1 {
			_, err := f.NewSheet(name)
			return err
		}
		return nil
	}

	for _, sb := range e.sheets {
		if err := addSheet(sb.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := renderSections(f, sb.name, sb.sections); err != nil {
			f.Close()
			return nil, err
		}
	}

	if e.template != nil {
		for _, st := range e.template.Sheets {
			if err := addSheet(st.Name); err != nil {
				f.Close()
				return nil, err
			}
			sections := make([]*SectionConfig, len(st.Sections))
			for i := range st.Sections {
				sec := st.Sections[i]
				if data, ok := e.data[sec.ID]; ok {
					sec.Data = data
				}
				sections[i] = &sec
			}
			if err := renderSections(f, st.Name, sections); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

// ToBytes exports the workbook to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.ToWriter(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter writes the workbook to w.
func (e *DataExporter) ToWriter(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// =============================================================================
// Rendering Logic
// =============================================================================

func renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	nextRow := 1
	nextCol := 1
	sectionTop := 1

	for _, sec := range sections {
		startCol, startRow := 1, nextRow
		if sec.Direction == SectionDirectionHorizontal {
			startCol, startRow = nextCol, sectionTop
		} else {
			sectionTop = nextRow
		}
		row := startRow

		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(startCol, row)
			if err := f.SetCellValue(sheet, cell, sec.Title); err != nil {
				return err
			}
			end := cell
			if len(sec.Columns) > 1 {
				end, _ = excelize.CoordinatesToCellName(startCol+len(sec.Columns)-1, row)
				if err := f.MergeCell(sheet, cell, end); err != nil {
					return err
				}
			}
			if err := applyStyle(f, sheet, cell, end, sec.TitleStyle); err != nil {
				return err
			}
			row++
		}

		if sec.ShowHeader {
			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(startCol+i, row)
				if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
					return err
				}
				if err := applyStyle(f, sheet, cell, cell, sec.HeaderStyle); err != nil {
					return err
				}
			}
			row++
		}

		for i, col := range sec.Columns {
			if col.Width > 0 {
				name, _ := excelize.ColumnNumberToName(startCol + i)
				if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
					return err
				}
			}
		}

		items := reflect.ValueOf(sec.Data)
		for items.Kind() == reflect.Ptr {
			items = items.Elem()
		}
		if items.Kind() == reflect.Slice {
			for i := 0; i < items.Len(); i++ {
				for j, col := range sec.Columns {
					cell, _ := excelize.CoordinatesToCellName(startCol+j, row)
					if err := f.SetCellValue(sheet, cell, extractValue(items.Index(i), col.FieldName)); err != nil {
						return err
					}
				}
				row++
			}
		}

		// one blank row between stacked sections
		if row+1 > nextRow {
			nextRow = row + 1
		}
		nextCol = startCol + len(sec.Columns) + 1
	}
	return nil
}

// extractValue reads fieldName from a struct or map item. Nil pointers render
// as empty cells.
func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}

	var v reflect.Value
	switch item.Kind() {
	case reflect.Struct:
		v = item.FieldByName(fieldName)
	case reflect.Map:
		if item.Type().Key().Kind() != reflect.String {
			return ""
		}
		v = item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key()))
	}
	if !v.IsValid() {
		return ""
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return v.Interface()
}

func applyStyle(f *excelize.File, sheet, from, to string, tmpl *StyleTemplate) error {
	if tmpl == nil {
		return nil
	}
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, id)
}
