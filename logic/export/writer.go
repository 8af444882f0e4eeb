package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"du-console/types"
)

// Format 导出格式
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", CSV:
		return CSV, nil
	case XLSX:
		return XLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Ext() string { return string(f) }

const utf8BOM = "\xEF\xBB\xBF"

// Write 按格式写出全部记录
func Write(w io.Writer, f Format, cols []Column, records []types.Record, resolve func(string) string) error {
	if f == XLSX {
		return WriteXLSX(w, cols, records, resolve)
	}
	return WriteCSV(w, cols, records, resolve)
}

// WriteCSV 写 UTF-8 BOM + 表头 + 数据；含逗号/引号/换行的值加双引号，内部引号加倍
func WriteCSV(w io.Writer, cols []Column, records []types.Record, resolve func(string) string) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows(cols, records, resolve)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

const sheetName = "export"

// WriteXLSX 表头加粗，其余与 CSV 相同
func WriteXLSX(w io.Writer, cols []Column, records []types.Record, resolve func(string) string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	for i, row := range rows(cols, records, resolve) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]interface{}, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	if len(cols) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return err
		}
	}
	return f.Write(w)
}
