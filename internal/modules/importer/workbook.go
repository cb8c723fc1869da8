package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Row is one data row keyed by header text. Number is the 1-based row in
// the sheet, the header being row 1.
type Row struct {
	Number int
	Cells  map[string]string
}

// Get returns the trimmed cell under header, or "".
func (r Row) Get(header string) string {
	return strings.TrimSpace(r.Cells[header])
}

type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the header row declares name.
func (s *Sheet) HasColumn(name string) bool {
	for _, h := range s.Headers {
		if h == name {
			return true
		}
	}
	return false
}

type Workbook struct {
	Sheets map[string]*Sheet
}

// Sheet returns the named sheet or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	if w == nil || w.Sheets == nil {
		return nil
	}
	return w.Sheets[name]
}

// ReadWorkbook loads every sheet of an xlsx stream. Blank rows are dropped;
// cells past the last header are ignored.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	wb := &Workbook{Sheets: map[string]*Sheet{}}
	for _, name := range file.GetSheetList() {
		rows, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets[name] = parseSheet(name, rows)
	}
	return wb, nil
}

func parseSheet(name string, rows [][]string) *Sheet {
	sheet := &Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}
	for _, h := range rows[0] {
		sheet.Headers = append(sheet.Headers, strings.TrimSpace(h))
	}
	for i, raw := range rows[1:] {
		cells := make(map[string]string, len(sheet.Headers))
		blank := true
		for col, header := range sheet.Headers {
			if header == "" {
				continue
			}
			v := ""
			if col < len(raw) {
				v = strings.TrimSpace(raw[col])
			}
			if v != "" {
				blank = false
			}
			cells[header] = v
		}
		if blank {
			continue
		}
		sheet.Rows = append(sheet.Rows, Row{Number: i + 2, Cells: cells})
	}
	return sheet
}

// clockCell canonicalizes a time cell to HH:MM. Unformatted time cells come
// through as a fraction of a day. Anything unrecognized is returned as-is.
func clockCell(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.Split(v, ":")
	if len(parts) == 2 || len(parts) == 3 {
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		if errH == nil && errM == nil && h >= 0 && h < 24 && m >= 0 && m < 60 {
			return fmt.Sprintf("%02d:%02d", h, m)
		}
		return v
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f < 1 {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t.Round(time.Minute).Format("15:04")
		}
	}
	return v
}

// splitList splits a comma separated cell, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// dayNumber accepts "3", "3.0" or " 3 ". Fractions and text are rejected.
func dayNumber(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
