package analytics

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"docmeta/internal/model"
)

const (
	sheetSummary    = "Summary"
	sheetCategories = "Categories"
	sheetTags       = "Tags"
	sheetTypes      = "Types"
	sheetTimeline   = "Timeline"
)

// WriteXLSX renders a snapshot as a workbook with one sheet per roll-up.
func WriteXLSX(snap model.AnalyticsSnapshot, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"Total documents", snap.TotalDocuments},
		{"Total size (bytes)", snap.TotalSize},
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return err
	}

	categories := [][]any{{"Category", "Count", "Percentage"}}
	for _, c := range snap.Categories {
		categories = append(categories, []any{string(c.Category), c.Count, c.Percentage})
	}

	tags := [][]any{{"Tag", "Count"}}
	for _, t := range snap.TopTags {
		tags = append(tags, []any{t.Tag, t.Count})
	}

	typeNames := make([]string, 0, len(snap.DocumentsByType))
	for name := range snap.DocumentsByType {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	types := [][]any{{"File type", "Count"}}
	for _, name := range typeNames {
		types = append(types, []any{name, snap.DocumentsByType[name]})
	}

	timeline := [][]any{{"Date", "Count"}}
	for _, p := range snap.Timeline {
		timeline = append(timeline, []any{p.Date, p.Count})
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{sheetCategories, categories},
		{sheetTags, tags},
		{sheetTypes, types},
		{sheetTimeline, timeline},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
