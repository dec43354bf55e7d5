package loaders

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// XlsxExtractor implements the Extractor interface for Excel (.xlsx) files,
// converting each sheet to a markdown table.
type XlsxExtractor struct{}

// NewXlsxExtractor creates a new XlsxExtractor.
func NewXlsxExtractor() *XlsxExtractor {
	return &XlsxExtractor{}
}

// Extract reads the workbook at path and returns its sheets rendered as
// markdown tables, one section per sheet.
func (e *XlsxExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening workbook %s: %v", schema.ErrExtraction, path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			// Skip sheets whose rows can't be read.
			continue
		}
		if len(rows) == 0 {
			continue
		}

		sb.WriteString("## " + sheetName + "\n\n")
		sb.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
		sb.WriteString("|" + strings.Repeat(" --- |", len(rows[0])) + "\n")
		for _, row := range rows[1:] {
			sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// compile-time check to ensure XlsxExtractor implements the Extractor interface
var _ interfaces.Extractor = (*XlsxExtractor)(nil)
