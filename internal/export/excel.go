// Package export renders the suggestion review queue as an XLSX workbook for
// offline triage.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"freightiq/internal/domain"
)

const sheetName = "Review Queue"

var headers = []string{
	"ID", "Forwarder ID", "Field", "Type", "Suggested Pattern",
	"Current Pattern", "Confidence", "Priority", "Corrections",
	"Est. Improvement", "Affected Docs", "Status", "Created At",
}

// ReviewQueueWorkbook builds an XLSX workbook listing the given suggestions,
// one row each, ordered as provided.
func ReviewQueueWorkbook(suggestions []domain.RuleSuggestion) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
	}

	for i, s := range suggestions {
		row := []interface{}{
			s.ID.String(),
			s.ForwarderID.String(),
			s.FieldName,
			string(s.ExtractionType),
			s.SuggestedPattern,
			deref(s.CurrentPattern),
			s.Confidence,
			s.Priority,
			s.CorrectionCount,
			estimatedImprovement(s.ExpectedImpact),
			affectedDocuments(s.ExpectedImpact),
			string(s.Status),
			s.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func estimatedImprovement(raw json.RawMessage) interface{} {
	impact := decodeImpact(raw)
	if impact == nil {
		return ""
	}
	return impact.EstimatedImprovement
}

func affectedDocuments(raw json.RawMessage) interface{} {
	impact := decodeImpact(raw)
	if impact == nil {
		return ""
	}
	return impact.AffectedDocuments
}

func decodeImpact(raw json.RawMessage) *domain.ExpectedImpact {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var impact domain.ExpectedImpact
	if err := json.Unmarshal(raw, &impact); err != nil {
		return nil
	}
	return &impact
}
