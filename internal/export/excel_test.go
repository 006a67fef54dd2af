package export_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"freightiq/internal/domain"
	"freightiq/internal/export"
)

func pendingSuggestion(t *testing.T) domain.RuleSuggestion {
	t.Helper()
	impact, err := json.Marshal(domain.ExpectedImpact{
		AffectedDocuments:    12,
		EstimatedImprovement: 20,
		PredictedAccuracy:    100,
	})
	require.NoError(t, err)

	current := `\d{8}`
	return domain.RuleSuggestion{
		ID:               uuid.New(),
		ForwarderID:      uuid.New(),
		FieldName:        "invoice_number",
		ExtractionType:   domain.ExtractionTypeKeyword,
		CurrentPattern:   &current,
		SuggestedPattern: `{"action":"remove_separator","value":"-"}`,
		Confidence:       0.9,
		Priority:         60,
		CorrectionCount:  3,
		ExpectedImpact:   impact,
		SampleCases:      json.RawMessage("[]"),
		Status:           domain.SuggestionPending,
		CreatedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestReviewQueueWorkbook(t *testing.T) {
	first := pendingSuggestion(t)
	second := pendingSuggestion(t)
	second.CurrentPattern = nil
	second.ExpectedImpact = json.RawMessage("null")

	buf, err := export.ReviewQueueWorkbook([]domain.RuleSuggestion{first, second})
	require.NoError(t, err)
	require.NotNil(t, buf)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Review Queue")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Created At", rows[0][12])

	assert.Equal(t, first.ID.String(), rows[1][0])
	assert.Equal(t, "invoice_number", rows[1][2])
	assert.Equal(t, "KEYWORD", rows[1][3])
	assert.Equal(t, `\d{8}`, rows[1][5])
	assert.Equal(t, "12", rows[1][10])
	assert.Equal(t, "PENDING", rows[1][11])
	assert.Equal(t, "2026-08-01T12:00:00Z", rows[1][12])

	// Missing current pattern and impact render as blanks.
	assert.Equal(t, second.ID.String(), rows[2][0])
}

func TestReviewQueueWorkbookEmpty(t *testing.T) {
	buf, err := export.ReviewQueueWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Review Queue")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
