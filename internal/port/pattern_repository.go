package port

import (
	"context"

	"github.com/google/uuid"

	"freightiq/internal/domain"
)

// PatternRepository persists correction patterns.
type PatternRepository interface {
	// RecordOccurrence upserts the pattern row for the given key, atomically
	// incrementing its occurrence count and promoting OBSERVED to CANDIDATE
	// when the count first reaches the candidate threshold. It returns the
	// row as it stands after the increment.
	RecordOccurrence(ctx context.Context, p *domain.CorrectionPattern, candidateThreshold int) (*domain.CorrectionPattern, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CorrectionPattern, error)
	GetByKey(ctx context.Context, patternKey string) (*domain.CorrectionPattern, error)
	// ListCandidates returns CANDIDATE patterns that have no suggestion yet,
	// ordered by occurrence count descending, capped at limit.
	ListCandidates(ctx context.Context, limit int) ([]domain.CorrectionPattern, error)
	// SetStatus transitions a pattern between statuses. It fails with
	// ErrPatternNotFound when the row is not currently in the from status,
	// so the transition is race-free.
	SetStatus(ctx context.Context, id uuid.UUID, from, to domain.PatternStatus) error
}
