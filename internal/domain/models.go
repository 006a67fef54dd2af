package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StringList is a []string persisted as a JSONB column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("StringList.Scan: unsupported type %T", src)
	}
}

// User represents a platform user. Users with the admin or reviewer role hold
// rule-approval authority.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Forwarder is a logistics vendor whose invoices follow a distinct layout.
// Extraction rules and correction patterns are scoped per forwarder+field.
type Forwarder struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Code        string     `db:"code" json:"code"`
	Name        string     `db:"name" json:"name"`
	DisplayName string     `db:"display_name" json:"display_name"`
	Names       StringList `db:"names" json:"names"`
	Keywords    StringList `db:"keywords" json:"keywords"`
	Formats     StringList `db:"formats" json:"formats"`
	LogoText    StringList `db:"logo_text" json:"logo_text"`
	Priority    int        `db:"priority" json:"priority"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// BoundingBox is the layout position of an extracted field on the page.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FieldContext carries optional layout metadata attached to a correction.
type FieldContext struct {
	Page        int          `json:"page,omitempty"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
	NearbyText  string       `json:"nearby_text,omitempty"`
}

// Correction is one human edit overriding an automatically extracted value.
// Corrections are append-only; rows are never mutated after creation.
type Correction struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	ForwarderID    uuid.UUID       `db:"forwarder_id" json:"forwarder_id"`
	DocumentID     uuid.UUID       `db:"document_id" json:"document_id"`
	FieldName      string          `db:"field_name" json:"field_name"`
	OriginalValue  string          `db:"original_value" json:"original_value"`
	CorrectedValue string          `db:"corrected_value" json:"corrected_value"`
	Context        json.RawMessage `db:"context" json:"context,omitempty"`
	PatternID      *uuid.UUID      `db:"pattern_id" json:"pattern_id,omitempty"`
	CreatedBy      uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// FieldContext decodes the correction's context payload, or returns nil when
// no layout metadata was recorded.
func (c *Correction) FieldContext() *FieldContext {
	if len(c.Context) == 0 {
		return nil
	}
	var fc FieldContext
	if err := json.Unmarshal(c.Context, &fc); err != nil {
		return nil
	}
	return &fc
}

// CorrectionPattern identifies a recurring correction shape for a
// (forwarder, field) pair.
type CorrectionPattern struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	ForwarderID     uuid.UUID     `db:"forwarder_id" json:"forwarder_id"`
	FieldName       string        `db:"field_name" json:"field_name"`
	PatternKey      string        `db:"pattern_key" json:"pattern_key"`
	ValueShape      string        `db:"value_shape" json:"value_shape"`
	OccurrenceCount int           `db:"occurrence_count" json:"occurrence_count"`
	Status          PatternStatus `db:"status" json:"status"`
	FirstSeenAt     time.Time     `db:"first_seen_at" json:"first_seen_at"`
	LastSeenAt      time.Time     `db:"last_seen_at" json:"last_seen_at"`
}

// TransformStep is one action in a KEYWORD rule's ordered transform list.
type TransformStep struct {
	Action string `json:"action"` // remove_prefix, remove_suffix, remove_separator, extract
	Value  string `json:"value,omitempty"`
	// Pattern holds a regex for extract steps.
	Pattern string `json:"pattern,omitempty"`
}

// InferredRule is the transient output of one inference run. It is never
// persisted directly; suggestions wrap its pattern and confidence.
type InferredRule struct {
	Type         ExtractionType  `json:"type"`
	Pattern      string          `json:"pattern"`
	Confidence   float64         `json:"confidence"`
	Explanation  string          `json:"explanation"`
	Transforms   []TransformStep `json:"transforms,omitempty"`
	Alternatives []InferredRule  `json:"alternatives,omitempty"`
}

// RiskItem is one enumerated risk in an expected impact report.
type RiskItem struct {
	Type          RiskType     `json:"type"`
	Severity      RiskSeverity `json:"severity"`
	Description   string       `json:"description"`
	AffectedCount int          `json:"affected_count,omitempty"`
}

// SimulationSummary counts simulation outcomes over the historical window.
type SimulationSummary struct {
	Tested   int `json:"tested"`
	Matched  int `json:"matched"`
	Improved int `json:"improved"`
	Degraded int `json:"degraded"`
}

// ExpectedImpact quantifies the estimated effect of adopting an inferred rule.
type ExpectedImpact struct {
	AffectedDocuments    int               `json:"affected_documents"`
	EstimatedImprovement float64           `json:"estimated_improvement"`
	CurrentAccuracy      *float64          `json:"current_accuracy,omitempty"`
	PredictedAccuracy    float64           `json:"predicted_accuracy"`
	PotentialRisks       []RiskItem        `json:"potential_risks"`
	SimulationSummary    SimulationSummary `json:"simulation_summary"`
}

// SampleCase is one representative original/corrected pair stored with a
// suggestion for reviewer context.
type SampleCase struct {
	OriginalValue  string `json:"original_value"`
	CorrectedValue string `json:"corrected_value"`
}

// RuleSuggestion is the durable artifact of the learning pipeline: a proposed
// replacement extraction rule awaiting human review.
type RuleSuggestion struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	ForwarderID      uuid.UUID        `db:"forwarder_id" json:"forwarder_id"`
	FieldName        string           `db:"field_name" json:"field_name"`
	ExtractionType   ExtractionType   `db:"extraction_type" json:"extraction_type"`
	CurrentPattern   *string          `db:"current_pattern" json:"current_pattern,omitempty"`
	SuggestedPattern string           `db:"suggested_pattern" json:"suggested_pattern"`
	Confidence       float64          `db:"confidence" json:"confidence"`
	Explanation      string           `db:"explanation" json:"explanation"`
	Source           SuggestionSource `db:"source" json:"source"`
	CorrectionCount  int              `db:"correction_count" json:"correction_count"`
	ExpectedImpact   json.RawMessage  `db:"expected_impact" json:"expected_impact"`
	SampleCases      json.RawMessage  `db:"sample_cases" json:"sample_cases"`
	Status           SuggestionStatus `db:"status" json:"status"`
	Priority         float64          `db:"priority" json:"priority"`
	PatternID        *uuid.UUID       `db:"pattern_id" json:"pattern_id,omitempty"`
	ReviewedBy       *uuid.UUID       `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewReason     string           `db:"review_reason" json:"review_reason,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// ExtractionRule is a production extraction rule keyed by (forwarder, field).
// The rule store is shared infrastructure; this service only upserts rules
// when a suggestion is implemented.
type ExtractionRule struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	ForwarderID uuid.UUID      `db:"forwarder_id" json:"forwarder_id"`
	FieldName   string         `db:"field_name" json:"field_name"`
	RuleType    ExtractionType `db:"rule_type" json:"rule_type"`
	Pattern     string         `db:"pattern" json:"pattern"`
	Priority    int            `db:"priority" json:"priority"`
	Version     int            `db:"version" json:"version"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// FieldAccuracy is the aggregated historical accuracy for a (forwarder, field)
// pair, refreshed by a separate aggregation job.
type FieldAccuracy struct {
	ForwarderID uuid.UUID `db:"forwarder_id" json:"forwarder_id"`
	FieldName   string    `db:"field_name" json:"field_name"`
	Accuracy    float64   `db:"accuracy" json:"accuracy"`
	SampleSize  int       `db:"sample_size" json:"sample_size"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Notification is the payload handed to the notification subsystem.
type Notification struct {
	Title           string `json:"title"`
	Message         string `json:"message"`
	ActionReference string `json:"action_reference"`
	Priority        string `json:"priority"`
}
