package domain

// UserRole defines the role hierarchy within the platform.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleReviewer UserRole = "reviewer"
	RoleMember   UserRole = "member"
)

// CanApproveRules reports whether the role carries rule-approval authority.
func (r UserRole) CanApproveRules() bool {
	return r == RoleAdmin || r == RoleReviewer
}

// ExtractionMethod is the technique used to obtain a field's raw value.
type ExtractionMethod string

const (
	MethodAzureField ExtractionMethod = "azure_field"
	MethodRegex      ExtractionMethod = "regex"
	MethodKeyword    ExtractionMethod = "keyword"
	MethodPosition   ExtractionMethod = "position"
	MethodDefault    ExtractionMethod = "default"
)

// ExtractionType classifies an extraction rule (inferred or stored).
type ExtractionType string

const (
	ExtractionTypeRegex    ExtractionType = "REGEX"
	ExtractionTypeKeyword  ExtractionType = "KEYWORD"
	ExtractionTypePosition ExtractionType = "POSITION"
	ExtractionTypeAIPrompt ExtractionType = "AI_PROMPT"
)

// PatternStatus is the lifecycle state of a correction pattern.
// Transitions are strictly forward: OBSERVED -> CANDIDATE -> SUGGESTED.
type PatternStatus string

const (
	PatternObserved  PatternStatus = "OBSERVED"
	PatternCandidate PatternStatus = "CANDIDATE"
	PatternSuggested PatternStatus = "SUGGESTED"
)

// SuggestionStatus is the lifecycle state of a rule suggestion.
type SuggestionStatus string

const (
	SuggestionPending     SuggestionStatus = "PENDING"
	SuggestionApproved    SuggestionStatus = "APPROVED"
	SuggestionRejected    SuggestionStatus = "REJECTED"
	SuggestionImplemented SuggestionStatus = "IMPLEMENTED"
)

// SuggestionAction is a reviewer action on a suggestion.
type SuggestionAction string

const (
	ActionApprove   SuggestionAction = "approve"
	ActionReject    SuggestionAction = "reject"
	ActionImplement SuggestionAction = "implement"
)

// suggestionTransitions is the single source of transition validity.
// Adding a state means touching this table, not scattered conditionals.
var suggestionTransitions = map[SuggestionAction]struct {
	From SuggestionStatus
	To   SuggestionStatus
}{
	ActionApprove:   {From: SuggestionPending, To: SuggestionApproved},
	ActionReject:    {From: SuggestionPending, To: SuggestionRejected},
	ActionImplement: {From: SuggestionApproved, To: SuggestionImplemented},
}

// NextSuggestionStatus returns the target status for an action applied to the
// given current status, or ErrInvalidStateTransition if the action is not
// legal from that status.
func NextSuggestionStatus(current SuggestionStatus, action SuggestionAction) (SuggestionStatus, error) {
	t, ok := suggestionTransitions[action]
	if !ok || t.From != current {
		return "", ErrInvalidStateTransition
	}
	return t.To, nil
}

// SuggestionSource identifies how a suggestion was created.
type SuggestionSource string

const (
	SourceManual       SuggestionSource = "MANUAL"
	SourceAutoLearning SuggestionSource = "AUTO_LEARNING"
	SourceImport       SuggestionSource = "IMPORT"
)

// ConfidenceLevel buckets a 0-100 confidence score.
type ConfidenceLevel string

const (
	LevelHigh   ConfidenceLevel = "high"
	LevelMedium ConfidenceLevel = "medium"
	LevelLow    ConfidenceLevel = "low"
)

// Recommendation is the routing decision derived from a document score.
type Recommendation string

const (
	RecommendAutoApprove Recommendation = "auto_approve"
	RecommendQuickReview Recommendation = "quick_review"
	RecommendFullReview  Recommendation = "full_review"
)

// RiskType classifies a simulated risk item.
type RiskType string

const (
	RiskFalsePositive RiskType = "false_positive"
	RiskFalseNegative RiskType = "false_negative"
	RiskFormatChange  RiskType = "format_change"
	RiskCoverageGap   RiskType = "coverage_gap"
)

// RiskSeverity grades a risk item.
type RiskSeverity string

const (
	SeverityLow    RiskSeverity = "low"
	SeverityMedium RiskSeverity = "medium"
	SeverityHigh   RiskSeverity = "high"
)
