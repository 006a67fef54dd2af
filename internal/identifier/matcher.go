// Package identifier matches OCR text against forwarder recognition patterns
// to decide which vendor's layout a document follows.
package identifier

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"freightiq/internal/domain"
)

// Match scoring: one name hit is worth the most, keyword hits accumulate up
// to a cap, a tracking-number format hit and logo text each score once.
const (
	scoreNameMatch     = 40.0
	scoreKeywordMatch  = 15.0
	scoreKeywordCap    = 30.0
	scoreFormatMatch   = 20.0
	scoreLogoTextMatch = 10.0
)

// Identification thresholds.
const (
	ThresholdAutoIdentify = 80.0
	ThresholdNeedsReview  = 50.0
)

// Result is the outcome of identifying a document's forwarder.
type Result struct {
	ForwarderID     *uuid.UUID `json:"forwarder_id"`
	ForwarderCode   string     `json:"forwarder_code,omitempty"`
	ForwarderName   string     `json:"forwarder_name,omitempty"`
	Confidence      float64    `json:"confidence"`
	MatchMethod     string     `json:"match_method"`
	MatchedPatterns []string   `json:"matched_patterns"`
	IsIdentified    bool       `json:"is_identified"`
}

// Matcher scores OCR text against a fixed set of forwarder patterns.
type Matcher struct {
	forwarders []domain.Forwarder
}

// NewMatcher creates a Matcher over the given forwarders, highest priority
// checked first.
func NewMatcher(forwarders []domain.Forwarder) *Matcher {
	sorted := make([]domain.Forwarder, len(forwarders))
	copy(sorted, forwarders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &Matcher{forwarders: sorted}
}

// Identify returns the best-scoring forwarder for the text, or an
// unidentified result when nothing reaches the review threshold.
func (m *Matcher) Identify(text string) Result {
	if strings.TrimSpace(text) == "" {
		return unidentified()
	}
	normalized := normalizeText(text)

	best := unidentified()
	for i := range m.forwarders {
		f := &m.forwarders[i]
		if !f.IsActive {
			continue
		}
		if r := m.matchOne(f, normalized, text); r.Confidence > best.Confidence {
			best = r
		}
	}

	if best.Confidence < ThresholdNeedsReview {
		return unidentified()
	}
	return best
}

func (m *Matcher) matchOne(f *domain.Forwarder, normalized, original string) Result {
	var score float64
	var matched []string
	method := "none"

	for _, name := range f.Names {
		if strings.Contains(normalized, strings.ToLower(name)) {
			if method == "none" {
				score += scoreNameMatch
				method = "name"
			}
			matched = append(matched, "name:"+name)
		}
	}

	var keywordScore float64
	for _, kw := range f.Keywords {
		if strings.Contains(normalized, strings.ToLower(kw)) {
			add := scoreKeywordMatch
			if keywordScore+add > scoreKeywordCap {
				add = scoreKeywordCap - keywordScore
			}
			if add > 0 {
				keywordScore += add
				score += add
				if method == "none" {
					method = "keyword"
				}
			}
			matched = append(matched, "keyword:"+kw)
		}
	}

	for _, format := range f.Formats {
		re, err := regexp.Compile("(?i)" + format)
		if err != nil {
			log.Printf("identifier: invalid format pattern %q for forwarder %s: %v", format, f.Code, err)
			continue
		}
		if re.MatchString(original) {
			score += scoreFormatMatch
			if method == "none" {
				method = "format"
			}
			matched = append(matched, "format:"+format)
			break
		}
	}

	for _, logo := range f.LogoText {
		if strings.Contains(normalized, strings.ToLower(logo)) {
			score += scoreLogoTextMatch
			if method == "none" {
				method = "logo_text"
			}
			matched = append(matched, "logo:"+logo)
			break
		}
	}

	if score > 100 {
		score = 100
	}
	id := f.ID
	return Result{
		ForwarderID:     &id,
		ForwarderCode:   f.Code,
		ForwarderName:   f.DisplayName,
		Confidence:      score,
		MatchMethod:     method,
		MatchedPatterns: matched,
		IsIdentified:    score >= ThresholdAutoIdentify,
	}
}

func normalizeText(text string) string {
	normalized := strings.ToLower(text)
	return strings.Join(strings.Fields(normalized), " ")
}

func unidentified() Result {
	return Result{MatchMethod: "none", MatchedPatterns: []string{}}
}
