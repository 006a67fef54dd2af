package inference

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"freightiq/internal/domain"
)

// Template match threshold and skeleton coverage threshold.
const (
	templateMatchRate    = 0.8
	skeletonCoverageRate = 0.7
	// Derived regexes are discounted against curated templates.
	skeletonDiscount = 0.8
	// Values shorter than this produce skeletons too ambiguous to trust.
	minSkeletonValueLen = 4
)

// shapeTemplate is one curated value-shape pattern tested in priority order.
// The probe is the unanchored form used to test what the rule would extract
// from the uncorrected value at apply time.
type shapeTemplate struct {
	name    string
	pattern string
	re      *regexp.Regexp
	probe   *regexp.Regexp
}

func mustTemplate(name, pattern, probe string) shapeTemplate {
	return shapeTemplate{
		name:    name,
		pattern: pattern,
		re:      regexp.MustCompile(pattern),
		probe:   regexp.MustCompile(probe),
	}
}

// shapeTemplates lists known field shapes, most specific first.
var shapeTemplates = []shapeTemplate{
	mustTemplate("iso_date", `^\d{4}-\d{2}-\d{2}$`, `\d{4}-\d{2}-\d{2}`),
	mustTemplate("slash_date", `^\d{2}/\d{2}/\d{4}$`, `\d{2}/\d{2}/\d{4}`),
	mustTemplate("currency_amount", `^\d{1,3}(,\d{3})*\.\d{2}$|^\d+\.\d{2}$`, `\d{1,3}(,\d{3})*\.\d{2}|\d+\.\d{2}`),
	mustTemplate("prefixed_code", `^[A-Z]{2,5}-?\d{4,}$`, `[A-Z]{2,5}-?\d{4,}`),
	mustTemplate("numeric_code", `^\d{4,}$`, `\d{4,}`),
	mustTemplate("alnum_code", `^[A-Z0-9]{6,}$`, `[A-Z0-9]{6,}`),
}

// structuralStrategy infers a REGEX rule from the shape of corrected values.
type structuralStrategy struct{}

// NewStructuralStrategy returns the structural/regex inference strategy.
func NewStructuralStrategy() Strategy {
	return structuralStrategy{}
}

func (structuralStrategy) Name() string { return "structural" }

func (structuralStrategy) Infer(samples []Sample) *domain.InferredRule {
	if len(samples) == 0 {
		return nil
	}

	// Curated templates first: accept the first one supported by enough
	// samples. A sample supports a template only when the corrected value
	// matches it AND probing the original would not re-extract a different
	// value, so templates that merely restate the wrong extraction lose.
	for _, tpl := range shapeTemplates {
		supported := 0
		for _, s := range samples {
			if !tpl.re.MatchString(s.CorrectedValue) {
				continue
			}
			if found := tpl.probe.FindString(s.OriginalValue); found != "" && found != s.CorrectedValue {
				continue
			}
			supported++
		}
		rate := float64(supported) / float64(len(samples))
		if rate >= templateMatchRate {
			return &domain.InferredRule{
				Type:       domain.ExtractionTypeRegex,
				Pattern:    tpl.pattern,
				Confidence: rate,
				Explanation: fmt.Sprintf("corrected values match the %s shape (%d of %d samples)",
					tpl.name, supported, len(samples)),
			}
		}
	}

	// Generic fallback: derive a regex from the dominant character-class skeleton.
	return inferFromSkeleton(samples)
}

// run is one homogeneous character run in a value skeleton.
type run struct {
	class  byte // 'A' letters, '9' digits, or the literal character
	length int
}

func skeletonOf(value string) []run {
	var runs []run
	for _, r := range value {
		var class byte
		switch {
		case unicode.IsLetter(r):
			class = 'A'
		case unicode.IsDigit(r):
			class = '9'
		default:
			class = byte(r)
		}
		if n := len(runs); n > 0 && runs[n-1].class == class {
			runs[n-1].length++
		} else {
			runs = append(runs, run{class: class, length: 1})
		}
	}
	return runs
}

func skeletonKey(runs []run) string {
	var b strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&b, "%c%d", r.class, r.length)
	}
	return b.String()
}

// regexFromSkeleton synthesizes an anchored regex from run classes and lengths.
func regexFromSkeleton(runs []run) string {
	return "^" + skeletonBody(runs) + "$"
}

func skeletonBody(runs []run) string {
	var b strings.Builder
	for _, r := range runs {
		switch r.class {
		case 'A':
			fmt.Fprintf(&b, `[A-Za-z]{%d}`, r.length)
		case '9':
			fmt.Fprintf(&b, `\d{%d}`, r.length)
		default:
			quoted := regexp.QuoteMeta(string(r.class))
			if r.length == 1 {
				b.WriteString(quoted)
			} else {
				fmt.Fprintf(&b, `%s{%d}`, quoted, r.length)
			}
		}
	}
	return b.String()
}

func inferFromSkeleton(samples []Sample) *domain.InferredRule {
	counts := make(map[string]int)
	shapes := make(map[string][]run)
	for _, s := range samples {
		if len(s.CorrectedValue) < minSkeletonValueLen {
			continue
		}
		runs := skeletonOf(s.CorrectedValue)
		key := skeletonKey(runs)
		counts[key]++
		shapes[key] = runs
	}

	var bestKey string
	var bestCount int
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < bestKey) {
			bestKey = key
			bestCount = count
		}
	}
	if bestCount == 0 {
		return nil
	}

	// Originals that already contain a different value of the dominant shape
	// disqualify their sample. Samples outside the dominant skeleton are
	// uncovered regardless, so only covered samples are checked here.
	probe := regexp.MustCompile(skeletonBody(shapes[bestKey]))
	wrong := 0
	for _, s := range samples {
		if len(s.CorrectedValue) < minSkeletonValueLen || skeletonKey(skeletonOf(s.CorrectedValue)) != bestKey {
			continue
		}
		if found := probe.FindString(s.OriginalValue); found != "" && found != s.CorrectedValue {
			wrong++
		}
	}
	rate := float64(bestCount-wrong) / float64(len(samples))
	if rate < skeletonCoverageRate {
		return nil
	}

	pattern := regexFromSkeleton(shapes[bestKey])
	return &domain.InferredRule{
		Type:       domain.ExtractionTypeRegex,
		Pattern:    pattern,
		Confidence: rate * skeletonDiscount,
		Explanation: fmt.Sprintf("derived from the dominant value skeleton covering %d of %d samples",
			bestCount, len(samples)),
	}
}
