// Package normalize canonicalizes extracted field values so that corrections
// and simulated rule outputs compare on substance rather than formatting.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), "2006-01-02"},
	{regexp.MustCompile(`\d{2}/\d{2}/\d{4}`), "01/02/2006"},
	{regexp.MustCompile(`\d{2}-\d{2}-\d{4}`), "01-02-2006"},
	{regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`), "02.01.2006"},
}

var textualDate = regexp.MustCompile(`(?i)(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{4})`)

var monthNumbers = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

var (
	nonAmountChars = regexp.MustCompile(`[^\d.,\-]`)
	weightUnits    = regexp.MustCompile(`(?i)(kgs|kg|lbs|lb|grams|gram|g)\.?`)
	numberRun      = regexp.MustCompile(`[\d.,]+`)
)

// amountFieldKeywords marks field names whose values are monetary.
var amountFieldKeywords = []string{"amount", "charge", "fee", "cost", "total", "price", "duty", "tax"}

// Value normalizes a raw value according to the field it was extracted for.
// Unknown field kinds pass through with whitespace trimmed.
func Value(value, fieldName string) string {
	if value == "" {
		return value
	}
	value = strings.TrimSpace(value)
	lower := strings.ToLower(fieldName)

	if strings.Contains(lower, "date") {
		if d, ok := Date(value); ok {
			return d
		}
	}
	for _, kw := range amountFieldKeywords {
		if strings.Contains(lower, kw) {
			if a, ok := Amount(value); ok {
				return a
			}
			break
		}
	}
	if strings.Contains(lower, "weight") {
		if w, ok := Weight(value); ok {
			return w
		}
	}
	return value
}

// Date normalizes a date string to YYYY-MM-DD.
func Date(value string) (string, bool) {
	for _, p := range datePatterns {
		if m := p.re.FindString(value); m != "" {
			if t, err := time.Parse(p.layout, m); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
	}
	if g := textualDate.FindStringSubmatch(value); g != nil {
		day := g[1]
		if len(day) == 1 {
			day = "0" + day
		}
		month, ok := monthNumbers[strings.ToLower(g[2])]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s-%s-%s", g[3], month, day), true
	}
	return "", false
}

// Amount normalizes a monetary value to a plain two-decimal number,
// disambiguating comma use as thousand separator versus decimal point.
func Amount(value string) (string, bool) {
	cleaned := nonAmountChars.ReplaceAllString(value, "")
	if cleaned == "" {
		return "", false
	}
	switch {
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case strings.Contains(cleaned, ","):
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%.2f", amount), true
}

// Weight strips weight units and normalizes the remaining number.
func Weight(value string) (string, bool) {
	cleaned := strings.TrimSpace(weightUnits.ReplaceAllString(value, ""))
	if m := numberRun.FindString(cleaned); m != "" {
		return Amount(m)
	}
	return "", false
}
