// Package agent implements the conversational workflow: intent
// classification, entity extraction, per-session state, action dispatch
// and response rendering.
package agent

import (
	"regexp"
	"strconv"
	"strings"
)

// Entity keys produced by ExtractEntities.
const (
	EntityAmount   = "amount"
	EntityDate     = "date"
	EntityCategory = "category"
	EntityBillName = "bill_name"
)

// amountPattern matches an optional currency marker followed by digits with
// an optional two-decimal fraction. Only the first match is used; multiple
// amounts in one message are not disambiguated.
var amountPattern = regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`)

// datePatterns are tried in order against the lowercased text; the first
// matching pattern wins. Day-of-month validity is not checked.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),
	regexp.MustCompile(`(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}`),
}

// categoryRules maps trigger words to canonical category names. Rules are
// checked in order and the first trigger found as a substring wins, so
// "gas" resolves to Utilities even though it also appears under
// Transportation.
var categoryRules = []struct {
	name     string
	triggers []string
}{
	{"Utilities", []string{"electric", "electricity", "gas", "water", "sewer", "utilities"}},
	{"Subscriptions", []string{"netflix", "spotify", "subscription", "streaming", "amazon prime"}},
	{"Maintenance", []string{"maintenance", "repair", "hvac", "plumbing", "electrician"}},
	{"Insurance", []string{"insurance", "policy", "coverage"}},
	{"Rent", []string{"rent", "mortgage", "housing"}},
	{"Internet", []string{"internet", "cable", "wifi", "broadband"}},
	{"Transportation", []string{"car", "auto", "fuel", "parking", "uber", "lyft"}},
}

// ExtractEntities pulls structured values (amount, date, category) out of
// free text with regex and keyword lookups. It is deterministic, makes no
// external calls, and never fails: unmatchable text yields an empty map.
func ExtractEntities(text string) map[string]any {
	entities := map[string]any{}
	if text == "" {
		return entities
	}

	if m := amountPattern.FindStringSubmatch(text); m != nil {
		if amount, err := strconv.ParseFloat(m[1], 64); err == nil {
			entities[EntityAmount] = amount
		}
	}

	lower := strings.ToLower(text)

	for _, p := range datePatterns {
		if m := p.FindString(lower); m != "" {
			entities[EntityDate] = m
			break
		}
	}

	for _, rule := range categoryRules {
		found := false
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				entities[EntityCategory] = rule.name
				found = true
				break
			}
		}
		if found {
			break
		}
	}

	return entities
}
