package agent

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeledger/homeledger/internal/models"
)

func TestDeriveIntent(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   models.Intent
	}{
		{"add bill", "The user wants to add a bill", models.IntentAddBill},
		{"query", "This is a search over existing bills", models.IntentQueryExpenses},
		{"summary", "They want a summary of spending", models.IntentGetSummary},
		{"upcoming", "upcoming bills were requested", models.IntentListUpcoming},
		{"statistics", "statistics request", models.IntentGetStatistics},
		{"greeting", "The user said hello", models.IntentGreeting},
		{"unmatched", "no recognizable label here", models.IntentGeneralQuestion},
		{"empty", "", models.IntentGeneralQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveIntent(tt.output))
		})
	}
}

// Earlier rules win when a reply matches several rules. "add" outranks
// "due", so a reply mentioning both classifies as add_bill.
func TestDeriveIntentRuleOrder(t *testing.T) {
	assert.Equal(t, models.IntentAddBill, DeriveIntent("add a bill due next week"))
	assert.Equal(t, models.IntentQueryExpenses, DeriveIntent("show bills due soon"))
}

// Every label the rules can emit, plus the fallback, stays within the
// closed intent set.
func TestDeriveIntentStaysInSupportedSet(t *testing.T) {
	for _, output := range []string{
		"add", "search", "summary", "upcoming", "statistics", "hello", "???",
	} {
		assert.Contains(t, models.SupportedIntents, DeriveIntent(output), output)
	}
}

type stubModel struct {
	reply string
	err   error
	calls int
}

func (m *stubModel) Infer(ctx context.Context, prompt string) (string, error) {
	m.calls++
	return m.reply, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestClassify(t *testing.T) {
	model := &stubModel{reply: "intent: add_bill, the user wants to add an expense"}
	c := NewClassifier(model, testLogger())

	got := c.Classify(context.Background(), "Add electricity bill for $45.50")

	require.Equal(t, models.IntentAddBill, got.Intent)
	assert.Equal(t, 0.8, got.Confidence)
	assert.Equal(t, 45.50, got.Entities[EntityAmount])
	assert.Equal(t, "Utilities", got.Entities[EntityCategory])
	assert.Equal(t, 1, model.calls)
}

// Model failure degrades to general_question with empty entities, even
// when the message itself contains extractable values.
func TestClassifyFallbackOnModelError(t *testing.T) {
	model := &stubModel{err: errors.New("connection refused")}
	c := NewClassifier(model, testLogger())

	got := c.Classify(context.Background(), "Add electricity bill for $45.50")

	assert.Equal(t, models.IntentGeneralQuestion, got.Intent)
	assert.Equal(t, 0.5, got.Confidence)
	assert.Empty(t, got.Entities)
}
