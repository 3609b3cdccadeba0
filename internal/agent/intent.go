package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/homeledger/homeledger/internal/models"
)

// InferenceModel is the language-understanding boundary: one prompt in,
// free-form text out. Implementations may block for meaningful latency.
type InferenceModel interface {
	Infer(ctx context.Context, prompt string) (string, error)
}

// classificationPrompt asks the model to name an intent. The reply is
// free-form text; DeriveIntent turns it into a label.
const classificationPrompt = `You are an expert at understanding user intents for a home expense management system.

Analyze the user's message and classify it into one of these intents:
- add_bill: User wants to add a new bill or expense
- query_expenses: User wants to search or list existing bills/expenses
- get_summary: User wants a summary of their expenses
- list_upcoming: User wants to see upcoming bills
- get_statistics: User wants statistics or analytics
- general_question: General questions about expenses
- greeting: User is greeting or saying hello

User message: %s

Respond with the intent name and a short justification.`

// intentRules derive a label from the model's free-form reply. Rules are
// evaluated in order and the first match wins; the order is a behavioral
// contract, changing it changes classification results.
var intentRules = []struct {
	intent   models.Intent
	keywords []string
}{
	{models.IntentAddBill, []string{"add", "create", "new bill"}},
	{models.IntentQueryExpenses, []string{"search", "find", "show", "list bills"}},
	{models.IntentGetSummary, []string{"summary", "total", "overview"}},
	{models.IntentListUpcoming, []string{"upcoming", "due", "next"}},
	{models.IntentGetStatistics, []string{"statistics", "stats", "analytics"}},
	{models.IntentGreeting, []string{"hello", "hi", "hey"}},
}

// DeriveIntent maps free-form model output to an intent using the ordered
// keyword rules. Unmatched text falls back to general_question.
func DeriveIntent(modelOutput string) models.Intent {
	lower := strings.ToLower(modelOutput)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return models.IntentGeneralQuestion
}

// Classifier resolves a user message to an intent plus extracted entities.
type Classifier struct {
	model  InferenceModel
	logger *slog.Logger
}

// NewClassifier creates a classifier over the given inference model.
func NewClassifier(model InferenceModel, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{model: model, logger: logger}
}

// fallbackClassification is returned when the model call fails for any
// reason. A classification failure must never abort a conversation turn.
func fallbackClassification() models.IntentClassification {
	return models.IntentClassification{
		Intent:     models.IntentGeneralQuestion,
		Confidence: 0.5,
		Entities:   map[string]any{},
	}
}

// Classify sends the message to the model once and derives a label from
// its reply. Locally extracted entities override anything else, keyed by
// field name. Never returns an error: failures degrade to the fallback.
func (c *Classifier) Classify(ctx context.Context, message string) models.IntentClassification {
	reply, err := c.model.Infer(ctx, fmt.Sprintf(classificationPrompt, message))
	if err != nil {
		c.logger.Warn("intent classification failed, using fallback", "error", err)
		return fallbackClassification()
	}

	entities := map[string]any{}
	for k, v := range ExtractEntities(message) {
		entities[k] = v
	}

	return models.IntentClassification{
		Intent:     DeriveIntent(reply),
		Confidence: 0.8,
		Entities:   entities,
	}
}
