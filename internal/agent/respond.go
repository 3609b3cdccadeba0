package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/homeledger/homeledger/internal/models"
)

// Fixed response strings.
const (
	greetingText = "Hello! I'm your home expense assistant. I can help you add bills, " +
		"track expenses, and answer questions about your spending. What would you like to do today?"

	defaultText = "I understand you have a question about your expenses. " +
		"Could you please be more specific about what you'd like to know?"

	apologyText = "I apologize, but I'm having trouble generating a response right now."
)

// queryResultLimit caps the itemized lines in a query_expenses reply.
// list_upcoming is deliberately uncapped.
const queryResultLimit = 5

// RenderTurn produces the reply for a completed turn. Error and
// clarification outcomes take precedence over the intent templates. This
// function always succeeds; it never inspects external state.
func RenderTurn(state *models.ConversationState) string {
	if !state.ActionSuccessful {
		msg := state.ErrorMessage
		if msg == "" {
			msg = "An error occurred"
		}
		return fmt.Sprintf("I apologize, but I encountered an error: %s", msg)
	}
	if state.NeedsClarification {
		return state.ClarificationQuestion
	}
	return renderIntent(state.CurrentIntent, state)
}

// renderIntent maps (intent, outcome fields) to the reply template.
func renderIntent(intent models.Intent, state *models.ConversationState) string {
	switch intent {
	case models.IntentAddBill:
		if len(state.QueryResults) > 0 {
			bill := state.QueryResults[0]
			return fmt.Sprintf("✅ Successfully added bill: %s for $%.2f due on %s",
				bill.Name, bill.Amount, formatDate(bill.DueDate))
		}
		return "❌ Failed to add the bill. Please try again."

	case models.IntentQueryExpenses:
		results := state.QueryResults
		if len(results) == 0 {
			return "No bills found matching your criteria."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Found %d bills:\n", len(results))
		for i, bill := range results {
			if i >= queryResultLimit {
				break
			}
			fmt.Fprintf(&b, "• %s: $%.2f due %s\n", bill.Name, bill.Amount, formatDate(bill.DueDate))
		}
		if len(results) > queryResultLimit {
			fmt.Fprintf(&b, "... and %d more", len(results)-queryResultLimit)
		}
		return b.String()

	case models.IntentGetSummary:
		s := state.SummaryData
		return fmt.Sprintf(`📊 Monthly Summary:
• Total expenses: $%.2f
• Number of bills: %d
• Categories: %d
• Average bill amount: $%.2f`,
			floatField(s, "total_amount"),
			intField(s, "total_bills"),
			intField(s, "categories_count"),
			floatField(s, "average_amount"))

	case models.IntentListUpcoming:
		results := state.QueryResults
		if len(results) == 0 {
			return "No upcoming bills found."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "📅 Upcoming bills (%d):\n", len(results))
		for _, bill := range results {
			fmt.Fprintf(&b, "• %s: $%.2f due %s\n", bill.Name, bill.Amount, formatDate(bill.DueDate))
		}
		return b.String()

	case models.IntentGetStatistics:
		s := state.SummaryData
		top := stringField(s, "top_category")
		if top == "" {
			top = "N/A"
		}
		return fmt.Sprintf(`📈 Expense Statistics:
• This month: $%.2f
• Last month: $%.2f
• Average monthly: $%.2f
• Top category: %s`,
			floatField(s, "current_month_total"),
			floatField(s, "last_month_total"),
			floatField(s, "average_monthly"),
			top)

	case models.IntentGreeting:
		return greetingText

	default:
		return defaultText
	}
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
