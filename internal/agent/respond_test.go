package agent

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/homeledger/homeledger/internal/models"
)

func billFixture(name string, amount float64, due string) models.Bill {
	t, _ := time.Parse("2006-01-02", due)
	return models.Bill{Name: name, Amount: amount, DueDate: t}
}

func successState(intent models.Intent) *models.ConversationState {
	state := models.NewConversationState("s1", "u1")
	state.CurrentIntent = intent
	return state
}

func TestRenderAddBill(t *testing.T) {
	state := successState(models.IntentAddBill)
	state.QueryResults = []models.Bill{billFixture("Electric Bill", 45.50, "2026-03-15")}

	got := RenderTurn(state)
	assert.Equal(t, "✅ Successfully added bill: Electric Bill for $45.50 due on 2026-03-15", got)
}

func TestRenderAddBillNoResult(t *testing.T) {
	got := RenderTurn(successState(models.IntentAddBill))
	assert.Equal(t, "❌ Failed to add the bill. Please try again.", got)
}

func TestRenderQueryExpenses(t *testing.T) {
	state := successState(models.IntentQueryExpenses)
	state.QueryResults = []models.Bill{
		billFixture("Rent", 1200, "2026-09-01"),
		billFixture("Water", 30.25, "2026-09-05"),
	}

	got := RenderTurn(state)
	assert.True(t, strings.HasPrefix(got, "Found 2 bills:\n"))
	assert.Contains(t, got, "• Rent: $1200.00 due 2026-09-01")
	assert.Contains(t, got, "• Water: $30.25 due 2026-09-05")
	assert.NotContains(t, got, "more")
}

// Itemized query output caps at five bills with a remainder line.
func TestRenderQueryExpensesTruncation(t *testing.T) {
	state := successState(models.IntentQueryExpenses)
	for i := 1; i <= 7; i++ {
		state.QueryResults = append(state.QueryResults,
			billFixture(fmt.Sprintf("Bill %d", i), float64(i)*10, "2026-09-01"))
	}

	got := RenderTurn(state)
	assert.Contains(t, got, "Found 7 bills:")
	assert.Contains(t, got, "Bill 5")
	assert.NotContains(t, got, "Bill 6")
	assert.Contains(t, got, "... and 2 more")
}

func TestRenderQueryExpensesEmpty(t *testing.T) {
	got := RenderTurn(successState(models.IntentQueryExpenses))
	assert.Equal(t, "No bills found matching your criteria.", got)
}

func TestRenderSummary(t *testing.T) {
	state := successState(models.IntentGetSummary)
	state.SummaryData = map[string]any{
		"total_amount":     350.75,
		"total_bills":      4,
		"categories_count": 3,
		"average_amount":   87.6875,
	}

	got := RenderTurn(state)
	assert.Contains(t, got, "📊 Monthly Summary:")
	assert.Contains(t, got, "• Total expenses: $350.75")
	assert.Contains(t, got, "• Number of bills: 4")
	assert.Contains(t, got, "• Categories: 3")
	assert.Contains(t, got, "• Average bill amount: $87.69")
}

func TestRenderUpcoming(t *testing.T) {
	state := successState(models.IntentListUpcoming)
	for i := 1; i <= 7; i++ {
		state.QueryResults = append(state.QueryResults,
			billFixture(fmt.Sprintf("Bill %d", i), float64(i)*10, "2026-09-01"))
	}

	got := RenderTurn(state)
	assert.Contains(t, got, "📅 Upcoming bills (7):")
	// Unlike query results, upcoming bills are never truncated.
	assert.Contains(t, got, "Bill 7")
	assert.NotContains(t, got, "more")
}

func TestRenderUpcomingEmpty(t *testing.T) {
	got := RenderTurn(successState(models.IntentListUpcoming))
	assert.Equal(t, "No upcoming bills found.", got)
}

func TestRenderStatistics(t *testing.T) {
	state := successState(models.IntentGetStatistics)
	state.SummaryData = map[string]any{
		"current_month_total": 420.0,
		"last_month_total":    380.5,
		"average_monthly":     400.25,
		"top_category":        "Utilities",
	}

	got := RenderTurn(state)
	assert.Contains(t, got, "📈 Expense Statistics:")
	assert.Contains(t, got, "• This month: $420.00")
	assert.Contains(t, got, "• Last month: $380.50")
	assert.Contains(t, got, "• Average monthly: $400.25")
	assert.Contains(t, got, "• Top category: Utilities")
}

func TestRenderStatisticsMissingTopCategory(t *testing.T) {
	got := RenderTurn(successState(models.IntentGetStatistics))
	assert.Contains(t, got, "• Top category: N/A")
}

func TestRenderGreetingAndDefault(t *testing.T) {
	assert.Equal(t, greetingText, RenderTurn(successState(models.IntentGreeting)))
	assert.Equal(t, defaultText, RenderTurn(successState(models.IntentGeneralQuestion)))
	assert.Equal(t, defaultText, RenderTurn(successState(models.IntentNone)))
}

func TestRenderError(t *testing.T) {
	state := successState(models.IntentAddBill)
	state.ActionSuccessful = false
	state.ErrorMessage = "database unavailable"

	got := RenderTurn(state)
	assert.Equal(t, "I apologize, but I encountered an error: database unavailable", got)
}

func TestRenderErrorWithoutMessage(t *testing.T) {
	state := successState(models.IntentAddBill)
	state.ActionSuccessful = false

	got := RenderTurn(state)
	assert.Equal(t, "I apologize, but I encountered an error: An error occurred", got)
}

// Clarification questions pass through verbatim.
func TestRenderClarification(t *testing.T) {
	state := successState(models.IntentAddBill)
	state.NeedsClarification = true
	state.ClarificationQuestion = "I need more information. Please provide: amount"

	got := RenderTurn(state)
	assert.Equal(t, "I need more information. Please provide: amount", got)
}
