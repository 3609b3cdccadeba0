package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/homeledger/homeledger/internal/models"
)

// DataService is the bill/analytics collaborator the action handlers call.
// Exactly one data operation runs per turn.
type DataService interface {
	CreateBill(ctx context.Context, draft models.BillDraft) (models.Bill, error)
	QueryBills(ctx context.Context, filter models.BillFilter) ([]models.Bill, error)
	UpcomingBills(ctx context.Context, days int) ([]models.Bill, error)
	MonthlySummary(ctx context.Context) (models.MonthlySummary, error)
	ComprehensiveStats(ctx context.Context) (models.ExpenseStats, error)
	GetOrCreateCategory(ctx context.Context, name string) (models.Category, error)
}

// outcome tags the result of one workflow stage so the engine knows which
// state fields are valid afterwards.
type outcome int

const (
	outcomeOK outcome = iota
	outcomeClarify
	outcomeFailed
)

// actionResult is the tagged outcome of an action stage.
type actionResult struct {
	outcome  outcome
	results  []models.Bill
	summary  map[string]any
	question string
	action   string
	err      error
}

func okResults(action string, bills []models.Bill) actionResult {
	return actionResult{outcome: outcomeOK, action: action, results: bills}
}

func okSummary(action string, summary map[string]any) actionResult {
	return actionResult{outcome: outcomeOK, action: action, summary: summary}
}

func clarify(question string) actionResult {
	return actionResult{outcome: outcomeClarify, question: question}
}

func failed(action string, err error) actionResult {
	return actionResult{outcome: outcomeFailed, action: action, err: err}
}

// actionFunc handles one intent against the accumulated state. Handlers
// must tolerate partially populated entities and never panic on missing
// or mistyped entity values.
type actionFunc func(ctx context.Context, data DataService, state *models.ConversationState) actionResult

// defaultDueDays is the due-date default applied when a new bill carries
// no date entity.
const defaultDueDays = 30

// dueDateFormats are tried in order when parsing a date entity.
var dueDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006-1-2",
}

// parseDueDate converts a date entity string into a time. Month-name forms
// ("march 15") assume the current year. Unparseable input falls back to
// the default window rather than failing the turn.
func parseDueDate(raw string) time.Time {
	for _, layout := range dueDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	// Go layouts need the month title-cased ("March 15", not "march 15").
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower != "" {
		titled := strings.ToUpper(lower[:1]) + lower[1:]
		if t, err := time.Parse("January 2", titled); err == nil {
			return time.Date(time.Now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Now().AddDate(0, 0, defaultDueDays)
}

func entityString(entities map[string]any, key string) (string, bool) {
	v, ok := entities[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func entityFloat(entities map[string]any, key string) (float64, bool) {
	v, ok := entities[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// handleAddBill creates one bill from the extracted entities. The amount
// is required; without it the turn becomes a clarification question and no
// data operation runs.
func handleAddBill(ctx context.Context, data DataService, state *models.ConversationState) actionResult {
	entities := state.ExtractedEntities

	var missing []string
	amount, ok := entityFloat(entities, EntityAmount)
	if !ok {
		missing = append(missing, EntityAmount)
	}
	if len(missing) > 0 {
		return clarify(fmt.Sprintf("I need more information. Please provide: %s", strings.Join(missing, ", ")))
	}

	categoryName := "Other"
	if c, ok := entityString(entities, EntityCategory); ok {
		categoryName = c
	}
	category, err := data.GetOrCreateCategory(ctx, categoryName)
	if err != nil {
		return failed("add_bill", fmt.Errorf("resolve category: %w", err))
	}

	name := "New Bill"
	if n, ok := entityString(entities, EntityBillName); ok {
		name = n
	} else if categoryName != "Other" {
		name = categoryName + " Bill"
	}

	dueDate := time.Now().AddDate(0, 0, defaultDueDays)
	if d, ok := entityString(entities, EntityDate); ok {
		dueDate = parseDueDate(d)
	}

	bill, err := data.CreateBill(ctx, models.BillDraft{
		Name:       name,
		Amount:     amount,
		DueDate:    dueDate,
		CategoryID: category.ID,
		Status:     models.BillStatusPending,
	})
	if err != nil {
		return failed("add_bill", err)
	}

	return okResults("add_bill", []models.Bill{bill})
}

// handleQueryExpenses lists bills matching category/date entities.
func handleQueryExpenses(ctx context.Context, data DataService, state *models.ConversationState) actionResult {
	entities := state.ExtractedEntities

	filter := models.BillFilter{}
	if c, ok := entityString(entities, EntityCategory); ok {
		filter.Category = c
	}
	if d, ok := entityString(entities, EntityDate); ok {
		due := parseDueDate(d)
		filter.DueOn = &due
	}

	bills, err := data.QueryBills(ctx, filter)
	if err != nil {
		return failed("query_expenses", err)
	}
	return okResults("query_expenses", bills)
}

// handleGetSummary fetches the current month's aggregate.
func handleGetSummary(ctx context.Context, data DataService, state *models.ConversationState) actionResult {
	summary, err := data.MonthlySummary(ctx)
	if err != nil {
		return failed("get_summary", err)
	}
	return okSummary("get_summary", map[string]any{
		"total_amount":     summary.TotalAmount,
		"total_bills":      summary.TotalBills,
		"categories_count": summary.CategoriesCount,
		"average_amount":   summary.AverageAmount,
	})
}

// handleListUpcoming lists pending bills due in the next 30 days.
func handleListUpcoming(ctx context.Context, data DataService, state *models.ConversationState) actionResult {
	bills, err := data.UpcomingBills(ctx, defaultDueDays)
	if err != nil {
		return failed("list_upcoming", err)
	}
	return okResults("list_upcoming", bills)
}

// handleGetStatistics fetches the comprehensive statistics block.
func handleGetStatistics(ctx context.Context, data DataService, state *models.ConversationState) actionResult {
	stats, err := data.ComprehensiveStats(ctx)
	if err != nil {
		return failed("get_statistics", err)
	}
	return okSummary("get_statistics", map[string]any{
		"current_month_total": stats.CurrentMonthTotal,
		"last_month_total":    stats.LastMonthTotal,
		"average_monthly":     stats.AverageMonthly,
		"top_category":        stats.TopCategory,
	})
}
