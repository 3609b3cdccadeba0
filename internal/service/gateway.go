package service

import (
	"context"
	"time"

	"github.com/homeledger/homeledger/internal/models"
)

// AgentGateway bundles expense and analytics operations behind the narrow
// surface the conversational agent calls.
type AgentGateway struct {
	expenses  *ExpenseService
	analytics *AnalyticsService
}

// NewAgentGateway creates the agent-facing facade.
func NewAgentGateway(expenses *ExpenseService, analytics *AnalyticsService) *AgentGateway {
	return &AgentGateway{expenses: expenses, analytics: analytics}
}

func (g *AgentGateway) CreateBill(ctx context.Context, draft models.BillDraft) (models.Bill, error) {
	return g.expenses.CreateBill(ctx, draft)
}

func (g *AgentGateway) QueryBills(ctx context.Context, filter models.BillFilter) ([]models.Bill, error) {
	return g.expenses.QueryBills(ctx, filter)
}

func (g *AgentGateway) UpcomingBills(ctx context.Context, days int) ([]models.Bill, error) {
	return g.expenses.UpcomingBills(ctx, days)
}

func (g *AgentGateway) MonthlySummary(ctx context.Context) (models.MonthlySummary, error) {
	now := time.Now().UTC()
	return g.analytics.MonthlySummary(ctx, now.Year(), now.Month())
}

func (g *AgentGateway) ComprehensiveStats(ctx context.Context) (models.ExpenseStats, error) {
	return g.analytics.ComprehensiveStats(ctx)
}

func (g *AgentGateway) GetOrCreateCategory(ctx context.Context, name string) (models.Category, error) {
	return g.expenses.GetOrCreateCategory(ctx, name)
}
