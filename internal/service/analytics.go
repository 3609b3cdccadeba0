package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/homeledger/homeledger/internal/db"
	"github.com/homeledger/homeledger/internal/models"
)

// AnalyticsService computes spending aggregates from stored bills. All
// aggregation happens in process over the fetched window; the database
// only filters by date range.
type AnalyticsService struct {
	db *db.Client
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(db *db.Client) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func monthWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// MonthlySummary aggregates the given calendar month. A zero year/month
// means the current month.
func (s *AnalyticsService) MonthlySummary(ctx context.Context, year int, month time.Month) (models.MonthlySummary, error) {
	if year == 0 || month == 0 {
		now := time.Now().UTC()
		year, month = now.Year(), now.Month()
	}

	from, to := monthWindow(year, month)
	bills, err := s.db.BillsBetween(ctx, from, to)
	if err != nil {
		return models.MonthlySummary{}, err
	}
	return summarizeMonth(year, month, bills), nil
}

// YearlySummary aggregates a full calendar year.
func (s *AnalyticsService) YearlySummary(ctx context.Context, year int) (models.YearlySummary, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	bills, err := s.db.BillsBetween(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return models.YearlySummary{}, err
	}
	return summarizeYear(year, bills), nil
}

// CategoryAnalysis ranks category spend over the trailing months window.
func (s *AnalyticsService) CategoryAnalysis(ctx context.Context, months int) (models.CategoryAnalysis, error) {
	if months <= 0 {
		months = 6
	}

	to := time.Now().UTC()
	bills, err := s.db.BillsBetween(ctx, to.AddDate(0, -months, 0), to)
	if err != nil {
		return models.CategoryAnalysis{}, err
	}
	return analyzeCategories(bills), nil
}

// TrendAnalysis compares the first and last month of the trailing window
// to label spending as increasing, decreasing or stable.
func (s *AnalyticsService) TrendAnalysis(ctx context.Context, months int) (models.TrendAnalysis, error) {
	if months <= 0 {
		months = 6
	}

	now := time.Now().UTC()
	from, _ := monthWindow(now.Year(), now.Month())
	from = from.AddDate(0, -(months - 1), 0)

	bills, err := s.db.BillsBetween(ctx, from, now.AddDate(0, 1, 0))
	if err != nil {
		return models.TrendAnalysis{}, err
	}
	return analyzeTrend(from, months, bills), nil
}

// ComprehensiveStats builds the statistics block shown by the assistant.
func (s *AnalyticsService) ComprehensiveStats(ctx context.Context) (models.ExpenseStats, error) {
	now := time.Now().UTC()

	current, err := s.MonthlySummary(ctx, now.Year(), now.Month())
	if err != nil {
		return models.ExpenseStats{}, err
	}

	lastMonth := now.AddDate(0, -1, 0)
	previous, err := s.MonthlySummary(ctx, lastMonth.Year(), lastMonth.Month())
	if err != nil {
		return models.ExpenseStats{}, err
	}

	yearly, err := s.YearlySummary(ctx, now.Year())
	if err != nil {
		return models.ExpenseStats{}, err
	}

	upcoming, err := s.db.UpcomingBills(ctx, 30)
	if err != nil {
		return models.ExpenseStats{}, err
	}
	overdue, err := s.db.OverdueBills(ctx)
	if err != nil {
		return models.ExpenseStats{}, err
	}

	stats := models.ExpenseStats{
		CurrentMonthTotal:  current.TotalAmount,
		LastMonthTotal:     previous.TotalAmount,
		AverageMonthly:     yearly.AverageMonthly,
		TopCategory:        current.TopCategory,
		TotalCategories:    current.CategoriesCount,
		UpcomingBillsCount: len(upcoming),
		OverdueBillsCount:  len(overdue),
		CurrentMonthBills:  current.TotalBills,
	}
	if previous.TotalAmount > 0 {
		stats.MonthOverMonthChange = (current.TotalAmount - previous.TotalAmount) / previous.TotalAmount * 100
	}
	if current.TotalBills > 0 {
		stats.PaymentCompletionRate = float64(current.PaidBills) / float64(current.TotalBills) * 100
	}
	return stats, nil
}

func summarizeMonth(year int, month time.Month, bills []models.Bill) models.MonthlySummary {
	summary := models.MonthlySummary{
		Year:              year,
		Month:             int(month),
		TotalBills:        len(bills),
		CategoryBreakdown: map[string]float64{},
	}

	for _, b := range bills {
		summary.TotalAmount += b.Amount
		switch b.Status {
		case models.BillStatusPaid:
			summary.PaidBills++
		case models.BillStatusPending, models.BillStatusOverdue:
			summary.PendingBills++
		}
		name := b.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		summary.CategoryBreakdown[name] += b.Amount
	}

	summary.CategoriesCount = len(summary.CategoryBreakdown)
	if len(bills) > 0 {
		summary.AverageAmount = summary.TotalAmount / float64(len(bills))
	}

	top, topAmount := "", 0.0
	for name, amount := range summary.CategoryBreakdown {
		if amount > topAmount || (amount == topAmount && (top == "" || name < top)) {
			top, topAmount = name, amount
		}
	}
	summary.TopCategory = top
	return summary
}

func summarizeYear(year int, bills []models.Bill) models.YearlySummary {
	summary := models.YearlySummary{
		Year:             year,
		TotalBills:       len(bills),
		MonthlyBreakdown: map[int]float64{},
	}

	for _, b := range bills {
		summary.TotalAmount += b.Amount
		summary.MonthlyBreakdown[int(b.DueDate.Month())] += b.Amount
	}

	if len(summary.MonthlyBreakdown) > 0 {
		// Average over months with activity, not the full year.
		summary.AverageMonthly = summary.TotalAmount / float64(len(summary.MonthlyBreakdown))
	}

	for month, amount := range summary.MonthlyBreakdown {
		if summary.HighestMonth == 0 || amount > summary.MonthlyBreakdown[summary.HighestMonth] {
			summary.HighestMonth = month
		}
		if summary.LowestMonth == 0 || amount < summary.MonthlyBreakdown[summary.LowestMonth] {
			summary.LowestMonth = month
		}
	}
	return summary
}

func analyzeCategories(bills []models.Bill) models.CategoryAnalysis {
	totals := map[string]*models.CategoryStat{}
	for _, b := range bills {
		name := b.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		stat, ok := totals[name]
		if !ok {
			stat = &models.CategoryStat{Name: name}
			totals[name] = stat
		}
		stat.TotalAmount += b.Amount
		stat.BillCount++
	}

	analysis := models.CategoryAnalysis{TotalCategories: len(totals)}
	for _, stat := range totals {
		stat.AverageAmount = stat.TotalAmount / float64(stat.BillCount)
		analysis.Categories = append(analysis.Categories, *stat)
	}

	// Highest spend first; ties break by name for stable output.
	sort.Slice(analysis.Categories, func(i, j int) bool {
		a, b := analysis.Categories[i], analysis.Categories[j]
		if a.TotalAmount != b.TotalAmount {
			return a.TotalAmount > b.TotalAmount
		}
		return a.Name < b.Name
	})
	return analysis
}

func trendKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

func analyzeTrend(from time.Time, months int, bills []models.Bill) models.TrendAnalysis {
	analysis := models.TrendAnalysis{
		MonthsAnalyzed: months,
		Monthly:        map[string]models.TrendPoint{},
		Trend:          "stable",
	}

	// Seed every month in the window so gaps show up as zeros.
	for i := 0; i < months; i++ {
		analysis.Monthly[trendKey(from.AddDate(0, i, 0))] = models.TrendPoint{}
	}

	total := 0.0
	for _, b := range bills {
		key := trendKey(b.DueDate)
		point, ok := analysis.Monthly[key]
		if !ok {
			continue
		}
		point.Amount += b.Amount
		point.Count++
		analysis.Monthly[key] = point
		total += b.Amount
	}
	analysis.AverageMonthly = total / float64(months)

	first := analysis.Monthly[trendKey(from)]
	last := analysis.Monthly[trendKey(from.AddDate(0, months-1, 0))]
	if first.Amount > 0 {
		analysis.ChangePercent = (last.Amount - first.Amount) / first.Amount * 100
	}
	switch {
	case analysis.ChangePercent > 5:
		analysis.Trend = "increasing"
	case analysis.ChangePercent < -5:
		analysis.Trend = "decreasing"
	}
	return analysis
}
