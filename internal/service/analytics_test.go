package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeledger/homeledger/internal/models"
)

func bill(category string, amount float64, status models.BillStatus, due time.Time) models.Bill {
	return models.Bill{Name: category + " bill", CategoryName: category, Amount: amount, Status: status, DueDate: due}
}

func TestSummarizeMonth(t *testing.T) {
	due := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		bill("Utilities", 100, models.BillStatusPaid, due),
		bill("Utilities", 50, models.BillStatusPending, due),
		bill("Rent", 120, models.BillStatusPending, due),
	}

	summary := summarizeMonth(2026, time.August, bills)

	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, 8, summary.Month)
	assert.Equal(t, 270.0, summary.TotalAmount)
	assert.Equal(t, 3, summary.TotalBills)
	assert.Equal(t, 1, summary.PaidBills)
	assert.Equal(t, 2, summary.PendingBills)
	assert.Equal(t, 90.0, summary.AverageAmount)
	assert.Equal(t, 2, summary.CategoriesCount)
	assert.Equal(t, "Utilities", summary.TopCategory)
	assert.Equal(t, 150.0, summary.CategoryBreakdown["Utilities"])
}

func TestSummarizeMonthEmpty(t *testing.T) {
	summary := summarizeMonth(2026, time.August, nil)

	assert.Zero(t, summary.TotalAmount)
	assert.Zero(t, summary.AverageAmount)
	assert.Empty(t, summary.TopCategory)
}

func TestSummarizeMonthUncategorized(t *testing.T) {
	due := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	summary := summarizeMonth(2026, time.August, []models.Bill{
		bill("", 40, models.BillStatusPending, due),
	})

	assert.Equal(t, 40.0, summary.CategoryBreakdown["Uncategorized"])
	assert.Equal(t, "Uncategorized", summary.TopCategory)
}

func TestSummarizeYear(t *testing.T) {
	bills := []models.Bill{
		bill("Rent", 1200, models.BillStatusPaid, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)),
		bill("Rent", 1200, models.BillStatusPaid, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)),
		bill("Utilities", 100, models.BillStatusPaid, time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)),
	}

	summary := summarizeYear(2026, bills)

	assert.Equal(t, 2500.0, summary.TotalAmount)
	assert.Equal(t, 3, summary.TotalBills)
	// Average over the two active months.
	assert.Equal(t, 1250.0, summary.AverageMonthly)
	assert.Equal(t, 2, summary.HighestMonth)
	assert.Equal(t, 1, summary.LowestMonth)
}

func TestAnalyzeCategories(t *testing.T) {
	due := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		bill("Utilities", 100, models.BillStatusPaid, due),
		bill("Utilities", 60, models.BillStatusPending, due),
		bill("Rent", 1200, models.BillStatusPending, due),
		bill("Internet", 80, models.BillStatusPending, due),
	}

	analysis := analyzeCategories(bills)

	require.Equal(t, 3, analysis.TotalCategories)
	require.Len(t, analysis.Categories, 3)
	assert.Equal(t, "Rent", analysis.Categories[0].Name)
	assert.Equal(t, "Utilities", analysis.Categories[1].Name)
	assert.Equal(t, 2, analysis.Categories[1].BillCount)
	assert.Equal(t, 80.0, analysis.Categories[1].AverageAmount)
	assert.Equal(t, "Internet", analysis.Categories[2].Name)
}

func TestAnalyzeTrend(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		bill("Utilities", 100, models.BillStatusPaid, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)),
		bill("Utilities", 150, models.BillStatusPaid, time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)),
	}

	analysis := analyzeTrend(from, 3, bills)

	assert.Equal(t, 3, analysis.MonthsAnalyzed)
	require.Len(t, analysis.Monthly, 3)
	assert.Equal(t, 100.0, analysis.Monthly["2026-03"].Amount)
	assert.Zero(t, analysis.Monthly["2026-04"].Amount)
	assert.Equal(t, 150.0, analysis.Monthly["2026-05"].Amount)
	assert.Equal(t, "increasing", analysis.Trend)
	assert.InDelta(t, 50.0, analysis.ChangePercent, 0.001)
	assert.InDelta(t, 250.0/3, analysis.AverageMonthly, 0.001)
}

func TestAnalyzeTrendStable(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		bill("Utilities", 100, models.BillStatusPaid, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)),
		bill("Utilities", 102, models.BillStatusPaid, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC)),
	}

	analysis := analyzeTrend(from, 2, bills)
	assert.Equal(t, "stable", analysis.Trend)
}

func TestCanonicalCategoryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"utilities", "Utilities"},
		{"UTILITIES", "Utilities"},
		{"  home  maintenance ", "Home Maintenance"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canonicalCategoryName(tt.in))
	}
}
