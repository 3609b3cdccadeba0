package models

// MonthlySummary aggregates one calendar month of bills.
type MonthlySummary struct {
	Year              int                `json:"year"`
	Month             int                `json:"month"`
	TotalAmount       float64            `json:"total_amount"`
	TotalBills        int                `json:"total_bills"`
	PaidBills         int                `json:"paid_bills"`
	PendingBills      int                `json:"pending_bills"`
	AverageAmount     float64            `json:"average_amount"`
	CategoriesCount   int                `json:"categories_count"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	TopCategory       string             `json:"top_category,omitempty"`
}

// YearlySummary aggregates a full calendar year.
type YearlySummary struct {
	Year             int             `json:"year"`
	TotalAmount      float64         `json:"total_amount"`
	TotalBills       int             `json:"total_bills"`
	AverageMonthly   float64         `json:"average_monthly"`
	MonthlyBreakdown map[int]float64 `json:"monthly_breakdown"`
	HighestMonth     int             `json:"highest_month,omitempty"`
	LowestMonth      int             `json:"lowest_month,omitempty"`
}

// CategoryStat is per-category spending.
type CategoryStat struct {
	Name          string  `json:"name"`
	TotalAmount   float64 `json:"total_amount"`
	BillCount     int     `json:"bill_count"`
	AverageAmount float64 `json:"average_amount"`
}

// CategoryAnalysis ranks categories by total spend, highest first.
type CategoryAnalysis struct {
	Categories      []CategoryStat `json:"categories"`
	TotalCategories int            `json:"total_categories"`
}

// TrendPoint is one month of a spending trend.
type TrendPoint struct {
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// TrendAnalysis describes spending direction over the analyzed window.
type TrendAnalysis struct {
	MonthsAnalyzed int                   `json:"months_analyzed"`
	Monthly        map[string]TrendPoint `json:"monthly_data"`
	Trend          string                `json:"trend"`
	ChangePercent  float64               `json:"change_percent"`
	AverageMonthly float64               `json:"average_monthly"`
}

// ExpenseStats is the comprehensive statistics block rendered by the agent.
type ExpenseStats struct {
	CurrentMonthTotal     float64 `json:"current_month_total"`
	LastMonthTotal        float64 `json:"last_month_total"`
	AverageMonthly        float64 `json:"average_monthly"`
	MonthOverMonthChange  float64 `json:"month_over_month_change"`
	TopCategory           string  `json:"top_category"`
	TotalCategories       int     `json:"total_categories"`
	UpcomingBillsCount    int     `json:"upcoming_bills_count"`
	OverdueBillsCount     int     `json:"overdue_bills_count"`
	CurrentMonthBills     int     `json:"current_month_bills"`
	PaymentCompletionRate float64 `json:"payment_completion_rate"`
}
