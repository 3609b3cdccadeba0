package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	summaryYear  int
	summaryMonth int
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the monthly expense summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := api.Summary(context.Background(), summaryYear, summaryMonth)
		if err != nil {
			return fmt.Errorf("fetch summary: %w", err)
		}

		fmt.Printf("Summary for %04d-%02d\n", summary.Year, summary.Month)
		fmt.Printf("  Total:    $%.2f across %d bills\n", summary.TotalAmount, summary.TotalBills)
		fmt.Printf("  Average:  $%.2f\n", summary.AverageAmount)
		fmt.Printf("  Paid:     %d, pending: %d\n", summary.PaidBills, summary.PendingBills)

		if len(summary.CategoryBreakdown) > 0 {
			fmt.Println("  By category:")
			names := make([]string, 0, len(summary.CategoryBreakdown))
			for name := range summary.CategoryBreakdown {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("    %-20s $%.2f\n", name, summary.CategoryBreakdown[name])
			}
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show expense statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := api.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("fetch stats: %w", err)
		}

		fmt.Printf("This month:       $%.2f (%d bills)\n", stats.CurrentMonthTotal, stats.CurrentMonthBills)
		fmt.Printf("Last month:       $%.2f\n", stats.LastMonthTotal)
		fmt.Printf("Average monthly:  $%.2f\n", stats.AverageMonthly)
		fmt.Printf("Month over month: %+.1f%%\n", stats.MonthOverMonthChange)
		if stats.TopCategory != "" {
			fmt.Printf("Top category:     %s\n", stats.TopCategory)
		}
		fmt.Printf("Upcoming:         %d, overdue: %d\n", stats.UpcomingBillsCount, stats.OverdueBillsCount)
		fmt.Printf("Paid this month:  %.0f%%\n", stats.PaymentCompletionRate)
		return nil
	},
}

func init() {
	summaryCmd.Flags().IntVar(&summaryYear, "year", 0, "year (default: current)")
	summaryCmd.Flags().IntVar(&summaryMonth, "month", 0, "month 1-12 (default: current)")
}
