package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/homeledger/homeledger/internal/client"
	"github.com/homeledger/homeledger/internal/models"
	"github.com/spf13/cobra"
)

var (
	billsCategory string
	billsStatus   string
	upcomingDays  int
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List bills",
	Long: `List stored bills, optionally filtered.

Examples:
  homeledger bills
  homeledger bills --category utilities
  homeledger bills --status pending`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bills, err := api.Bills(context.Background(), billsCategory, billsStatus)
		if err != nil {
			return fmt.Errorf("list bills: %w", err)
		}
		printBills(bills, "No bills found.")
		return nil
	},
}

var (
	addDue       string
	addCategory  string
	addFrequency string
)

var billsAddCmd = &cobra.Command{
	Use:   "add <name> <amount>",
	Short: "Add a bill",
	Long: `Add a bill directly, without going through the assistant.

Examples:
  homeledger bills add "Electric Bill" 45.50 --category utilities --due 2026-09-15
  homeledger bills add Rent 1200 --category rent --frequency monthly`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}

		due := time.Now().AddDate(0, 1, 0)
		if addDue != "" {
			due, err = time.Parse("2006-01-02", addDue)
			if err != nil {
				return fmt.Errorf("invalid due date %q, want YYYY-MM-DD", addDue)
			}
		}

		bill, err := api.CreateBill(context.Background(), client.BillInput{
			Name:      args[0],
			Amount:    amount,
			DueDate:   due,
			Category:  addCategory,
			Frequency: addFrequency,
		})
		if err != nil {
			return fmt.Errorf("add bill: %w", err)
		}

		fmt.Println(defaultTheme.successStyle().Render(
			fmt.Sprintf("Added: %s ($%.2f) due %s", bill.Name, bill.Amount, bill.DueDate.Format("2006-01-02"))))
		return nil
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List bills due soon",
	RunE: func(cmd *cobra.Command, args []string) error {
		bills, err := api.Upcoming(context.Background(), upcomingDays)
		if err != nil {
			return fmt.Errorf("list upcoming bills: %w", err)
		}
		printBills(bills, "No upcoming bills.")
		return nil
	},
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List bills past their due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		bills, err := api.Overdue(context.Background())
		if err != nil {
			return fmt.Errorf("list overdue bills: %w", err)
		}
		printBills(bills, "Nothing overdue.")
		return nil
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <bill-id>",
	Short: "Mark a bill as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bill, err := api.MarkPaid(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}
		fmt.Println(defaultTheme.successStyle().Render(fmt.Sprintf("Paid: %s ($%.2f)", bill.Name, bill.Amount)))
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List expense categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := api.Categories(context.Background())
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		for _, c := range categories {
			fmt.Println(c.Name)
		}
		return nil
	},
}

func printBills(bills []models.Bill, emptyMessage string) {
	if len(bills) == 0 {
		fmt.Println(defaultTheme.hintStyle().Render(emptyMessage))
		return
	}
	for _, b := range bills {
		line := fmt.Sprintf("%-30s $%8.2f  due %s  [%s]",
			b.Name, b.Amount, b.DueDate.Format("2006-01-02"), b.Status)
		if b.CategoryName != "" {
			line += "  " + defaultTheme.hintStyle().Render(b.CategoryName)
		}
		fmt.Println(line)
	}
}

func init() {
	billsCmd.Flags().StringVarP(&billsCategory, "category", "c", "", "filter by category")
	billsCmd.Flags().StringVarP(&billsStatus, "status", "s", "", "filter by status (pending, paid, overdue)")
	upcomingCmd.Flags().IntVarP(&upcomingDays, "days", "d", 30, "look-ahead window in days")

	billsAddCmd.Flags().StringVar(&addDue, "due", "", "due date YYYY-MM-DD (default: one month out)")
	billsAddCmd.Flags().StringVar(&addCategory, "category", "Other", "expense category")
	billsAddCmd.Flags().StringVar(&addFrequency, "frequency", "", "recurrence (one_time, weekly, monthly, quarterly, annually)")
	billsCmd.AddCommand(billsAddCmd)
}
