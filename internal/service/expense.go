// Package service provides business logic for HomeLedger operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/homeledger/homeledger/internal/db"
	"github.com/homeledger/homeledger/internal/models"
)

// ExpenseService handles bill and category operations.
type ExpenseService struct {
	db *db.Client
}

// NewExpenseService creates a new expense service.
func NewExpenseService(db *db.Client) *ExpenseService {
	return &ExpenseService{db: db}
}

// CreateBill validates and stores a new bill. Missing status and
// frequency default to pending / one_time.
func (s *ExpenseService) CreateBill(ctx context.Context, draft models.BillDraft) (models.Bill, error) {
	if draft.Name == "" {
		return models.Bill{}, errors.New("bill name is required")
	}
	if draft.Amount <= 0 {
		return models.Bill{}, fmt.Errorf("bill amount must be positive, got %.2f", draft.Amount)
	}
	if draft.Status == "" {
		draft.Status = models.BillStatusPending
	}
	if draft.Frequency == "" {
		draft.Frequency = models.FrequencyOneTime
	}
	if draft.DueDate.IsZero() {
		draft.DueDate = time.Now().AddDate(0, 1, 0)
	}
	return s.db.CreateBill(ctx, draft)
}

// GetBill fetches one bill by record id.
func (s *ExpenseService) GetBill(ctx context.Context, id string) (models.Bill, error) {
	return s.db.GetBill(ctx, id)
}

// QueryBills lists bills matching the filter, newest due date first.
func (s *ExpenseService) QueryBills(ctx context.Context, filter models.BillFilter) ([]models.Bill, error) {
	return s.db.QueryBills(ctx, filter)
}

// UpcomingBills lists pending bills due within the next days.
func (s *ExpenseService) UpcomingBills(ctx context.Context, days int) ([]models.Bill, error) {
	if days <= 0 {
		days = 30
	}
	return s.db.UpcomingBills(ctx, days)
}

// OverdueBills lists pending bills whose due date has passed.
func (s *ExpenseService) OverdueBills(ctx context.Context) ([]models.Bill, error) {
	return s.db.OverdueBills(ctx)
}

// MonthlyBills lists all bills due in the given calendar month.
func (s *ExpenseService) MonthlyBills(ctx context.Context, year int, month time.Month) ([]models.Bill, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.db.BillsBetween(ctx, from, from.AddDate(0, 1, 0))
}

// UpdateBill merges the given fields into an existing bill.
func (s *ExpenseService) UpdateBill(ctx context.Context, id string, fields map[string]any) (models.Bill, error) {
	if len(fields) == 0 {
		return models.Bill{}, errors.New("no fields to update")
	}
	if amount, ok := fields["amount"].(float64); ok && amount <= 0 {
		return models.Bill{}, fmt.Errorf("bill amount must be positive, got %.2f", amount)
	}
	return s.db.UpdateBill(ctx, id, fields)
}

// MarkBillPaid flips a bill's status to paid.
func (s *ExpenseService) MarkBillPaid(ctx context.Context, id string) (models.Bill, error) {
	return s.db.UpdateBill(ctx, id, map[string]any{"status": string(models.BillStatusPaid)})
}

// DeleteBill removes a bill. Deleting an unknown id returns
// db.ErrNotFound.
func (s *ExpenseService) DeleteBill(ctx context.Context, id string) error {
	return s.db.DeleteBill(ctx, id)
}

// GetOrCreateCategory resolves a category by name, creating it when
// absent. Names are stored title-cased so "utilities" and "Utilities"
// resolve to the same record.
func (s *ExpenseService) GetOrCreateCategory(ctx context.Context, name string) (models.Category, error) {
	name = canonicalCategoryName(name)
	if name == "" {
		return models.Category{}, errors.New("category name is required")
	}

	category, err := s.db.GetCategoryByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return models.Category{}, err
	}

	category, err = s.db.CreateCategory(ctx, name)
	if errors.Is(err, db.ErrAlreadyExists) {
		// Lost a create race; the other writer's record wins.
		return s.db.GetCategoryByName(ctx, name)
	}
	return category, err
}

// ListCategories lists active categories ordered by name.
func (s *ExpenseService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.db.ListCategories(ctx)
}

func canonicalCategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
