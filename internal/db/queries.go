package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/homeledger/homeledger/internal/models"
)

// billProjection pulls the category name alongside each bill so callers
// can render bills without a second lookup.
const billProjection = `*, category.name AS category_name`

// CreateBill inserts a bill and returns it with the category name resolved.
func (c *Client) CreateBill(ctx context.Context, draft models.BillDraft) (models.Bill, error) {
	status := draft.Status
	if status == "" {
		status = models.BillStatusPending
	}
	frequency := draft.Frequency
	if frequency == "" {
		frequency = models.FrequencyOneTime
	}

	content := map[string]any{
		"name":      draft.Name,
		"amount":    draft.Amount,
		"due_date":  draft.DueDate,
		"status":    string(status),
		"frequency": string(frequency),
		"category":  draft.CategoryID,
	}
	if draft.Description != "" {
		content["description"] = draft.Description
	}
	if draft.Vendor != "" {
		content["vendor"] = draft.Vendor
	}
	if draft.Notes != "" {
		content["notes"] = draft.Notes
	}

	results, err := query[[]models.Bill](ctx, c, `CREATE bill CONTENT $content`, map[string]any{
		"content": content,
	})
	if err != nil {
		return models.Bill{}, fmt.Errorf("create bill: %w", wrapQueryError(err))
	}

	created := firstResult(results)
	if len(created) == 0 {
		return models.Bill{}, fmt.Errorf("create bill: no record returned")
	}

	id, err := models.RecordIDString(created[0].ID)
	if err != nil {
		return models.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	return c.GetBill(ctx, id)
}

// GetBill fetches a bill by its string ID.
func (c *Client) GetBill(ctx context.Context, id string) (models.Bill, error) {
	results, err := query[[]models.Bill](ctx, c, fmt.Sprintf(`
		SELECT %s FROM type::record("bill", $id)
	`, billProjection), map[string]any{"id": id})
	if err != nil {
		return models.Bill{}, fmt.Errorf("get bill: %w", wrapQueryError(err))
	}

	bills := firstResult(results)
	if len(bills) == 0 {
		return models.Bill{}, ErrNotFound
	}
	return bills[0], nil
}

// QueryBills returns bills matching the filter, most recent due date first.
func (c *Client) QueryBills(ctx context.Context, filter models.BillFilter) ([]models.Bill, error) {
	clauses := []string{}
	vars := map[string]any{}

	if filter.Category != "" {
		clauses = append(clauses, "string::lowercase(category.name) CONTAINS string::lowercase($category)")
		vars["category"] = filter.Category
	}
	if filter.DueOn != nil {
		// Match the calendar day, not the instant
		clauses = append(clauses, "due_date >= $due_on AND due_date < $due_on + 1d")
		vars["due_on"] = *filter.DueOn
	}
	if filter.DueFrom != nil {
		clauses = append(clauses, "due_date >= $due_from")
		vars["due_from"] = *filter.DueFrom
	}
	if filter.DueTo != nil {
		clauses = append(clauses, "due_date <= $due_to")
		vars["due_to"] = *filter.DueTo
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = $status")
		vars["status"] = string(filter.Status)
	}
	if filter.MinAmount != nil {
		clauses = append(clauses, "amount >= $min_amount")
		vars["min_amount"] = *filter.MinAmount
	}
	if filter.MaxAmount != nil {
		clauses = append(clauses, "amount <= $max_amount")
		vars["max_amount"] = *filter.MaxAmount
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	sql := fmt.Sprintf(`SELECT %s FROM bill %s ORDER BY due_date DESC`, billProjection, where)
	results, err := query[[]models.Bill](ctx, c, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", wrapQueryError(err))
	}
	return firstResult(results), nil
}

// UpcomingBills returns pending bills due within the next N days, soonest first.
func (c *Client) UpcomingBills(ctx context.Context, days int) ([]models.Bill, error) {
	now := time.Now()
	sql := fmt.Sprintf(`
		SELECT %s FROM bill
		WHERE due_date >= $from AND due_date <= $to AND status = 'pending'
		ORDER BY due_date ASC
	`, billProjection)

	results, err := query[[]models.Bill](ctx, c, sql, map[string]any{
		"from": now,
		"to":   now.AddDate(0, 0, days),
	})
	if err != nil {
		return nil, fmt.Errorf("upcoming bills: %w", wrapQueryError(err))
	}
	return firstResult(results), nil
}

// OverdueBills returns pending bills past their due date, oldest first.
func (c *Client) OverdueBills(ctx context.Context) ([]models.Bill, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM bill
		WHERE due_date < $now AND status = 'pending'
		ORDER BY due_date ASC
	`, billProjection)

	results, err := query[[]models.Bill](ctx, c, sql, map[string]any{"now": time.Now()})
	if err != nil {
		return nil, fmt.Errorf("overdue bills: %w", wrapQueryError(err))
	}
	return firstResult(results), nil
}

// BillsBetween returns bills with due dates in [from, to], soonest first.
func (c *Client) BillsBetween(ctx context.Context, from, to time.Time) ([]models.Bill, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM bill
		WHERE due_date >= $from AND due_date <= $to
		ORDER BY due_date ASC
	`, billProjection)

	results, err := query[[]models.Bill](ctx, c, sql, map[string]any{"from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("bills between: %w", wrapQueryError(err))
	}
	return firstResult(results), nil
}

// UpdateBill merges the given fields into a bill and returns the result.
func (c *Client) UpdateBill(ctx context.Context, id string, fields map[string]any) (models.Bill, error) {
	results, err := query[[]models.Bill](ctx, c, `
		UPDATE type::record("bill", $id) MERGE $fields
	`, map[string]any{"id": id, "fields": fields})
	if err != nil {
		return models.Bill{}, fmt.Errorf("update bill: %w", wrapQueryError(err))
	}
	if len(firstResult(results)) == 0 {
		return models.Bill{}, ErrNotFound
	}
	return c.GetBill(ctx, id)
}

// DeleteBill removes a bill. Returns ErrNotFound when it doesn't exist.
func (c *Client) DeleteBill(ctx context.Context, id string) error {
	results, err := query[[]models.Bill](ctx, c, `
		DELETE type::record("bill", $id) RETURN BEFORE
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete bill: %w", wrapQueryError(err))
	}
	if len(firstResult(results)) == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCategoryByName fetches a category by case-insensitive name match.
// Returns ErrNotFound when absent.
func (c *Client) GetCategoryByName(ctx context.Context, name string) (models.Category, error) {
	results, err := query[[]models.Category](ctx, c, `
		SELECT * FROM category WHERE string::lowercase(name) = string::lowercase($name)
	`, map[string]any{"name": name})
	if err != nil {
		return models.Category{}, fmt.Errorf("get category: %w", wrapQueryError(err))
	}

	categories := firstResult(results)
	if len(categories) == 0 {
		return models.Category{}, ErrNotFound
	}
	return categories[0], nil
}

// CreateCategory inserts a category. A name collision returns ErrAlreadyExists.
func (c *Client) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	results, err := query[[]models.Category](ctx, c, `
		CREATE category CONTENT { name: $name }
	`, map[string]any{"name": name})
	if err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", wrapQueryError(err))
	}

	categories := firstResult(results)
	if len(categories) == 0 {
		return models.Category{}, fmt.Errorf("create category: no record returned")
	}
	return categories[0], nil
}

// ListCategories returns all active categories sorted by name.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	results, err := query[[]models.Category](ctx, c, `
		SELECT * FROM category WHERE is_active = true ORDER BY name ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", wrapQueryError(err))
	}
	return firstResult(results), nil
}
