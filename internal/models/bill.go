// Package models defines data structures for the HomeLedger expense assistant.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusPaid      BillStatus = "paid"
	BillStatusOverdue   BillStatus = "overdue"
	BillStatusCancelled BillStatus = "cancelled"
)

// BillFrequency describes how often a bill recurs.
type BillFrequency string

const (
	FrequencyOneTime   BillFrequency = "one_time"
	FrequencyWeekly    BillFrequency = "weekly"
	FrequencyMonthly   BillFrequency = "monthly"
	FrequencyQuarterly BillFrequency = "quarterly"
	FrequencyAnnually  BillFrequency = "annually"
)

// Bill is a single expense or recurring bill.
// CategoryName is populated by queries that project category.name;
// it is not a stored field.
type Bill struct {
	ID           surrealmodels.RecordID `json:"id,omitempty"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	Amount       float64                `json:"amount"`
	DueDate      time.Time              `json:"due_date"`
	Status       BillStatus             `json:"status,omitempty"`
	Frequency    BillFrequency          `json:"frequency,omitempty"`
	Category     surrealmodels.RecordID `json:"category,omitempty"`
	CategoryName string                 `json:"category_name,omitempty"`
	Vendor       string                 `json:"vendor,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	Created      time.Time              `json:"created,omitempty"`
}

// Category groups bills for reporting.
type Category struct {
	ID          surrealmodels.RecordID `json:"id,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Color       string                 `json:"color,omitempty"`
	IsActive    bool                   `json:"is_active,omitempty"`
	Created     time.Time              `json:"created,omitempty"`
}

// BillDraft carries the fields needed to create a bill. CategoryID must
// reference an existing category record.
type BillDraft struct {
	Name        string
	Description string
	Amount      float64
	DueDate     time.Time
	Status      BillStatus
	Frequency   BillFrequency
	CategoryID  surrealmodels.RecordID
	Vendor      string
	Notes       string
}

// BillFilter narrows a bill query. Zero values mean "no constraint".
type BillFilter struct {
	Category  string
	DueOn     *time.Time
	DueFrom   *time.Time
	DueTo     *time.Time
	Status    BillStatus
	MinAmount *float64
	MaxAmount *float64
}
