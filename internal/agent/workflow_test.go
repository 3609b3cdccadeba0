package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeledger/homeledger/internal/metrics"
	"github.com/homeledger/homeledger/internal/models"
)

// routingModel classifies by echoing keywords from the message, standing
// in for a real language model.
type routingModel struct{}

func (routingModel) Infer(ctx context.Context, prompt string) (string, error) {
	// Pull just the user message out of the prompt so the template's own
	// wording cannot trigger a match.
	lower := strings.ToLower(prompt)
	if _, after, found := strings.Cut(lower, "user message: "); found {
		lower, _, _ = strings.Cut(after, "\n")
	}
	switch {
	case strings.Contains(lower, "add"):
		return "add_bill: the user wants to add a bill", nil
	case strings.Contains(lower, "upcoming"):
		return "list_upcoming: upcoming bills requested", nil
	case strings.Contains(lower, "summary"):
		return "get_summary: summary of expenses", nil
	case strings.Contains(lower, "hi"), strings.Contains(lower, "hello"):
		return "greeting: the user said hello", nil
	default:
		return "general_question", nil
	}
}

type fakeData struct {
	createCalls   int
	queryCalls    int
	upcomingCalls int
	summaryCalls  int
	statsCalls    int

	createdDrafts []models.BillDraft
	upcoming      []models.Bill
	failWith      error
}

func (f *fakeData) CreateBill(ctx context.Context, draft models.BillDraft) (models.Bill, error) {
	f.createCalls++
	if f.failWith != nil {
		return models.Bill{}, f.failWith
	}
	f.createdDrafts = append(f.createdDrafts, draft)
	return models.Bill{Name: draft.Name, Amount: draft.Amount, DueDate: draft.DueDate}, nil
}

func (f *fakeData) QueryBills(ctx context.Context, filter models.BillFilter) ([]models.Bill, error) {
	f.queryCalls++
	return nil, f.failWith
}

func (f *fakeData) UpcomingBills(ctx context.Context, days int) ([]models.Bill, error) {
	f.upcomingCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.upcoming, nil
}

func (f *fakeData) MonthlySummary(ctx context.Context) (models.MonthlySummary, error) {
	f.summaryCalls++
	if f.failWith != nil {
		return models.MonthlySummary{}, f.failWith
	}
	return models.MonthlySummary{TotalAmount: 100, TotalBills: 2, CategoriesCount: 1, AverageAmount: 50}, nil
}

func (f *fakeData) ComprehensiveStats(ctx context.Context) (models.ExpenseStats, error) {
	f.statsCalls++
	return models.ExpenseStats{}, f.failWith
}

func (f *fakeData) GetOrCreateCategory(ctx context.Context, name string) (models.Category, error) {
	if f.failWith != nil {
		return models.Category{}, f.failWith
	}
	return models.Category{Name: name}, nil
}

func (f *fakeData) totalCalls() int {
	return f.createCalls + f.queryCalls + f.upcomingCalls + f.summaryCalls + f.statsCalls
}

func newTestEngine(data *fakeData) *Engine {
	classifier := NewClassifier(routingModel{}, testLogger())
	return NewEngine(classifier, NewMemoryStore(), data, metrics.NewCollector(), testLogger())
}

func TestProcessMessageAddBill(t *testing.T) {
	data := &fakeData{}
	engine := newTestEngine(data)

	result := engine.ProcessMessage(context.Background(), "s1", "u1", "Add electricity bill for $45.50")

	require.Equal(t, models.IntentAddBill, result.Intent)
	assert.True(t, result.ActionSuccessful)
	assert.Equal(t, 1, result.ConversationStep)
	assert.Contains(t, result.Response, "✅ Successfully added bill: Utilities Bill for $45.50")

	require.Len(t, data.createdDrafts, 1)
	draft := data.createdDrafts[0]
	assert.Equal(t, 45.50, draft.Amount)
	assert.Equal(t, "Utilities Bill", draft.Name)
}

func TestProcessMessageAddBillMonthNameDueDate(t *testing.T) {
	data := &fakeData{}
	engine := newTestEngine(data)

	result := engine.ProcessMessage(context.Background(), "s1", "u1", "Add rent bill for $1200 due march 15")

	require.Equal(t, models.IntentAddBill, result.Intent)
	assert.True(t, result.ActionSuccessful)

	require.Len(t, data.createdDrafts, 1)
	draft := data.createdDrafts[0]
	assert.Equal(t, time.March, draft.DueDate.Month())
	assert.Equal(t, 15, draft.DueDate.Day())
	assert.Equal(t, time.Now().Year(), draft.DueDate.Year())
}

// A greeting turn touches no data operation.
func TestProcessMessageGreeting(t *testing.T) {
	data := &fakeData{}
	engine := newTestEngine(data)

	result := engine.ProcessMessage(context.Background(), "s1", "u1", "hi")

	assert.Equal(t, models.IntentGreeting, result.Intent)
	assert.Equal(t, greetingText, result.Response)
	assert.Zero(t, data.totalCalls())
}

// add_bill without an amount asks for it and runs no data operation.
func TestProcessMessageClarification(t *testing.T) {
	data := &fakeData{}
	engine := newTestEngine(data)

	result := engine.ProcessMessage(context.Background(), "s1", "u1", "add my water bill")

	assert.Equal(t, models.IntentAddBill, result.Intent)
	assert.True(t, result.ActionSuccessful)
	assert.Equal(t, "I need more information. Please provide: amount", result.Response)
	assert.Zero(t, data.createCalls)
}

func TestProcessMessageDataFailure(t *testing.T) {
	data := &fakeData{failWith: errors.New("db down")}
	engine := newTestEngine(data)

	result := engine.ProcessMessage(context.Background(), "s1", "u1", "show me a summary")

	assert.False(t, result.ActionSuccessful)
	assert.Contains(t, result.Response, "I apologize, but I encountered an error:")
	assert.Contains(t, result.Response, "db down")
	assert.ErrorContains(t, result.Err, "db down")
}

// A failed turn does not poison the next one in the same session.
func TestProcessMessageRecoversNextTurn(t *testing.T) {
	data := &fakeData{failWith: errors.New("db down")}
	engine := newTestEngine(data)

	first := engine.ProcessMessage(context.Background(), "s1", "u1", "show me a summary")
	require.False(t, first.ActionSuccessful)

	data.failWith = nil
	second := engine.ProcessMessage(context.Background(), "s1", "u1", "show me a summary")
	assert.True(t, second.ActionSuccessful)
	assert.Contains(t, second.Response, "📊 Monthly Summary:")
	assert.Equal(t, 2, second.ConversationStep)
}

func TestProcessMessageUpcoming(t *testing.T) {
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	data := &fakeData{upcoming: []models.Bill{{Name: "Rent", Amount: 1200, DueDate: due}}}
	engine := newTestEngine(data)

	result := engine.ProcessMessage(context.Background(), "s1", "u1", "what bills are upcoming?")

	assert.Equal(t, models.IntentListUpcoming, result.Intent)
	assert.Contains(t, result.Response, "📅 Upcoming bills (1):")
	assert.Contains(t, result.Response, "• Rent: $1200.00 due 2026-09-10")
}

// Steps count human turns; the transcript holds both sides.
func TestHistoryGrowsWithTurns(t *testing.T) {
	engine := newTestEngine(&fakeData{})

	for i := 1; i <= 3; i++ {
		result := engine.ProcessMessage(context.Background(), "s1", "u1", fmt.Sprintf("hello %d", i))
		assert.Equal(t, i, result.ConversationStep)
	}

	history := engine.History("s1")
	require.Len(t, history, 6)
	assert.Equal(t, models.RoleHuman, history[0].Role)
	assert.Equal(t, models.RoleAssistant, history[1].Role)
	assert.Equal(t, "hello 1", history[0].Text)
}

// An unknown session has an empty transcript, not an error.
func TestHistoryUnknownSession(t *testing.T) {
	engine := newTestEngine(&fakeData{})

	history := engine.History("missing")
	require.NotNil(t, history)
	assert.Empty(t, history)
}

// Clearing a session then fetching its history returns an empty sequence.
func TestClearSession(t *testing.T) {
	engine := newTestEngine(&fakeData{})

	engine.ProcessMessage(context.Background(), "s1", "u1", "hi")
	engine.ClearSession("s1")

	assert.Empty(t, engine.History("s1"))

	// A fresh turn after clearing starts the count over.
	result := engine.ProcessMessage(context.Background(), "s1", "u1", "hi")
	assert.Equal(t, 1, result.ConversationStep)
}

// History hands out a copy; callers cannot mutate the stored transcript.
func TestHistoryReturnsCopy(t *testing.T) {
	engine := newTestEngine(&fakeData{})
	engine.ProcessMessage(context.Background(), "s1", "u1", "hi")

	history := engine.History("s1")
	require.NotEmpty(t, history)
	history[0].Text = "tampered"

	assert.Equal(t, "hi", engine.History("s1")[0].Text)
}

// History reads on a session must be safe while turns run on it.
func TestHistoryConcurrentWithTurns(t *testing.T) {
	engine := newTestEngine(&fakeData{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				engine.ProcessMessage(context.Background(), "s1", "u1", "hi")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				engine.History("s1")
			}
		}()
	}
	wg.Wait()

	// 4 writers * 20 turns, two transcript entries per turn.
	assert.Len(t, engine.History("s1"), 160)
}

// Sessions are independent: state never leaks across session ids.
func TestSessionsIsolated(t *testing.T) {
	engine := newTestEngine(&fakeData{})

	engine.ProcessMessage(context.Background(), "s1", "u1", "hi")
	engine.ProcessMessage(context.Background(), "s1", "u1", "hi again")
	result := engine.ProcessMessage(context.Background(), "s2", "u2", "hi")

	assert.Equal(t, 1, result.ConversationStep)

	assert.Len(t, engine.History("s1"), 4)
	assert.Len(t, engine.History("s2"), 2)
}
