package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-inventory/events"
)

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)          {}
func (m *mockLogger) Info(msg string, args ...any)           {}
func (m *mockLogger) Warn(msg string, args ...any)           {}
func (m *mockLogger) Error(msg string, args ...any)          {}
func (m *mockLogger) With(args ...any) types.Logger          { return m }
func (m *mockLogger) WithError(err error) types.Logger       { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

type fakeCarts struct {
	lines   map[string]int
	cleared []string
	err     error
}

func (f *fakeCarts) RemoveAll(_ context.Context, sessionID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.cleared = append(f.cleared, sessionID)
	n := f.lines[sessionID]
	delete(f.lines, sessionID)
	return n, nil
}

func checkoutEvent(sessionID string, at time.Time) events.CheckoutRequestedEvent {
	return events.CheckoutRequestedEvent{
		SessionID: sessionID,
		Lines: []events.CheckoutLine{
			{ProductID: "tote", Name: "Tote", Quantity: 2, Price: decimal.RequireFromString("12.75")},
		},
		TotalItems:    1,
		TotalPrice:    decimal.RequireFromString("25.5"),
		PaymentMethod: "card",
		Timestamp:     at,
	}
}

func TestLedger_RecordAndList(t *testing.T) {
	l := NewLedger()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first := l.Record(checkoutEvent("a", base))
	second := l.Record(checkoutEvent("b", base.Add(time.Minute)))
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, StatusPending, first.Status)

	all := l.List("")
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	only := l.List("a")
	require.Len(t, only, 1)
	assert.Equal(t, first.ID, only[0].ID)
}

func TestLedger_Complete(t *testing.T) {
	l := NewLedger()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	older := l.Record(checkoutEvent("a", base))
	newer := l.Record(checkoutEvent("a", base.Add(time.Minute)))

	done, err := l.Complete("a", "", base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, newer.ID, done.ID, "latest pending handoff is completed first")
	assert.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	done, err = l.Complete("a", older.ID, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, older.ID, done.ID)

	_, err = l.Complete("a", "", base.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNoPendingHandoff)
	_, err = l.Pending("a", "")
	assert.ErrorIs(t, err, ErrNoPendingHandoff)
}

func TestLedger_PendingDoesNotComplete(t *testing.T) {
	l := NewLedger()
	h := l.Record(checkoutEvent("a", time.Now()))

	got, err := l.Pending("a", h.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	_, err = l.Pending("a", "unknown")
	assert.ErrorIs(t, err, ErrNoPendingHandoff)
	_, err = l.Pending("b", "")
	assert.ErrorIs(t, err, ErrNoPendingHandoff)

	assert.Equal(t, StatusPending, l.List("a")[0].Status)
}

func TestService_CompleteOrder(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()
	carts := &fakeCarts{lines: map[string]int{"sess": 1}}
	s := NewService(ledger, carts, nil, &mockLogger{})

	resp, err := s.CompleteOrder(ctx, CompleteOrderRequest{SessionID: "sess"})
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.Equal(t, ErrNoPendingHandoff.Error(), resp.Error)
	assert.Empty(t, carts.cleared, "cart is kept when nothing was handed off")

	h := ledger.Record(checkoutEvent("sess", time.Now()))

	resp, err = s.CompleteOrder(ctx, CompleteOrderRequest{SessionID: "sess"})
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, 1, resp.LinesFreed)
	require.NotNil(t, resp.Handoff)
	assert.Equal(t, h.ID, resp.Handoff.ID)
	assert.Equal(t, []string{"sess"}, carts.cleared)
}

func TestService_CompleteOrderCartFailureKeepsHandoffPending(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()
	h := ledger.Record(checkoutEvent("sess", time.Now()))
	carts := &fakeCarts{lines: map[string]int{"sess": 1}, err: errors.New("cart unavailable")}
	s := NewService(ledger, carts, nil, &mockLogger{})

	_, err := s.CompleteOrder(ctx, CompleteOrderRequest{SessionID: "sess"})
	assert.Error(t, err)

	pending, err := ledger.Pending("sess", "")
	require.NoError(t, err)
	assert.Equal(t, h.ID, pending.ID)
	assert.Equal(t, StatusPending, pending.Status)

	carts.err = nil
	resp, err := s.CompleteOrder(ctx, CompleteOrderRequest{SessionID: "sess"})
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, h.ID, resp.Handoff.ID)
	assert.Equal(t, 1, resp.LinesFreed)
}

func TestService_CompleteOrderRequiresSession(t *testing.T) {
	s := NewService(NewLedger(), &fakeCarts{}, nil, &mockLogger{})

	resp, err := s.CompleteOrder(context.Background(), CompleteOrderRequest{})
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.NotEmpty(t, resp.Error)
}
