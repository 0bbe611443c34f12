package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	he, ok := AsHTTPError(err)
	require.True(t, ok, "not an HTTPError: %v", err)
	return he.Code
}

func TestInventoryUsecase_AddEntry_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.material("Flour")

	future := f.clock.Now().Add(time.Hour)
	cases := []struct {
		name string
		in   AddEntryInput
		code string
	}{
		{"no name", AddEntryInput{Quantity: dec("1"), Message: "x"}, "inventory.name_required"},
		{"zero", AddEntryInput{Name: "flour", Message: "x"}, "inventory.quantity_invalid"},
		{"no message", AddEntryInput{Name: "flour", Quantity: dec("1"), Message: "  "}, "inventory.message_required"},
		{"long message", AddEntryInput{Name: "flour", Quantity: dec("1"), Message: strings.Repeat("a", 256)}, "inventory.message_too_long"},
		{"future", AddEntryInput{Name: "flour", Quantity: dec("1"), Message: "x", CreatedAt: &future}, "inventory.date_in_future"},
		{"unknown material", AddEntryInput{Name: "sugar", Quantity: dec("1"), Message: "x"}, "inventory.material_not_found"},
		{"negative stock", AddEntryInput{Name: "flour", Quantity: dec("-1"), Message: "waste"}, "inventory.negative_stock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.inventory.AddEntry(ctx, f.adminID, tc.in)
			assert.Equal(t, tc.code, codeOf(t, err))
		})
	}
	assert.EqualValues(t, 0, f.ledgerSize())
}

func TestInventoryUsecase_AddEntry_ByNameAndAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material("Whole Milk")

	past := f.clock.Now().Add(-24 * time.Hour)
	e, err := f.inventory.AddEntry(ctx, f.adminID, AddEntryInput{
		Name: "  WHOLE milk ", Quantity: dec("12.5"), Message: " delivery ", CreatedAt: &past,
	})
	require.NoError(t, err)
	assert.Equal(t, m.ID, e.MaterialID)
	assert.Equal(t, "delivery", e.Message)
	assert.True(t, e.CreatedAt.Equal(past))
	require.NotNil(t, e.Material)

	//減らすのは在庫の範囲まで
	_, err = f.inventory.AddEntry(ctx, f.adminID, AddEntryInput{Name: "whole milk", Quantity: dec("-12.5"), Message: "spilled"})
	require.NoError(t, err)
	assert.True(t, f.stockOf(m.ID).IsZero())

	logs, err := f.store.AuditLogs().List(ctx, repo.AuditLogFilter{Action: model.AuditActionStockEntry})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, f.adminID, logs[0].ActorUserID)
}

func TestInventoryUsecase_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := f.material("Flour")
	f.material("Milk")
	f.restock("flour", "10")
	f.restock("milk", "3")
	f.restock("flour", "2")

	out, err := f.inventory.List(ctx, LedgerListQuery{MaterialID: flour.ID, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, out.PageCount)
	assert.Len(t, out.Items, 1)

	minQty := dec("3")
	out, err = f.inventory.List(ctx, LedgerListQuery{MinQuantity: &minQty})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	maxQty := dec("1")
	_, err = f.inventory.List(ctx, LedgerListQuery{MinQuantity: &minQty, MaxQuantity: &maxQty})
	assert.Equal(t, "query.invalid", codeOf(t, err))

	_, err = f.inventory.List(ctx, LedgerListQuery{Page: -1})
	assert.Equal(t, "page.invalid", codeOf(t, err))
	_, err = f.inventory.List(ctx, LedgerListQuery{MaterialID: "nope"})
	assert.Equal(t, "id.invalid", codeOf(t, err))
}

func TestInventoryUsecase_CorrectAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material("Flour")

	delivery, err := f.inventory.AddEntry(ctx, f.adminID, AddEntryInput{Name: "flour", Quantity: dec("10"), Message: "delivery"})
	require.NoError(t, err)
	_, err = f.inventory.AddEntry(ctx, f.adminID, AddEntryInput{Name: "flour", Quantity: dec("-6"), Message: "used"})
	require.NoError(t, err)

	//10→5にすると-1になる
	five := dec("5")
	_, err = f.inventory.CorrectEntry(ctx, f.adminID, delivery.ID, CorrectEntryInput{Quantity: &five})
	assert.Equal(t, "inventory.negative_stock", codeOf(t, err))

	eight := dec("8")
	msg := "delivery (fixed)"
	fixed, err := f.inventory.CorrectEntry(ctx, f.adminID, delivery.ID, CorrectEntryInput{Quantity: &eight, Message: &msg})
	require.NoError(t, err)
	assert.True(t, fixed.Quantity.Equal(eight))
	assert.Equal(t, msg, fixed.Message)
	assert.True(t, f.stockOf(m.ID).Equal(dec("2")))

	//消すと-6になる
	err = f.inventory.DeleteEntry(ctx, f.adminID, delivery.ID)
	assert.Equal(t, "inventory.negative_stock", codeOf(t, err))

	_, err = f.inventory.CorrectEntry(ctx, f.adminID, delivery.ID, CorrectEntryInput{})
	assert.Equal(t, "request.invalid_body", codeOf(t, err))
	err = f.inventory.DeleteEntry(ctx, f.adminID, uuid.NewString())
	assert.Equal(t, "inventory.entry_not_found", codeOf(t, err))

	logs, err := f.store.AuditLogs().List(ctx, repo.AuditLogFilter{Action: model.AuditActionStockCorrection})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, delivery.ID, logs[0].ResourceID)
	assert.NotEmpty(t, logs[0].Before)
	assert.NotEmpty(t, logs[0].After)
}
