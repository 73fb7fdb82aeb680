package service

import (
	"context"
	"encoding/json"
	"testing"

	"lojalink/internal/dto"
	"lojalink/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportFixture() (*stubOrderRepo, *stubProductRepo, *stubUserRepo, *stubStoreRepo, ImportService) {
	users := newStubUserRepo()
	orders := newStubOrderRepo(users)
	products := newStubProductRepo()
	stores := newStubStoreRepo()
	svc := NewImportService(orders, products, users, stores, "Loja Teste")
	return orders, products, users, stores, svc
}

func importAdmin() Actor {
	return Actor{ID: uuid.New(), Role: model.RoleAdmin}
}

func row(cliente, vendedor string, itens []string, total string, createdAt string) dto.ImportRow {
	return dto.ImportRow{
		Cliente:   cliente,
		Vendedor:  vendedor,
		Itens:     itens,
		Total:     json.RawMessage(total),
		CreatedAt: createdAt,
	}
}

func TestImportCreatesSentinelBackedOrders(t *testing.T) {
	orders, products, users, _, svc := newImportFixture()

	resp, err := svc.Import(context.Background(), importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{
			row("João Silva", "Maria", []string{"Bolo de pote", "Refrigerante"}, `"42.5"`, "2026-01-15"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)
	assert.Equal(t, 0, resp.Ignored)
	assert.NotEmpty(t, resp.ImportID)

	sentinel, err := products.FindBySKU(context.Background(), model.SentinelSKU)
	require.NoError(t, err)

	require.Len(t, orders.orders, 1)
	for _, o := range orders.orders {
		assert.Equal(t, model.StatusDelivered, o.Status)
		assert.True(t, o.Total.Equal(decimal.RequireFromString("42.5")))
		require.Len(t, o.Items, 1)
		assert.Equal(t, sentinel.ID, o.Items[0].ProductID)
		assert.Equal(t, 1, o.Items[0].Qty)
		assert.True(t, o.Items[0].UnitPrice.Equal(o.Total))
		assert.Equal(t, "Bolo de pote; Refrigerante", o.Items[0].Note)
	}

	// Synthetic counterparties under @import.local, login disabled
	client, err := users.FindByEmail(context.Background(), "joao.silva@import.local")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, client.Role)
	assert.Equal(t, "!", client.PasswordHash)

	seller, err := users.FindByEmail(context.Background(), "maria@import.local")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, seller.Role)

	// One import log per order, attributed to the resolved seller rather
	// than to the admin who ran the import
	require.Len(t, orders.logs, 1)
	assert.Equal(t, model.LogActionImport, orders.logs[0].Action)
	assert.Equal(t, seller.ID, orders.logs[0].ByUserID)
	assert.Equal(t, model.StatusDelivered, orders.logs[0].ToStatus)
	assert.Nil(t, orders.logs[0].FromStatus)
}

func TestImportSentinelIsIdempotentAcrossRuns(t *testing.T) {
	_, products, _, _, svc := newImportFixture()
	ctx := context.Background()

	_, err := svc.Import(ctx, importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{row("A", "B", nil, "10", "")},
	})
	require.NoError(t, err)
	first, err := products.FindBySKU(ctx, model.SentinelSKU)
	require.NoError(t, err)

	_, err = svc.Import(ctx, importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{row("C", "D", nil, "20", "")},
	})
	require.NoError(t, err)
	second, err := products.FindBySKU(ctx, model.SentinelSKU)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "sentinel row must be reused, never duplicated")
	assert.Len(t, products.byID, 1)
}

func TestImportBatchIsAtomic(t *testing.T) {
	orders, _, users, _, svc := newImportFixture()

	_, err := svc.Import(context.Background(), importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{
			row("Ana", "Bia", nil, "10", ""),
			row("Carlos", "Bia", nil, `"abc"`, ""), // bad total
			row("Dora", "Bia", nil, "30", ""),
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImportRow)
	assert.Contains(t, err.Error(), "linha 2")

	// Nothing landed — validation runs before any write
	assert.Empty(t, orders.orders)
	assert.Empty(t, orders.logs)
	assert.Zero(t, users.created)
}

func TestImportRejectsNegativeTotal(t *testing.T) {
	_, _, _, _, svc := newImportFixture()

	_, err := svc.Import(context.Background(), importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{row("Ana", "Bia", nil, "-5", "")},
	})
	assert.ErrorIs(t, err, ErrInvalidImportRow)
	assert.Contains(t, err.Error(), "linha 1")
}

func TestImportAcceptsNumberAndStringTotals(t *testing.T) {
	orders, _, _, _, svc := newImportFixture()

	_, err := svc.Import(context.Background(), importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{
			row("Ana", "Bia", nil, "42.5", ""),
			row("Carlos", "Bia", nil, `"42.5"`, ""),
		},
	})
	require.NoError(t, err)
	require.Len(t, orders.orders, 2)
	for _, o := range orders.orders {
		assert.True(t, o.Total.Equal(decimal.RequireFromString("42.5")))
	}
}

func TestImportReplaceOnlyTouchesImportedOrders(t *testing.T) {
	orders, products, users, _, svc := newImportFixture()
	ctx := context.Background()

	// Seed an organic order over a real product — replace must not touch it
	realProduct := products.add(&model.Product{SKU: "CAFE-01", Name: "Cafe", Active: true})
	organic := &model.Order{
		ClientID: users.add(&model.User{Name: "Cliente Real", Email: "real@x.com", Role: model.RoleClient, Active: true}).ID,
		SellerID: users.add(&model.User{Name: "Vend Real", Email: "vend@x.com", Role: model.RoleSeller, Active: true}).ID,
		Status:   model.StatusPending,
		Total:    decimal.NewFromInt(10),
		Items:    []model.OrderItem{{ProductID: realProduct.ID, Qty: 1, UnitPrice: decimal.NewFromInt(10)}},
	}
	require.NoError(t, orders.CreateTx(nil, organic))

	// First import run
	_, err := svc.Import(ctx, importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{row("Ana", "Bia", nil, "10", "")},
	})
	require.NoError(t, err)
	require.Len(t, orders.orders, 2)

	var firstImportedID uuid.UUID
	for id, o := range orders.orders {
		if id != organic.ID {
			firstImportedID = o.ID
		}
	}

	// Replace run drops the previous imported order, keeps the organic one
	_, err = svc.Import(ctx, importAdmin(), dto.ImportRequest{
		Mode: "replace",
		Rows: []dto.ImportRow{
			row("Carlos", "Bia", nil, "20", ""),
			row("Dora", "Bia", nil, "30", ""),
		},
	})
	require.NoError(t, err)

	assert.Len(t, orders.orders, 3) // organic + 2 new
	assert.Contains(t, orders.orders, organic.ID)
	assert.NotContains(t, orders.orders, firstImportedID)
}

func TestImportUserResolutionIsDeterministic(t *testing.T) {
	orders, _, users, _, svc := newImportFixture()

	_, err := svc.Import(context.Background(), importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{
			row("João Silva", "Maria", nil, "10", ""),
			row("joao silva", "MARIA", nil, "20", ""),
			row("  João   Silva ", "maria", nil, "30", ""),
		},
	})
	require.NoError(t, err)

	// Accents, case and whitespace collapse to one identity per name
	clientIDs := map[uuid.UUID]bool{}
	sellerIDs := map[uuid.UUID]bool{}
	for _, o := range orders.orders {
		clientIDs[o.ClientID] = true
		sellerIDs[o.SellerID] = true
	}
	assert.Len(t, clientIDs, 1)
	assert.Len(t, sellerIDs, 1)
	assert.Equal(t, 2, users.created)
}

func TestImportRecoversWhenUserInsertLosesRace(t *testing.T) {
	orders, _, users, _, svc := newImportFixture()

	// A concurrent import commits the same synthetic client between our
	// miss on the lookup and our insert; the loser must re-read and carry on
	// with the winner's row instead of failing the batch.
	winner := &model.User{
		ID:           uuid.New(),
		Name:         "Maria",
		Email:        "maria@import.local",
		PasswordHash: "!",
		Role:         model.RoleClient,
		Active:       true,
	}
	users.raceWith = map[string]*model.User{winner.Email: winner}

	resp, err := svc.Import(context.Background(), importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{row("Maria", "Pedro", nil, "15", "")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)

	require.Len(t, orders.orders, 1)
	for _, o := range orders.orders {
		assert.Equal(t, winner.ID, o.ClientID)
	}
	// Only the seller counts as created here; the client came from the winner
	assert.Equal(t, 1, users.created)
}

func TestImportBlankNamesGetPlaceholders(t *testing.T) {
	_, _, users, _, svc := newImportFixture()

	_, err := svc.Import(context.Background(), importAdmin(), dto.ImportRequest{
		Mode: "append",
		Rows: []dto.ImportRow{row("", "   ", nil, "10", "")},
	})
	require.NoError(t, err)

	client, err := users.FindByEmail(context.Background(), "cliente@import.local")
	require.NoError(t, err)
	assert.Equal(t, "CLIENTE", client.Name)

	seller, err := users.FindByEmail(context.Background(), "vendedor@import.local")
	require.NoError(t, err)
	assert.Equal(t, "VENDEDOR", seller.Name)
}

func TestSlugEmail(t *testing.T) {
	cases := map[string]string{
		"João da Silva": "joao.da.silva@import.local",
		"MARIA":         "maria@import.local",
		"  Zé  ":        "ze@import.local",
		"Ana-Paula":     "ana.paula@import.local",
		"!!!":           "cliente@import.local",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugEmail(in), in)
	}
}
