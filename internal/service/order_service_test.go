package service

import (
	"context"
	"testing"

	"lojalink/internal/dto"
	"lojalink/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders   *stubOrderRepo
	products *stubProductRepo
	users    *stubUserRepo
	stock    *stubStockRepo
	svc      OrderService

	client *model.User
	seller *model.User
}

func newOrderFixture() *orderFixture {
	users := newStubUserRepo()
	orders := newStubOrderRepo(users)
	products := newStubProductRepo()
	stores := newStubStoreRepo()
	stock := &stubStockRepo{}
	methods := newStubPaymentMethodRepo()

	f := &orderFixture{
		orders:   orders,
		products: products,
		users:    users,
		stock:    stock,
	}
	f.client = users.add(&model.User{Name: "Cliente", Email: "c@x.com", Role: model.RoleClient, Active: true})
	f.seller = users.add(&model.User{Name: "Vendedor", Email: "v@x.com", Role: model.RoleSeller, Active: true})
	f.svc = NewOrderService(orders, products, users, methods, stores, stock, nil, "Loja Teste", "BRL")
	return f
}

func (f *orderFixture) addProduct(name string, price int64, stock int) *model.Product {
	return f.products.add(&model.Product{
		SKU:    "SKU-" + name,
		Name:   name,
		Price:  decimal.NewFromInt(price),
		Stock:  stock,
		Active: true,
	})
}

func (f *orderFixture) createOrder(t *testing.T, items ...dto.OrderItemRequest) *dto.OrderResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.seller.ID, dto.CreateOrderRequest{
		ClientID: f.client.ID.String(),
		Items:    items,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateOrderDecrementsStockWithPairedMovements(t *testing.T) {
	f := newOrderFixture()
	cafe := f.addProduct("Cafe", 10, 5)
	bolo := f.addProduct("Bolo", 15, 3)

	resp := f.createOrder(t,
		dto.OrderItemRequest{ProductID: cafe.ID.String(), Qty: 2},
		dto.OrderItemRequest{ProductID: bolo.ID.String(), Qty: 1},
	)

	assert.Equal(t, "pending", resp.Status)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(35)))

	assert.Equal(t, 3, f.products.byID[cafe.ID].Stock)
	assert.Equal(t, 2, f.products.byID[bolo.ID].Stock)

	require.Len(t, f.stock.movements, 2)
	for _, m := range f.stock.movements {
		assert.Equal(t, model.MovementOut, m.Kind)
		assert.Equal(t, m.StockBefore-m.Qty, m.StockAfter)
		require.NotNil(t, m.ReferenceType)
		assert.Equal(t, "order", *m.ReferenceType)
	}

	// Creation appends the first audit row
	require.Len(t, f.orders.logs, 1)
	assert.Equal(t, model.LogActionCreate, f.orders.logs[0].Action)
	assert.Equal(t, model.StatusPending, f.orders.logs[0].ToStatus)
	assert.Equal(t, f.seller.ID, f.orders.logs[0].ByUserID)
}

func TestCreateOrderRejectsInsufficientStock(t *testing.T) {
	f := newOrderFixture()
	cafe := f.addProduct("Cafe", 10, 1)

	_, err := f.svc.Create(context.Background(), f.seller.ID, dto.CreateOrderRequest{
		ClientID: f.client.ID.String(),
		Items:    []dto.OrderItemRequest{{ProductID: cafe.ID.String(), Qty: 2}},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCreateOrderRejectsPaymentMismatch(t *testing.T) {
	f := newOrderFixture()
	cafe := f.addProduct("Cafe", 10, 5)

	_, err := f.svc.Create(context.Background(), f.seller.ID, dto.CreateOrderRequest{
		ClientID: f.client.ID.String(),
		Items:    []dto.OrderItemRequest{{ProductID: cafe.ID.String(), Qty: 1}},
		Payments: []dto.OrderPaymentRequest{
			{PaymentMethodID: uuid.NewString(), Amount: decimal.NewFromInt(7)},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pagamentos")
}

func TestCreateOrderRejectsUnknownClient(t *testing.T) {
	f := newOrderFixture()
	cafe := f.addProduct("Cafe", 10, 5)

	_, err := f.svc.Create(context.Background(), f.seller.ID, dto.CreateOrderRequest{
		ClientID: uuid.NewString(),
		Items:    []dto.OrderItemRequest{{ProductID: cafe.ID.String(), Qty: 1}},
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangeStatusFollowsTransitionTable(t *testing.T) {
	f := newOrderFixture()
	cafe := f.addProduct("Cafe", 10, 5)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: cafe.ID.String(), Qty: 1})
	orderID := uuid.MustParse(created.ID)

	kitchen := Actor{ID: uuid.New(), Role: model.RoleKitchen}
	delivery := Actor{ID: uuid.New(), Role: model.RoleDelivery}

	resp, err := f.svc.ChangeStatus(context.Background(), orderID, "preparing", kitchen)
	require.NoError(t, err)
	assert.Equal(t, "preparing", resp.Status)

	resp, err = f.svc.ChangeStatus(context.Background(), orderID, "ready", kitchen)
	require.NoError(t, err)
	assert.Equal(t, "ready", resp.Status)

	resp, err = f.svc.ChangeStatus(context.Background(), orderID, "delivered", delivery)
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Status)

	// create + 3 status changes, each with from/to filled
	require.Len(t, f.orders.logs, 4)
	change := f.orders.logs[1]
	assert.Equal(t, model.LogActionStatusChange, change.Action)
	require.NotNil(t, change.FromStatus)
	assert.Equal(t, model.StatusPending, *change.FromStatus)
	assert.Equal(t, model.StatusPreparing, change.ToStatus)
	assert.Equal(t, kitchen.ID, change.ByUserID)
}

func TestChangeStatusErrorTaxonomy(t *testing.T) {
	f := newOrderFixture()
	cafe := f.addProduct("Cafe", 10, 5)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: cafe.ID.String(), Qty: 1})
	orderID := uuid.MustParse(created.ID)
	admin := Actor{ID: uuid.New(), Role: model.RoleAdmin}

	// Unknown order
	_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), "preparing", admin)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Unparsable status
	_, err = f.svc.ChangeStatus(context.Background(), orderID, "em preparo", admin)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Edge missing from the table
	_, err = f.svc.ChangeStatus(context.Background(), orderID, "delivered", admin)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// Edge exists, role not allowed
	seller := Actor{ID: f.seller.ID, Role: model.RoleSeller}
	_, err = f.svc.ChangeStatus(context.Background(), orderID, "canceled", seller)
	assert.ErrorIs(t, err, ErrTransitionDenied)

	// Nothing above may have moved the order
	order, ferr := f.orders.FindByID(context.Background(), orderID)
	require.NoError(t, ferr)
	assert.Equal(t, model.StatusPending, order.Status)
}

func TestCancelRestoresStock(t *testing.T) {
	f := newOrderFixture()
	cafe := f.addProduct("Cafe", 10, 5)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: cafe.ID.String(), Qty: 3})
	orderID := uuid.MustParse(created.ID)

	assert.Equal(t, 2, f.products.byID[cafe.ID].Stock)

	admin := Actor{ID: uuid.New(), Role: model.RoleAdmin}
	_, err := f.svc.ChangeStatus(context.Background(), orderID, "canceled", admin)
	require.NoError(t, err)

	assert.Equal(t, 5, f.products.byID[cafe.ID].Stock)

	// out movement from creation + in movement from the cancel
	require.Len(t, f.stock.movements, 2)
	restore := f.stock.movements[1]
	assert.Equal(t, model.MovementIn, restore.Kind)
	assert.Equal(t, 3, restore.Qty)
	require.NotNil(t, restore.ReferenceType)
	assert.Equal(t, "order_cancel", *restore.ReferenceType)
}

func TestOrderLogsAreNewestFirst(t *testing.T) {
	f := newOrderFixture()
	cafe := f.addProduct("Cafe", 10, 5)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: cafe.ID.String(), Qty: 1})
	orderID := uuid.MustParse(created.ID)

	admin := Actor{ID: uuid.New(), Role: model.RoleAdmin}
	_, err := f.svc.ChangeStatus(context.Background(), orderID, "preparing", admin)
	require.NoError(t, err)

	logs, err := f.svc.Logs(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.LogActionStatusChange, logs[0].Action)
	assert.Equal(t, model.LogActionCreate, logs[1].Action)
}
