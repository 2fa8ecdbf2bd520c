package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/resto-backoffice/internal/catalog"
	"github.com/example/resto-backoffice/internal/events"
	"github.com/example/resto-backoffice/internal/infrastructure/store"
	"github.com/example/resto-backoffice/internal/infrastructure/store/mocks"
	"github.com/example/resto-backoffice/internal/margin"
	"github.com/example/resto-backoffice/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedEvent struct {
	Key  string
	Type string
	Data any
}

type mockPublisher struct {
	mu     sync.Mutex
	Err    error
	Events []publishedEvent
}

func (p *mockPublisher) Publish(_ context.Context, key, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, publishedEvent{Key: key, Type: eventType, Data: data})
	return nil
}

type marginStoreStub struct {
	mu    sync.Mutex
	value float64
	Calls int
}

func (s *marginStoreStub) OrderMargin(context.Context, string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	return s.value, nil
}

type testEnv struct {
	handler   *Handler
	orders    *mocks.MockOrderStore
	stock     *mocks.MockStockAdjuster
	catalog   *mocks.MockCatalogStore
	margins   *marginStoreStub
	publisher *mockPublisher
}

func newTestHandler() testEnv {
	orders := mocks.NewMockOrderStore()
	stock := mocks.NewMockStockAdjuster()
	catalogStore := mocks.NewMockCatalogStore()
	marginStore := &marginStoreStub{}
	publisher := &mockPublisher{}

	handler := NewHandler(
		orders,
		stock,
		catalog.NewService(catalogStore),
		margin.NewCalculator(marginStore),
		publisher,
	)
	return testEnv{
		handler:   handler,
		orders:    orders,
		stock:     stock,
		catalog:   catalogStore,
		margins:   marginStore,
		publisher: publisher,
	}
}

// seedProduct registers a product in both the catalog snapshot and the stock
// adjuster, the two places stock is read from.
func (e testEnv) seedProduct(id, name string, stock int, cost, selling float64) {
	e.catalog.Seed(catalog.Product{ID: id, Name: name, StockQuantity: stock, CostPrice: cost, SellingPrice: selling})
	e.stock.SetStock(id, stock)
}

// ============================================
// Create Order Tests - Happy Path
// ============================================

func TestHandler_CreateOrder_Success(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.seedProduct("p-bread", "Pain", 10, 1.50, 3.00)
	env.seedProduct("p-butter", "Beurre", 5, 3.00, 5.00)

	cmd := CreateOrder{
		OrderNumber:   "CMD-240101-007",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentCarte,
		Items: []OrderItemInput{
			{ProductID: "p-bread", Quantity: 2, UnitPrice: 3.00},
			{ProductID: "p-butter", Quantity: 1, UnitPrice: 5.00},
		},
	}

	created, err := env.handler.CreateOrder(ctx, cmd)

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "CMD-240101-007", created.OrderNumber)
	assert.Equal(t, 11.00, created.TotalAmount)

	// Stock deducted by exactly the ordered quantities
	assert.Equal(t, 8, env.stock.Stock("p-bread"))
	assert.Equal(t, 4, env.stock.Stock("p-butter"))

	// Order row before items, one item row per line
	assert.Len(t, env.orders.InsertCalls, 1)
	assert.Len(t, env.orders.InsertItemCalls, 2)
	assert.Len(t, env.stock.DecrementCalls, 2)

	require.Len(t, env.publisher.Events, 1)
	assert.Equal(t, events.TypeOrderCreated, env.publisher.Events[0].Type)
	assert.Equal(t, created.ID, env.publisher.Events[0].Key)
}

func TestHandler_CreateOrder_PublishFailureDoesNotFailCreate(t *testing.T) {
	env := newTestHandler()
	env.publisher.Err = errors.New("broker unavailable")
	env.seedProduct("p-1", "Pain", 10, 1, 2)

	created, err := env.handler.CreateOrder(context.Background(), CreateOrder{
		OrderNumber:   "CMD-240101-001",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentEspeces,
		Items:         []OrderItemInput{{ProductID: "p-1", Quantity: 1, UnitPrice: 2}},
	})

	require.NoError(t, err)
	assert.NotNil(t, created)
}

// ============================================
// Create Order Tests - Validation
// ============================================

func TestHandler_CreateOrder_NonPositiveQuantity(t *testing.T) {
	env := newTestHandler()
	env.seedProduct("p-1", "Pain", 10, 1, 2)

	_, err := env.handler.CreateOrder(context.Background(), CreateOrder{
		OrderNumber:   "CMD-240101-001",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentCarte,
		Items:         []OrderItemInput{{ProductID: "p-1", Quantity: 0, UnitPrice: 2}},
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "item_0_quantity")

	// No write attempted
	assert.Empty(t, env.orders.InsertCalls)
	assert.Empty(t, env.stock.DecrementCalls)
}

func TestHandler_CreateOrder_QuantityExceedsSnapshotStock(t *testing.T) {
	env := newTestHandler()
	env.seedProduct("p-1", "Pain", 3, 1, 2)

	_, err := env.handler.CreateOrder(context.Background(), CreateOrder{
		OrderNumber:   "CMD-240101-001",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentCarte,
		Items:         []OrderItemInput{{ProductID: "p-1", Quantity: 4, UnitPrice: 2}},
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Stock insuffisant (3 disponible)", verrs["item_0_stock"])
	assert.Empty(t, env.orders.InsertCalls)
}

func TestHandler_CreateOrder_NoProductSelected(t *testing.T) {
	env := newTestHandler()

	_, err := env.handler.CreateOrder(context.Background(), CreateOrder{
		OrderNumber:   "CMD-240101-001",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentCarte,
		Items:         []OrderItemInput{{ProductID: "", Quantity: 1, UnitPrice: 2}},
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "item_0_product")
	assert.Contains(t, verrs, "items")
	assert.Empty(t, env.orders.InsertCalls)
}

func TestHandler_CreateOrder_NoItems(t *testing.T) {
	env := newTestHandler()

	_, err := env.handler.CreateOrder(context.Background(), CreateOrder{
		OrderNumber:   "CMD-240101-001",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentCarte,
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Au moins un article valide est requis", verrs["items"])
}

func TestHandler_CreateOrder_MissingHeaderFields(t *testing.T) {
	env := newTestHandler()
	env.seedProduct("p-1", "Pain", 10, 1, 2)

	_, err := env.handler.CreateOrder(context.Background(), CreateOrder{
		Items: []OrderItemInput{{ProductID: "p-1", Quantity: 1, UnitPrice: 2}},
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Le numéro de commande est requis", verrs["order_number"])
	assert.Equal(t, "Le statut est requis", verrs["status"])
	assert.Equal(t, "La méthode de paiement est requise", verrs["payment_method"])
}

// ============================================
// Create Order Tests - Compensation
// ============================================

func TestHandler_CreateOrder_InsufficientStockAtDecrementCompensates(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.seedProduct("p-1", "Pain", 10, 1, 2)
	env.seedProduct("p-2", "Beurre", 5, 3, 5)
	// Another session consumed p-2's stock after our snapshot was taken.
	env.stock.SetStock("p-2", 1)

	_, err := env.handler.CreateOrder(ctx, CreateOrder{
		OrderNumber:   "CMD-240101-001",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentCarte,
		Items: []OrderItemInput{
			{ProductID: "p-1", Quantity: 2, UnitPrice: 2},
			{ProductID: "p-2", Quantity: 3, UnitPrice: 5},
		},
	})

	require.ErrorIs(t, err, store.ErrInsufficientStock)

	// First item's decrement was reversed and the order row removed
	assert.Equal(t, 10, env.stock.Stock("p-1"))
	assert.Equal(t, 1, env.stock.Stock("p-2"))
	assert.Empty(t, env.orders.Orders())
	assert.Empty(t, env.publisher.Events)
}

func TestHandler_CreateOrder_ItemInsertFailureCompensates(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.seedProduct("p-1", "Pain", 10, 1, 2)
	env.seedProduct("p-2", "Beurre", 5, 3, 5)
	env.orders.FailItemAfter = 1

	_, err := env.handler.CreateOrder(ctx, CreateOrder{
		OrderNumber:   "CMD-240101-001",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentCarte,
		Items: []OrderItemInput{
			{ProductID: "p-1", Quantity: 2, UnitPrice: 2},
			{ProductID: "p-2", Quantity: 1, UnitPrice: 5},
		},
	})

	require.Error(t, err)
	assert.Equal(t, 10, env.stock.Stock("p-1"))
	assert.Equal(t, 5, env.stock.Stock("p-2"))
	assert.Empty(t, env.orders.Orders())
}

// ============================================
// Update Order Tests
// ============================================

func TestHandler_UpdateOrder_RecomputesTotalFromItems(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.orders.Seed(order.Order{ID: "order-1", OrderNumber: "CMD-240101-001", Status: order.StatusEnCours, TotalAmount: 11}, nil)

	updated, err := env.handler.UpdateOrder(ctx, UpdateOrder{
		OrderID: "order-1",
		Items: []OrderItemInput{
			{ProductID: "p-1", Quantity: 3, UnitPrice: 2.50},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 7.50, updated.TotalAmount)

	require.Len(t, env.orders.UpdateCalls, 1)
	require.NotNil(t, env.orders.UpdateCalls[0].Update.TotalAmount)
	assert.Equal(t, 7.50, *env.orders.UpdateCalls[0].Update.TotalAmount)

	// Item edits never touch stock on the update path
	assert.Empty(t, env.stock.DecrementCalls)
	assert.Empty(t, env.stock.IncrementCalls)
}

func TestHandler_UpdateOrder_NotFound(t *testing.T) {
	env := newTestHandler()

	_, err := env.handler.UpdateOrder(context.Background(), UpdateOrder{OrderID: "missing"})

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestHandler_UpdateOrder_InvalidatesMarginCache(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.orders.Seed(order.Order{ID: "order-1", Status: order.StatusEnCours}, nil)

	env.margins.value = 4.5
	assert.Equal(t, 4.5, env.handler.margins.ForOrder(ctx, "order-1"))
	assert.Equal(t, 1, env.margins.Calls)

	_, err := env.handler.UpdateOrder(ctx, UpdateOrder{OrderID: "order-1"})
	require.NoError(t, err)

	// Cache entry dropped, next read hits the store again
	env.handler.margins.ForOrder(ctx, "order-1")
	assert.Equal(t, 2, env.margins.Calls)
}

// ============================================
// Status Change Tests
// ============================================

func TestHandler_ChangeStatus_OnlyTouchesStatus(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.orders.Seed(order.Order{
		ID:            "order-1",
		OrderNumber:   "CMD-240101-001",
		Status:        order.StatusEnCours,
		PaymentMethod: order.PaymentCarte,
		TotalAmount:   11.00,
	}, []order.Item{{ProductID: "p-1", Quantity: 2, UnitPrice: 5.50}})

	updated, err := env.handler.ChangeStatus(ctx, ChangeOrderStatus{OrderID: "order-1", Status: order.StatusPret})

	require.NoError(t, err)
	assert.Equal(t, order.StatusPret, updated.Status)
	assert.Equal(t, 11.00, updated.TotalAmount)

	require.Len(t, env.orders.UpdateCalls, 1)
	update := env.orders.UpdateCalls[0].Update
	assert.NotNil(t, update.Status)
	assert.Nil(t, update.TotalAmount)
	assert.Nil(t, update.OrderNumber)
	assert.Nil(t, update.PaymentMethod)

	// No stock effect
	assert.Empty(t, env.stock.DecrementCalls)
	assert.Empty(t, env.stock.IncrementCalls)
}

func TestHandler_ChangeStatus_InvalidStatus(t *testing.T) {
	env := newTestHandler()

	_, err := env.handler.ChangeStatus(context.Background(), ChangeOrderStatus{OrderID: "order-1", Status: "expédié"})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "status")
	assert.Empty(t, env.orders.UpdateCalls)
}

// ============================================
// Delete Order Tests
// ============================================

func TestHandler_DeleteOrder_RestoresStock(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.seedProduct("p-1", "Pain", 8, 1, 2)
	env.seedProduct("p-2", "Beurre", 4, 3, 5)
	env.orders.Seed(order.Order{ID: "order-1", OrderNumber: "CMD-240101-001"}, []order.Item{
		{ID: "item-1", OrderID: "order-1", ProductID: "p-1", Quantity: 2, UnitPrice: 3},
		{ID: "item-2", OrderID: "order-1", ProductID: "p-2", Quantity: 1, UnitPrice: 5},
	})

	err := env.handler.DeleteOrder(ctx, DeleteOrder{OrderID: "order-1"})

	require.NoError(t, err)
	assert.Equal(t, 10, env.stock.Stock("p-1"))
	assert.Equal(t, 5, env.stock.Stock("p-2"))
	assert.Empty(t, env.orders.Orders())

	require.Len(t, env.publisher.Events, 1)
	assert.Equal(t, events.TypeOrderDeleted, env.publisher.Events[0].Type)
	deleted := env.publisher.Events[0].Data.(events.OrderDeleted)
	assert.Len(t, deleted.RestoredItems, 2)
}

func TestHandler_DeleteOrder_AlreadyDeleted(t *testing.T) {
	env := newTestHandler()

	err := env.handler.DeleteOrder(context.Background(), DeleteOrder{OrderID: "gone"})

	// Deleting a missing order is an error, not a silent success
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Empty(t, env.stock.IncrementCalls)
}

func TestHandler_DeleteOrder_PartialRestoreReported(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.seedProduct("p-1", "Pain", 8, 1, 2)
	env.seedProduct("p-2", "Beurre", 4, 3, 5)
	env.stock.FailIncrementFor = "p-2"
	env.orders.Seed(order.Order{ID: "order-1", OrderNumber: "CMD-240101-001"}, []order.Item{
		{ID: "item-1", OrderID: "order-1", ProductID: "p-1", Quantity: 2, UnitPrice: 3},
		{ID: "item-2", OrderID: "order-1", ProductID: "p-2", Quantity: 1, UnitPrice: 5},
	})

	err := env.handler.DeleteOrder(ctx, DeleteOrder{OrderID: "order-1"})

	require.ErrorIs(t, err, ErrPartialRestore)

	// The order is gone and the first restore stuck; p-2 was not retried
	assert.Empty(t, env.orders.Orders())
	assert.Equal(t, 10, env.stock.Stock("p-1"))
	assert.Equal(t, 4, env.stock.Stock("p-2"))
}

// ============================================
// Intake Tests
// ============================================

func TestHandler_IntakeProduct_PublishesEvent(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.catalog.Seed(catalog.Product{ID: "p-1", Name: "Tomates", StockQuantity: 5, CostPrice: 2, SellingPrice: 4})

	result, err := env.handler.IntakeProduct(ctx, catalog.ProductInput{
		Name:          "Tomates",
		StockQuantity: 3,
		CostPrice:     2,
		SellingPrice:  4,
	})

	require.NoError(t, err)
	assert.False(t, result.IsNew)
	assert.Equal(t, 8, result.Product.StockQuantity)

	require.Len(t, env.publisher.Events, 1)
	assert.Equal(t, events.TypeProductUpserted, env.publisher.Events[0].Type)
	upserted := env.publisher.Events[0].Data.(events.ProductUpserted)
	assert.Equal(t, 3, upserted.AddedQuantity)
	assert.Equal(t, 8, upserted.StockQuantity)
}

func TestHandler_IntakeProduct_ValidationFailurePublishesNothing(t *testing.T) {
	env := newTestHandler()

	_, err := env.handler.IntakeProduct(context.Background(), catalog.ProductInput{})

	assert.ErrorIs(t, err, catalog.ErrInvalidName)
	assert.Empty(t, env.publisher.Events)
}
