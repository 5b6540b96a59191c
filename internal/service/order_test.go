package service

import (
	"context"
	"encoding/base64"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicosmin02/furniture-store-api/internal/db/repository"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/storage"
)

func testDeliveryInfo() models.DeliveryInfo {
	return models.DeliveryInfo{
		FullName: "Jane Doe",
		Phone:    "021555123",
		Email:    "jane@example.com",
		Address:  "12 Harbour St",
	}
}

func newOrderFixture(products ...models.Product) (*OrderService, *fakeOrderStore, *fakeProductStore, *fakeMedia) {
	productStore := newFakeProductStore(products...)
	orderStore := newFakeOrderStore(productStore)
	media := newFakeMedia()
	return NewOrderService(orderStore, productStore, media), orderStore, productStore, media
}

func TestOrderCreate_DecrementsStockAndStartsPending(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Price: 120, Quantity: 10}
	table := models.Product{ID: uuid.New(), Name: "Oak Table", Category: "tables", Price: 450, Quantity: 3}
	svc, _, productStore, _ := newOrderFixture(chair, table)

	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	order, err := svc.Create(context.Background(), actor, models.OrderRequest{
		Products: []models.OrderLineRequest{
			{ProductID: chair.ID, Quantity: 4},
			{ProductID: table.ID, Quantity: 1},
		},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Lines, 2)
	for _, line := range order.Lines {
		assert.Equal(t, models.OrderStatusPending, line.Status)
	}

	gotChair, err := productStore.GetByID(context.Background(), chair.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, gotChair.Quantity)

	gotTable, err := productStore.GetByID(context.Background(), table.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotTable.Quantity)
}

func TestOrderCreate_InsufficientStockRejectsWholeOrder(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Price: 120, Quantity: 10}
	table := models.Product{ID: uuid.New(), Name: "Oak Table", Category: "tables", Price: 450, Quantity: 1}
	svc, orderStore, productStore, _ := newOrderFixture(chair, table)

	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	_, err := svc.Create(context.Background(), actor, models.OrderRequest{
		Products: []models.OrderLineRequest{
			{ProductID: chair.ID, Quantity: 2},
			{ProductID: table.ID, Quantity: 5},
		},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// The under-stocked line must fail before anything is written.
	assert.Zero(t, orderStore.createCalls)

	gotChair, _ := productStore.GetByID(context.Background(), chair.ID)
	assert.Equal(t, 10, gotChair.Quantity)
	gotTable, _ := productStore.GetByID(context.Background(), table.ID)
	assert.Equal(t, 1, gotTable.Quantity)
}

// contendedOrderStore simulates a concurrent order claiming the stock
// after the service's validation pass but before the store commits.
type contendedOrderStore struct {
	*fakeOrderStore
}

func (s *contendedOrderStore) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	for _, line := range order.Lines {
		p := s.products.products[line.ProductID]
		p.Quantity = 0
		s.products.products[p.ID] = p
	}
	return s.fakeOrderStore.Create(ctx, order)
}

func TestOrderCreate_StockClaimedBeforeCommit(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Price: 120, Quantity: 2}
	productStore := newFakeProductStore(chair)
	orderStore := &contendedOrderStore{newFakeOrderStore(productStore)}
	svc := NewOrderService(orderStore, productStore, newFakeMedia())

	// Validation sees stock, but the conditional decrement loses the race.
	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	_, err := svc.Create(context.Background(), actor, models.OrderRequest{
		Products:     []models.OrderLineRequest{{ProductID: chair.ID, Quantity: 2}},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	assert.Empty(t, orderStore.orders)
}

func TestOrderCreate_UnknownProductRejected(t *testing.T) {
	svc, orderStore, _, _ := newOrderFixture()

	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	_, err := svc.Create(context.Background(), actor, models.OrderRequest{
		Products: []models.OrderLineRequest{
			{ProductID: uuid.New(), Quantity: 1},
		},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, orderStore.createCalls)
}

func TestOrderCreate_RequiresDeliveryInfoAndLines(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Quantity: 5}
	svc, _, _, _ := newOrderFixture(chair)
	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}

	_, err := svc.Create(context.Background(), actor, models.OrderRequest{
		DeliveryInfo: testDeliveryInfo(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), actor, models.OrderRequest{
		Products: []models.OrderLineRequest{{ProductID: chair.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), actor, models.OrderRequest{
		Products:     []models.OrderLineRequest{{ProductID: chair.ID, Quantity: 0}},
		DeliveryInfo: testDeliveryInfo(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrderCreate_StoresCustomImage(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Quantity: 5}
	svc, _, _, media := newOrderFixture(chair)

	image := []byte("fake-jpeg-bytes")
	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	order, err := svc.Create(context.Background(), actor, models.OrderRequest{
		Products: []models.OrderLineRequest{{
			ProductID:            chair.ID,
			Quantity:             1,
			FurnitureImageBase64: base64.StdEncoding.EncodeToString(image),
		}},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.NoError(t, err)

	require.NotNil(t, order.Lines[0].CustomImageKey)
	assert.Equal(t, image, media.objects[*order.Lines[0].CustomImageKey])
}

func TestOrderCreate_RejectsBadBase64(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Quantity: 5}
	svc, _, _, _ := newOrderFixture(chair)

	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	_, err := svc.Create(context.Background(), actor, models.OrderRequest{
		Products: []models.OrderLineRequest{{
			ProductID:            chair.ID,
			Quantity:             1,
			FurnitureImageBase64: "not base64!!!",
		}},
		DeliveryInfo: testDeliveryInfo(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrderGet_OwnershipEnforced(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Quantity: 5}
	svc, _, _, _ := newOrderFixture(chair)

	owner := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	order, err := svc.Create(context.Background(), owner, models.OrderRequest{
		Products:     []models.OrderLineRequest{{ProductID: chair.ID, Quantity: 1}},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.NoError(t, err)

	// Owner and admin can read it.
	_, err = svc.Get(context.Background(), owner, order.ID)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), Actor{UserID: uuid.New(), Role: models.RoleAdmin}, order.ID)
	assert.NoError(t, err)

	// Any other customer cannot.
	_, err = svc.Get(context.Background(), Actor{UserID: uuid.New(), Role: models.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderUpdateStatus_PropagatesExceptDelivered(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Quantity: 5}
	table := models.Product{ID: uuid.New(), Name: "Oak Table", Category: "tables", Quantity: 5}
	svc, orderStore, _, _ := newOrderFixture(chair, table)

	actor := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	order, err := svc.Create(context.Background(), actor, models.OrderRequest{
		Products: []models.OrderLineRequest{
			{ProductID: chair.ID, Quantity: 1},
			{ProductID: table.ID, Quantity: 1},
		},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.NoError(t, err)

	// Deliver one line individually.
	_, err = svc.UpdateLineStatus(context.Background(), order.ID, chair.ID, models.OrderStatusDelivered)
	require.NoError(t, err)

	// Cancel the whole order. The delivered line must keep its status.
	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)

	saved, err := orderStore.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	for _, line := range saved.Lines {
		if line.ProductID == chair.ID {
			assert.Equal(t, models.OrderStatusDelivered, line.Status)
		} else {
			assert.Equal(t, models.OrderStatusCancelled, line.Status)
		}
	}
}

func TestOrderUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newOrderFixture()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "misplaced")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrderLineImage(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Quantity: 5}
	svc, _, _, _ := newOrderFixture(chair)

	owner := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	image := []byte("fake-jpeg-bytes")
	order, err := svc.Create(context.Background(), owner, models.OrderRequest{
		Products: []models.OrderLineRequest{{
			ProductID:            chair.ID,
			Quantity:             1,
			FurnitureImageBase64: base64.StdEncoding.EncodeToString(image),
		}},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.NoError(t, err)

	rc, _, err := svc.LineImage(context.Background(), owner, order.ID, order.Lines[0].ID)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, image, data)

	// A stranger cannot fetch it.
	_, _, err = svc.LineImage(context.Background(), Actor{UserID: uuid.New(), Role: models.RoleCustomer}, order.ID, order.Lines[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderLineImage_NoCustomImage(t *testing.T) {
	chair := models.Product{ID: uuid.New(), Name: "Oak Chair", Category: "chairs", Quantity: 5}
	svc, _, _, _ := newOrderFixture(chair)

	owner := Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	order, err := svc.Create(context.Background(), owner, models.OrderRequest{
		Products:     []models.OrderLineRequest{{ProductID: chair.ID, Quantity: 1}},
		DeliveryInfo: testDeliveryInfo(),
	})
	require.NoError(t, err)

	_, _, err = svc.LineImage(context.Background(), owner, order.ID, order.Lines[0].ID)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}
