package orders_test

import (
	"context"
	"testing"

	"food-ordering-api/models"
	"food-ordering-api/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersByCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.placeOrder(t)
	second := f.placeOrder(t)

	list, err := f.svc.OrdersByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Len(t, list[0].Items, 1)

	empty, err := f.svc.OrdersByCustomer(ctx, otherCustomerID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.svc.OrdersByCustomer(ctx, 999)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestOrdersByRestaurant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.placeOrder(t)

	list, err := f.svc.OrdersByRestaurant(ctx, restaurantID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)

	empty, err := f.svc.OrdersByRestaurant(ctx, otherRestaurantID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.svc.OrdersByRestaurant(ctx, 999)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.placeOrder(t)
	loaded, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaced, loaded.Status)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Carbonara", loaded.Items[0].Name)

	_, err = f.svc.GetOrder(ctx, 999)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestStatusHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.placeOrder(t)
	f.advance(t, order.ID,
		step{models.StatusPreparing, ownerID},
		step{models.StatusCancelled, ownerID},
	)

	history, err := f.svc.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.StatusPlaced, history[0].ToStatus)
	assert.Equal(t, uint(customerID), history[0].ChangedBy)
	assert.Equal(t, models.StatusCancelled, history[2].ToStatus)

	_, err = f.svc.StatusHistory(ctx, 999)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}
