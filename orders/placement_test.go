package orders_test

import (
	"context"
	"testing"

	"food-ordering-api/events"
	"food-ordering-api/models"
	"food-ordering-api/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder_SnapshotsPrices(t *testing.T) {
	f := newFixture(t)

	order := f.placeOrder(t)

	assert.Equal(t, models.StatusPlaced, order.Status)
	assert.Equal(t, uint(customerID), order.CustomerID)
	assert.Equal(t, uint(restaurantID), order.RestaurantID)
	assert.True(t, price("15.00").Equal(order.TotalAmount), order.TotalAmount.String())
	require.Len(t, order.Items, 1)
	assert.True(t, price("7.50").Equal(order.Items[0].PriceAtOrder))
	assert.Equal(t, "Carbonara", order.Items[0].Name)
	assert.NotZero(t, order.Items[0].ID)
}

func TestPlaceOrder_MultipleLinesKeepCartOrder(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.PlaceOrder(context.Background(), orders.PlaceOrderInput{
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		DeliveryAddress: "1 Main St",
		Notes:           "ring twice",
		Lines: []orders.CartLine{
			{MenuItemID: sideItemID, Quantity: 3},
			{MenuItemID: menuItemID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, uint(sideItemID), stored.Items[0].MenuItemID)
	assert.Equal(t, uint(menuItemID), stored.Items[1].MenuItemID)
	assert.True(t, price("17.10").Equal(stored.TotalAmount), stored.TotalAmount.String())
	assert.True(t, stored.TotalAmount.Equal(stored.ItemsTotal()))
	assert.Equal(t, "1 Main St", stored.DeliveryAddress)
	assert.Equal(t, "ring twice", stored.Notes)
}

func TestPlaceOrder_LaterPriceChangeDoesNotAlterOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.SetMenuItemPrice(ctx, menuItemID, price("10")))
	order := f.placeOrder(t)
	require.True(t, price("20").Equal(order.TotalAmount))

	require.NoError(t, f.store.SetMenuItemPrice(ctx, menuItemID, price("20")))

	reread, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, price("20").Equal(reread.TotalAmount), reread.TotalAmount.String())
	assert.True(t, price("10").Equal(reread.Items[0].PriceAtOrder))
}

func TestPlaceOrder_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   orders.PlaceOrderInput
		wantErr error
	}{
		{
			name:    "empty_cart",
			input:   orders.PlaceOrderInput{CustomerID: customerID, RestaurantID: restaurantID},
			wantErr: orders.ErrInvalidInput,
		},
		{
			name: "zero_quantity",
			input: orders.PlaceOrderInput{CustomerID: customerID, RestaurantID: restaurantID,
				Lines: []orders.CartLine{{MenuItemID: menuItemID, Quantity: 0}}},
			wantErr: orders.ErrInvalidInput,
		},
		{
			name: "negative_quantity",
			input: orders.PlaceOrderInput{CustomerID: customerID, RestaurantID: restaurantID,
				Lines: []orders.CartLine{{MenuItemID: menuItemID, Quantity: -1}}},
			wantErr: orders.ErrInvalidInput,
		},
		{
			name: "unknown_customer",
			input: orders.PlaceOrderInput{CustomerID: 999, RestaurantID: restaurantID,
				Lines: []orders.CartLine{{MenuItemID: menuItemID, Quantity: 1}}},
			wantErr: orders.ErrUnauthorized,
		},
		{
			name: "restaurant_owner_cannot_order",
			input: orders.PlaceOrderInput{CustomerID: ownerID, RestaurantID: restaurantID,
				Lines: []orders.CartLine{{MenuItemID: menuItemID, Quantity: 1}}},
			wantErr: orders.ErrUnauthorized,
		},
		{
			name: "unknown_restaurant",
			input: orders.PlaceOrderInput{CustomerID: customerID, RestaurantID: 999,
				Lines: []orders.CartLine{{MenuItemID: menuItemID, Quantity: 1}}},
			wantErr: orders.ErrNotFound,
		},
		{
			name: "closed_restaurant",
			input: orders.PlaceOrderInput{CustomerID: customerID, RestaurantID: closedRestaurant,
				Lines: []orders.CartLine{{MenuItemID: menuItemID, Quantity: 1}}},
			wantErr: orders.ErrInvalidInput,
		},
		{
			name: "one_missing_menu_item_aborts_all",
			input: orders.PlaceOrderInput{CustomerID: customerID, RestaurantID: restaurantID,
				Lines: []orders.CartLine{
					{MenuItemID: menuItemID, Quantity: 1},
					{MenuItemID: 999, Quantity: 1},
				}},
			wantErr: orders.ErrNotFound,
		},
		{
			name: "item_from_another_restaurant",
			input: orders.PlaceOrderInput{CustomerID: customerID, RestaurantID: restaurantID,
				Lines: []orders.CartLine{{MenuItemID: foreignItemID, Quantity: 1}}},
			wantErr: orders.ErrInvalidInput,
		},
		{
			name: "unavailable_item",
			input: orders.PlaceOrderInput{CustomerID: customerID, RestaurantID: restaurantID,
				Lines: []orders.CartLine{{MenuItemID: unavailableItemID, Quantity: 1}}},
			wantErr: orders.ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			order, err := f.svc.PlaceOrder(ctx, tc.input)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, tc.wantErr)

			placed, err := f.store.ListOrdersByRestaurant(ctx, restaurantID)
			require.NoError(t, err)
			assert.Empty(t, placed)
			assert.Empty(t, f.publisher.recorded())
		})
	}
}

func TestPlaceOrder_PublishesEvent(t *testing.T) {
	f := newFixture(t)

	order := f.placeOrder(t)

	recorded := f.publisher.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.TypeOrderPlaced, recorded[0].Type)
	assert.Equal(t, order.ID, recorded[0].OrderID)
	assert.Equal(t, models.StatusPlaced, recorded[0].NewStatus)
	assert.True(t, price("15").Equal(recorded[0].TotalAmount))
}

func TestPlaceOrder_PublishFailureDoesNotFailPlacement(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errPublish

	order := f.placeOrder(t)

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaced, stored.Status)
}

func TestPlaceOrder_SnapshotIsRoundedToCents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SetMenuItemPrice(ctx, menuItemID, price("0.005")))

	order, err := f.svc.PlaceOrder(ctx, orders.PlaceOrderInput{
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Lines:        []orders.CartLine{{MenuItemID: menuItemID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.True(t, price("0.01").Equal(order.Items[0].PriceAtOrder), order.Items[0].PriceAtOrder.String())
	assert.True(t, price("0.03").Equal(order.TotalAmount), order.TotalAmount.String())

	stored, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(stored.ItemsTotal()))
}

func TestPlaceOrder_CancelledContextIsTransactionFailure(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.PlaceOrder(ctx, orders.PlaceOrderInput{
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Lines:        []orders.CartLine{{MenuItemID: menuItemID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, orders.ErrTransactionFailure)
	assert.NotErrorIs(t, err, orders.ErrUnauthorized)
}
