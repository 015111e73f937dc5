package orders_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/models"
	"food-ordering-api/orders"
	"food-ordering-api/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	customerID        = 1
	otherCustomerID   = 2
	ownerID           = 3
	otherOwnerID      = 4
	restaurantID      = 5
	otherRestaurantID = 6
	closedRestaurant  = 7

	menuItemID        = 42
	sideItemID        = 43
	unavailableItemID = 44
	foreignItemID     = 45
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) recorded() []events.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderEvent(nil), p.events...)
}

type fixture struct {
	store     *store.Store
	svc       *orders.Service
	publisher *recordingPublisher
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	for _, u := range []models.User{
		{ID: customerID, Name: "Ada", Email: "ada@example.com", Role: models.RoleCustomer},
		{ID: otherCustomerID, Name: "Bo", Email: "bo@example.com", Role: models.RoleCustomer},
		{ID: ownerID, Name: "Chef", Email: "chef@example.com", Role: models.RoleRestaurantOwner},
		{ID: otherOwnerID, Name: "Rival", Email: "rival@example.com", Role: models.RoleRestaurantOwner},
	} {
		u := u
		require.NoError(t, st.CreateUser(ctx, &u))
	}
	for _, r := range []models.Restaurant{
		{ID: restaurantID, OwnerID: ownerID, Name: "Pasta Place", IsOpen: true},
		{ID: otherRestaurantID, OwnerID: otherOwnerID, Name: "Taco Town", IsOpen: true},
		{ID: closedRestaurant, OwnerID: ownerID, Name: "Night Kitchen", IsOpen: false},
	} {
		r := r
		require.NoError(t, st.CreateRestaurant(ctx, &r))
	}
	for _, m := range []models.MenuItem{
		{ID: menuItemID, RestaurantID: restaurantID, Name: "Carbonara", Price: price("7.50"), IsAvailable: true},
		{ID: sideItemID, RestaurantID: restaurantID, Name: "Garlic Bread", Price: price("3.20"), IsAvailable: true},
		{ID: unavailableItemID, RestaurantID: restaurantID, Name: "Truffle Risotto", Price: price("19.00"), IsAvailable: false},
		{ID: foreignItemID, RestaurantID: otherRestaurantID, Name: "Taco", Price: price("2.00"), IsAvailable: true},
	} {
		m := m
		require.NoError(t, st.CreateMenuItem(ctx, &m))
	}

	pub := &recordingPublisher{}
	return &fixture{store: st, svc: orders.NewService(st, pub, log), publisher: pub}
}

// placeOrder places a one-line order for the default customer and restaurant
func (f *fixture) placeOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.svc.PlaceOrder(context.Background(), orders.PlaceOrderInput{
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Lines:        []orders.CartLine{{MenuItemID: menuItemID, Quantity: 2}},
	})
	require.NoError(t, err)
	return order
}

// advance walks the order through the given statuses as the given actors
func (f *fixture) advance(t *testing.T, orderID uint, steps ...step) {
	t.Helper()
	for _, s := range steps {
		_, err := f.svc.UpdateStatus(context.Background(), orders.UpdateStatusInput{
			OrderID: orderID, Status: s.status, ActingUserID: s.actor,
		})
		require.NoError(t, err, "moving to %s", s.status)
	}
}

type step struct {
	status models.OrderStatus
	actor  uint
}

var errPublish = errors.New("broker unavailable")
