package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"campuseats/models"
	"campuseats/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	roll  = models.MenuItem{ID: "1", CanteenID: "c1", Name: "Paneer Roll", Price: 100, IsAvailable: true, IsVegetarian: true}
	juice = models.MenuItem{ID: "2", CanteenID: "c2", Name: "Apple Juice", Price: 40, IsAvailable: true}
)

func testOptions() *pricing.Catalog {
	return pricing.NewCatalog(
		[]models.SizeOption{{ID: "small", Name: "Small", PriceDelta: -40}},
		[]models.AddonOption{{ID: "cheese", Name: "Cheese", Price: 30}, {ID: "sauce", Name: "Sauce", Price: 10}},
		[]models.RemovalOption{{ID: "no-onion", Name: "No Onion"}},
	)
}

func TestStore_AddPricesLine(t *testing.T) {
	s := NewStore("sess", testOptions())

	line, err := s.Add(roll, models.Customization{BasePrice: 1, SizeID: "small", AddonIDs: []string{"cheese"}, Quantity: 2})
	require.NoError(t, err)

	assert.NotEmpty(t, line.ID)
	assert.InDelta(t, 90, line.UnitPrice, 1e-9, "catalog price overrides the client base price")
	assert.InDelta(t, 180, line.Total, 1e-9)
	assert.Equal(t, 2, line.Quantity)
	assert.False(t, line.AddedAt.IsZero())
}

func TestStore_AddClampsQuantity(t *testing.T) {
	s := NewStore("sess", testOptions())

	line, err := s.Add(juice, models.Customization{Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	assert.InDelta(t, 40, line.Total, 1e-9)
}

func TestStore_AddUnavailable(t *testing.T) {
	s := NewStore("sess", testOptions())

	sold := juice
	sold.IsAvailable = false
	_, err := s.Add(sold, models.Customization{Quantity: 1})
	assert.ErrorIs(t, err, ErrItemUnavailable)
	assert.Empty(t, s.Lines())
}

func TestStore_AddMergesIdenticalCustomization(t *testing.T) {
	s := NewStore("sess", testOptions())

	first, err := s.Add(roll, models.Customization{AddonIDs: []string{"cheese", "sauce"}, Quantity: 1})
	require.NoError(t, err)
	second, err := s.Add(roll, models.Customization{AddonIDs: []string{"sauce", "cheese"}, Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.InDelta(t, 420, second.Total, 1e-9)

	_, err = s.Add(roll, models.Customization{AddonIDs: []string{"cheese"}, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, s.Lines(), 2)
}

func TestStore_UpdateAndRemove(t *testing.T) {
	s := NewStore("sess", testOptions())
	line, err := s.Add(roll, models.Customization{Quantity: 1})
	require.NoError(t, err)

	updated, err := s.UpdateQuantity(line.ID, 4)
	require.NoError(t, err)
	assert.InDelta(t, 400, updated.Total, 1e-9)

	_, err = s.UpdateQuantity("missing", 2)
	assert.ErrorIs(t, err, ErrLineNotFound)

	_, err = s.UpdateQuantity(line.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, s.Lines())

	assert.ErrorIs(t, s.Remove(line.ID), ErrLineNotFound)
}

func TestStore_Summary(t *testing.T) {
	s := NewStore("sess", testOptions())
	_, err := s.Add(roll, models.Customization{Quantity: 2})
	require.NoError(t, err)
	_, err = s.Add(juice, models.Customization{Quantity: 1})
	require.NoError(t, err)

	sum := s.Summary()
	assert.Equal(t, 3, sum.ItemCount)
	assert.InDelta(t, 240, sum.Subtotal, 1e-9)
	assert.Equal(t, "₹240.00", sum.Display)
	assert.InDelta(t, 200, sum.ByCanteen["c1"], 1e-9)
	assert.InDelta(t, 40, sum.ByCanteen["c2"], 1e-9)

	s.Clear()
	assert.Equal(t, 0, s.Summary().ItemCount)
}

func TestStore_SubscribeReceivesEvents(t *testing.T) {
	s := NewStore("sess", testOptions())
	events, cancel := s.Subscribe()
	defer cancel()

	line, err := s.Add(roll, models.Customization{Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, s.Remove(line.ID))
	s.Clear()

	want := []Op{OpAdd, OpRemove, OpClear}
	for _, op := range want {
		select {
		case ev := <-events:
			assert.Equal(t, op, ev.Op)
		case <-time.After(time.Second):
			t.Fatalf("no %s event", op)
		}
	}
}

func TestStore_CancelClosesChannel(t *testing.T) {
	s := NewStore("sess", testOptions())
	events, cancel := s.Subscribe()
	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)

	_, err := s.Add(roll, models.Customization{Quantity: 1})
	assert.NoError(t, err)
}

func TestStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewStore("sess", testOptions())
	_, cancel := s.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			s.Clear()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("mutations blocked on a slow subscriber")
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore("sess", testOptions())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Add(roll, models.Customization{Quantity: 1})
		}()
	}
	wg.Wait()

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 50, lines[0].Quantity)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(testOptions(), 0)

	_, err := r.Get("")
	assert.ErrorIs(t, err, ErrSessionRequired)

	a, err := r.Get("alice")
	require.NoError(t, err)
	again, err := r.Get("alice")
	require.NoError(t, err)
	b, err := r.Get("bob")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)

	events, _ := a.Subscribe()
	r.Close()
	_, open := <-events
	assert.False(t, open)

	late, _ := a.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestRegistry_MaxSessions(t *testing.T) {
	r := NewRegistry(testOptions(), 2)

	_, err := r.Get("a")
	require.NoError(t, err)
	_, err = r.Get("b")
	require.NoError(t, err)

	_, err = r.Get("c")
	assert.ErrorIs(t, err, ErrTooManySessions)

	_, err = r.Get("a")
	assert.NoError(t, err, "existing carts stay reachable when full")
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_SweepEvictsIdleCarts(t *testing.T) {
	r := NewRegistry(testOptions(), 0)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		_, err := r.Get(fmt.Sprintf("drive-by-%d", i))
		require.NoError(t, err)
	}
	stale, err := r.Get("stale")
	require.NoError(t, err)
	_, cancelStale := stale.Subscribe()
	cancelStale()

	watched, err := r.Get("watched")
	require.NoError(t, err)
	_, cancelWatch := watched.Subscribe()
	defer cancelWatch()

	now = now.Add(20 * time.Minute)
	active, err := r.Get("active")
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	_, err = r.Get("active")
	require.NoError(t, err)

	assert.Equal(t, 1001, r.Sweep(30*time.Minute), "idle carts are evicted")
	assert.Equal(t, 2, r.Len())

	late, _ := stale.Subscribe()
	_, open := <-late
	assert.False(t, open, "evicted carts are closed")

	again, err := r.Get("active")
	require.NoError(t, err)
	assert.Same(t, active, again)

	again, err = r.Get("watched")
	require.NoError(t, err)
	assert.Same(t, watched, again, "carts with an open stream are kept")
}

func TestRegistry_StartSweeper(t *testing.T) {
	r := NewRegistry(testOptions(), 0)
	_, err := r.Get("gone")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := r.StartSweeper(ctx, 5*time.Millisecond, time.Nanosecond)

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
