package order

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/chanwit-mk/marketplace-backend/internal/geo"
	"github.com/chanwit-mk/marketplace-backend/internal/item"
)

const (
	merchantA = 7
	merchantB = 8
	customer  = 42
)

func newTestService() (*Service, *item.InMemoryRepository, *InMemoryRepository) {
	items := item.NewInMemoryRepository([]item.Item{
		{ID: 1, Name: "Desk Lamp", Price: decimal.NewFromInt(25), Stock: 5, MerchantID: merchantA, IsActive: true},
		{ID: 2, Name: "Mug", Price: decimal.NewFromInt(8), Stock: 2, MerchantID: merchantB, IsActive: true},
	})
	repo := NewInMemoryRepository(items)
	refs := geo.NewInMemoryRepository(
		[]geo.Country{{ID: 1, Name: "United States"}},
		[]geo.State{{ID: 1, CountryID: 1, Name: "California"}},
		[]geo.City{{ID: 1, StateID: 1, Name: "Los Angeles"}},
	)
	return NewService(repo, refs, item.NewService(items, nil)), items, repo
}

func validInput() PlaceInput {
	return PlaceInput{
		Shipping: ShippingInfo{
			FirstName:     "Ada",
			LastName:      "Lovelace",
			Address:       "12 Analytical St",
			CountryID:     1,
			StateID:       1,
			CityID:        1,
			ZipPostalCode: "90001",
			Phone:         "555-0102",
			Email:         "ada@example.com",
		},
		PaymentMethod: "cash",
		Items: []LineInput{
			{ItemID: 1, Quantity: 2, Price: decimal.NewFromInt(25)},
			{ItemID: 2, Quantity: 1, Price: decimal.NewFromInt(8)},
		},
		Total: decimal.NewFromInt(58),
	}
}

func TestPlace_StoresSubmittedLines(t *testing.T) {
	svc, items, _ := newTestService()

	in := validInput()
	// submitted prices are stored as-is, even when the catalog disagrees
	in.Items[0].Price = decimal.NewFromInt(1)
	in.Total = decimal.NewFromInt(10)

	o, err := svc.Place(customer, in)
	require.NoError(t, err)
	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, customer, o.UserID)
	require.Len(t, o.Items, 2)
	require.True(t, o.Items[0].Price.Equal(decimal.NewFromInt(1)))
	require.True(t, o.Total.Equal(decimal.NewFromInt(10)))

	// placement never touches stock
	it, err := items.GetByID(1)
	require.NoError(t, err)
	require.Equal(t, 5, it.Stock)
}

func TestPlace_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []struct {
		name   string
		mutate func(*PlaceInput)
	}{
		{"missing first name", func(in *PlaceInput) { in.Shipping.FirstName = " " }},
		{"bad email", func(in *PlaceInput) { in.Shipping.Email = "not-an-email" }},
		{"bad payment method", func(in *PlaceInput) { in.PaymentMethod = "paypal" }},
		{"no items", func(in *PlaceInput) { in.Items = nil }},
		{"zero quantity", func(in *PlaceInput) { in.Items[0].Quantity = 0 }},
		{"negative price", func(in *PlaceInput) { in.Items[0].Price = decimal.NewFromInt(-1) }},
		{"unknown item", func(in *PlaceInput) { in.Items[0].ItemID = 99 }},
		{"negative total", func(in *PlaceInput) { in.Total = decimal.NewFromInt(-1) }},
		{"unknown city", func(in *PlaceInput) { in.Shipping.CityID = 99 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Place(customer, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestCancel(t *testing.T) {
	svc, _, repo := newTestService()
	o, err := svc.Place(customer, validInput())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Cancel(o.ID, customer+1), ErrNotOwner)
	require.ErrorIs(t, svc.Cancel(99, customer), ErrNotFound)

	require.NoError(t, svc.Cancel(o.ID, customer))
	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, got.Status)

	// cancelled is terminal
	require.ErrorIs(t, svc.Cancel(o.ID, customer), ErrNotPending)
}

func TestCancel_AfterProcessing(t *testing.T) {
	svc, _, _ := newTestService()
	o, err := svc.Place(customer, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(o.ID, merchantA, StatusProcessing))
	require.ErrorIs(t, svc.Cancel(o.ID, customer), ErrNotPending)
}

func TestUpdateStatus_ProcessingDecrementsStock(t *testing.T) {
	svc, items, repo := newTestService()
	o, err := svc.Place(customer, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(o.ID, merchantA, StatusProcessing))

	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, got.Status)

	lamp, _ := items.GetByID(1)
	require.Equal(t, 3, lamp.Stock)
	mug, _ := items.GetByID(2)
	require.Equal(t, 1, mug.Stock)

	require.NoError(t, svc.UpdateStatus(o.ID, merchantA, StatusCompleted))
	got, _ = repo.GetByID(o.ID)
	require.Equal(t, StatusCompleted, got.Status)
}

func TestUpdateStatus_Authorization(t *testing.T) {
	svc, _, _ := newTestService()
	o, err := svc.Place(customer, validInput())
	require.NoError(t, err)

	// merchant with no items on the order
	require.ErrorIs(t, svc.UpdateStatus(o.ID, 9, StatusProcessing), ErrNoMerchantItems)

	// owning any line grants the transition for the whole order
	require.NoError(t, svc.UpdateStatus(o.ID, merchantB, StatusProcessing))
}

func TestUpdateStatus_TransitionGraph(t *testing.T) {
	svc, _, _ := newTestService()
	o, err := svc.Place(customer, validInput())
	require.NoError(t, err)

	var verr *ValidationError
	require.ErrorAs(t, svc.UpdateStatus(o.ID, merchantA, "shipped"), &verr)

	require.ErrorIs(t, svc.UpdateStatus(o.ID, merchantA, StatusCompleted), ErrBadTransition)
	require.ErrorIs(t, svc.UpdateStatus(o.ID, merchantA, StatusPending), ErrBadTransition)

	require.NoError(t, svc.UpdateStatus(o.ID, merchantA, StatusProcessing))
	require.ErrorIs(t, svc.UpdateStatus(o.ID, merchantA, StatusCancelled), ErrBadTransition)
}

func TestUpdateStatus_InsufficientStockRollsBack(t *testing.T) {
	svc, items, repo := newTestService()

	in := validInput()
	in.Items = []LineInput{
		{ItemID: 1, Quantity: 2, Price: decimal.NewFromInt(25)},
		{ItemID: 2, Quantity: 5, Price: decimal.NewFromInt(8)},
	}
	o, err := svc.Place(customer, in)
	require.NoError(t, err)

	err = svc.UpdateStatus(o.ID, merchantA, StatusProcessing)
	var stockErr *item.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Equal(t, 2, stockErr.ItemID)

	// the order stays pending and the first line's decrement is undone
	got, _ := repo.GetByID(o.ID)
	require.Equal(t, StatusPending, got.Status)
	lamp, _ := items.GetByID(1)
	require.Equal(t, 5, lamp.Stock)
	mug, _ := items.GetByID(2)
	require.Equal(t, 2, mug.Stock)
}

func TestValidTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{StatusPending, StatusProcessing}:    true,
		{StatusPending, StatusCancelled}:     true,
		{StatusProcessing, StatusCompleted}:  true,
		{StatusProcessing, StatusCancelled}:  false,
		{StatusCompleted, StatusProcessing}:  false,
		{StatusCancelled, StatusPending}:     false,
		{StatusCompleted, StatusCancelled}:   false,
		{StatusProcessing, StatusProcessing}: false,
	}
	for pair, want := range allowed {
		if got := ValidTransition(pair[0], pair[1]); got != want {
			t.Errorf("ValidTransition(%s, %s) = %v, want %v", pair[0], pair[1], got, want)
		}
	}
}

func TestUpdateStatus_ConcurrentProcessingDecrementsOnce(t *testing.T) {
	svc, items, _ := newTestService()
	o, err := svc.Place(customer, validInput())
	require.NoError(t, err)

	// two merchants race the same transition; the conditional status write
	// lets exactly one of them through
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.UpdateStatus(o.ID, merchantA, StatusProcessing)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrBadTransition):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, 1, lost)

	got, err := svc.repo.GetByID(o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, got.Status)

	lamp, err := items.GetByID(1)
	require.NoError(t, err)
	require.Equal(t, 3, lamp.Stock)
	mug, err := items.GetByID(2)
	require.NoError(t, err)
	require.Equal(t, 1, mug.Stock)
}

func TestMarkProcessing_RequiresPending(t *testing.T) {
	svc, items, repo := newTestService()
	o, err := svc.Place(customer, validInput())
	require.NoError(t, err)

	require.NoError(t, repo.MarkProcessing(o.ID))
	require.ErrorIs(t, repo.MarkProcessing(o.ID), ErrBadTransition)

	// a late cancellation cannot land on the processed order either
	require.ErrorIs(t, repo.UpdateStatus(o.ID, StatusPending, StatusCancelled), ErrBadTransition)

	lamp, err := items.GetByID(1)
	require.NoError(t, err)
	require.Equal(t, 3, lamp.Stock)
}
