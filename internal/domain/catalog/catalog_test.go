package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Tonkotsu Ramen (Spicy)": "tonkotsu-ramen-spicy",
		"  Crème brûlée  ":       "creme-brulee",
		"Miso -- Butter Corn!":   "miso-butter-corn",
		"ラーメン":                   "",
		"A1 Steak":               "a1-steak",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(ProductDetails{
		Name:     "Shoyu Ramen Kit",
		Category: " Kits ",
		Price:    decimal.RequireFromString("18.499"),
	})
	require.NoError(t, err)
	assert.Equal(t, "shoyu-ramen-kit", p.Slug)
	assert.Equal(t, "kits", p.Category)
	assert.Equal(t, "18.50", p.Price.StringFixed(2))
	assert.True(t, p.Available)

	p.SetAvailable(false)
	assert.False(t, p.Available)
	assert.Equal(t, 2, p.Version)
	p.SetAvailable(false)
	assert.Equal(t, 2, p.Version)

	_, err = NewProduct(ProductDetails{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)
	_, err = NewProduct(ProductDetails{Name: "", Price: decimal.NewFromInt(1)})
	assert.Error(t, err)
	_, err = NewProduct(ProductDetails{Name: "ラーメン", Price: decimal.NewFromInt(1)})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_SLUG", de.Code)

	custom, err := NewProduct(ProductDetails{Name: "ラーメン", Slug: "Ramen Bowl", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "ramen-bowl", custom.Slug)
}

func TestRecipe_Publish(t *testing.T) {
	r, err := NewRecipe(RecipeDetails{Title: "Ajitama", Servings: 4, Ingredients: []string{"eggs", " "}, PrepMinutes: 10, CookMinutes: 7})
	require.NoError(t, err)
	assert.Equal(t, []string{"eggs"}, r.Ingredients)
	assert.Equal(t, 17, r.TotalMinutes())

	assert.Error(t, r.SetPublished(true))

	require.NoError(t, r.Update(RecipeDetails{Title: "Ajitama", Servings: 4, Ingredients: []string{"eggs"}, Steps: []string{"boil", "marinate"}}))
	require.NoError(t, r.SetPublished(true))
	assert.True(t, r.Published)

	err = r.Update(RecipeDetails{Title: "Ajitama", Servings: 4})
	assert.Error(t, err)
	assert.Equal(t, []string{"eggs"}, r.Ingredients)

	_, err = NewRecipe(RecipeDetails{Title: "x", Servings: 0})
	assert.Error(t, err)
}

func newClass(t *testing.T, startsIn time.Duration, capacity int) *Class {
	t.Helper()
	c, err := NewClass(ClassDetails{
		Title:           "Noodle Pulling 101",
		StartsAt:        time.Now().Add(startsIn),
		DurationMinutes: 120,
		Capacity:        capacity,
		Price:           decimal.RequireFromString("65"),
	})
	require.NoError(t, err)
	return c
}

func TestClass_Booking(t *testing.T) {
	class := newClass(t, 48*time.Hour, 6)
	customer := uuid.New()
	now := time.Now()

	b, err := BookClass(class, customer, 4, now)
	require.NoError(t, err)
	assert.Equal(t, 2, class.SeatsLeft())
	assert.Equal(t, "260.00", b.Total.StringFixed(2))
	assert.Equal(t, customer, b.OwnerID)
	require.Len(t, b.GetDomainEvents(), 1)

	_, err = BookClass(class, uuid.New(), 3, now)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CAPACITY_EXCEEDED", de.Code)

	require.NoError(t, b.Cancel(class, now))
	assert.Equal(t, 6, class.SeatsLeft())
	assert.Error(t, b.Cancel(class, now))

	_, err = BookClass(class, uuid.New(), 0, now)
	assert.Error(t, err)
	_, err = BookClass(class, uuid.Nil, 1, now)
	assert.Error(t, err)
}

func TestClass_BookingRejectedForPastOrCancelled(t *testing.T) {
	past := newClass(t, -time.Hour, 10)
	_, err := BookClass(past, uuid.New(), 1, time.Now())
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CLASS_STARTED", de.Code)

	cancelled := newClass(t, time.Hour, 10)
	require.NoError(t, cancelled.Cancel())
	_, err = BookClass(cancelled, uuid.New(), 1, time.Now())
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CLASS_CANCELLED", de.Code)
	assert.Error(t, cancelled.Cancel())
}

func TestClass_UpdateKeepsBookedSeats(t *testing.T) {
	class := newClass(t, 24*time.Hour, 6)
	_, err := BookClass(class, uuid.New(), 5, time.Now())
	require.NoError(t, err)

	d := ClassDetails{Title: class.Title, StartsAt: class.StartsAt, DurationMinutes: 90, Capacity: 4, Price: class.Price}
	assert.Error(t, class.Update(d))

	d.Capacity = 5
	require.NoError(t, class.Update(d))
	assert.Equal(t, 0, class.SeatsLeft())
	assert.Equal(t, class.StartsAt.Add(90*time.Minute), class.EndsAt())
}
