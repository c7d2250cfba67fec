package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/affordability"
	"loan-affordability-engine/internal/services/cache"
)

var _ cache.QuoteCache = (*cache.LRU)(nil)
var _ cache.QuoteCache = (*cache.Redis)(nil)

func TestQuoteKey_IgnoresAgeAndRequestedLoan(t *testing.T) {
	policy := affordability.DefaultPolicy()
	a := models.ApplicantProfile{Age: 30, Income: 50000, CreditScore: 750, TenureYears: 5, InterestPercent: 10, RequestedLoan: 1}
	b := a
	b.Age = 60
	b.RequestedLoan = 999999

	assert.Equal(t, cache.QuoteKey(a, policy), cache.QuoteKey(b, policy))
}

func TestQuoteKey_DependsOnEstimationInputs(t *testing.T) {
	policy := affordability.DefaultPolicy()
	base := models.ApplicantProfile{Income: 50000, ExistingEMI: 1000, CreditScore: 750, TenureYears: 5, InterestPercent: 10}
	key := cache.QuoteKey(base, policy)

	variants := []func(p *models.ApplicantProfile){
		func(p *models.ApplicantProfile) { p.Income = 50001 },
		func(p *models.ApplicantProfile) { p.ExistingEMI = 0 },
		func(p *models.ApplicantProfile) { p.CreditScore = 751 },
		func(p *models.ApplicantProfile) { p.TenureYears = 6 },
		func(p *models.ApplicantProfile) { p.InterestPercent = 10.5 },
	}
	for _, mutate := range variants {
		p := base
		mutate(&p)
		assert.NotEqual(t, key, cache.QuoteKey(p, policy))
	}

	assert.NotEqual(t, key, cache.QuoteKey(base, policy.WithSearchIncomeMultiple(100)))
}

func TestLRU_GetSet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRU(10, time.Minute)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	quote := models.MaxLoanQuote{MaxLoan: 1500000, ApproxEMI: 31870.5, Recommended: true}
	c.Set(ctx, "k", quote)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, quote, got)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestLRU_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRU(2, time.Minute)

	c.Set(ctx, "a", models.MaxLoanQuote{MaxLoan: 1})
	c.Set(ctx, "b", models.MaxLoanQuote{MaxLoan: 2})
	c.Set(ctx, "c", models.MaxLoanQuote{MaxLoan: 3})

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	got, ok := c.Get(ctx, "c")
	require.True(t, ok)
	assert.Equal(t, 3.0, got.MaxLoan)
}

func TestLRU_Expires(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRU(10, 20*time.Millisecond)

	c.Set(ctx, "k", models.MaxLoanQuote{MaxLoan: 1})
	time.Sleep(60 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
