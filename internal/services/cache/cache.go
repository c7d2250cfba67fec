// Package cache memoizes max-loan quotes. Estimation is a pure function of
// the profile fields it reads and the policy, so a quote can be served from
// cache for as long as the policy does not change.
package cache

import (
	"context"
	"fmt"
	"strconv"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/affordability"
)

// SchemaVersion is part of every key. Bump it when MaxLoanQuote changes shape.
const SchemaVersion = "1"

// QuoteCache stores max-loan quotes by key.
type QuoteCache interface {
	Get(ctx context.Context, key string) (models.MaxLoanQuote, bool)
	Set(ctx context.Context, key string, quote models.MaxLoanQuote)
}

// QuoteKey builds the cache key for a profile under a policy. Age and the
// requested loan do not influence estimation and are left out of the key.
func QuoteKey(p models.ApplicantProfile, policy affordability.Policy) string {
	return fmt.Sprintf("maxloan:v%s:%s:%s:%d:%s:%s:%s",
		SchemaVersion,
		formatFloat(p.Income),
		formatFloat(p.ExistingEMI),
		p.CreditScore,
		formatFloat(p.TenureYears),
		formatFloat(p.InterestPercent),
		formatFloat(policy.SearchIncomeMultiple),
	)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
