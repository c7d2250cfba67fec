package affordability

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ComputeInstallment returns the equated monthly installment for a
// fixed-rate loan of principal over years, at annualRatePercent nominal
// interest (12 means 12% a year).
//
// Non-finite or non-positive principal and non-positive terms are defined
// degenerate cases and return 0.
func ComputeInstallment(principal, annualRatePercent, years float64) float64 {
	n := years * 12
	r := annualRatePercent / 1200

	if !isFinite(principal) || principal <= 0 {
		return 0
	}
	if !isFinite(n) || n <= 0 {
		return 0
	}

	if r == 0 {
		return principal / n
	}

	pow := math.Pow(1+r, n)
	return principal * r * pow / (pow - 1)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Schedules longer than a century are not generated.
const maxScheduleMonths = 1200

// Installment is one period of an amortization schedule.
type Installment struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// Schedule builds the monthly amortization schedule for a loan, with the
// first payment due one month after start. The month count is years*12
// rounded to the nearest whole month. Amounts are rounded to cents and the
// last period absorbs rounding so the balance ends at exactly zero.
func Schedule(principal, annualRatePercent, years float64, start time.Time) []Installment {
	if !isFinite(years) || years*12 > maxScheduleMonths {
		return nil
	}

	months := int(math.Round(years * 12))
	emi := ComputeInstallment(principal, annualRatePercent, float64(months)/12)
	if months <= 0 || emi == 0 || !isFinite(emi) {
		return nil
	}

	payment := decimal.NewFromFloat(emi).Round(2)
	monthlyRate := decimal.NewFromFloat(annualRatePercent / 1200)
	remaining := decimal.NewFromFloat(principal).Round(2)

	schedule := make([]Installment, 0, months)
	for period := 1; period <= months; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)

		if period == months || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, Installment{
			Period:           period,
			DueDate:          start.AddDate(0, period, 0),
			Payment:          principalPart.Add(interest),
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule
}
