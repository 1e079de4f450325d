// Package formulas holds the time-value-of-money and dispersion formulas shared by the
// allocation and portfolio modules.
package formulas

import "math"

// MonthsPerYear is the compounding frequency used throughout the module.
const MonthsPerYear = 12

// MonthlyRate converts an annual return expressed in percent (7 = 7%) into a monthly
// periodic rate as a decimal.
func MonthlyRate(annualReturnPct float64) float64 {
	return annualReturnPct / 100 / MonthsPerYear
}

// FutureValue compounds a present amount monthly.
//
// Formula: FV = PV × (1 + r)^n
func FutureValue(present, monthlyRate float64, months int) float64 {
	if months <= 0 {
		return present
	}
	return present * math.Pow(1+monthlyRate, float64(months))
}

// AnnuityPayment solves the ordinary annuity for the periodic payment that accumulates
// to futureValue after the given number of months.
//
// Formula: PMT = FV × r / ((1 + r)^n − 1)
//
// A zero (or effectively zero) rate degenerates to linear division FV / n.
func AnnuityPayment(futureValue, monthlyRate float64, months int) float64 {
	if months <= 0 {
		return futureValue
	}
	if math.Abs(monthlyRate) < 1e-12 {
		return futureValue / float64(months)
	}
	growth := math.Pow(1+monthlyRate, float64(months)) - 1
	if growth == 0 {
		return futureValue / float64(months)
	}
	return futureValue * monthlyRate / growth
}
