package portfolio

import (
	"github.com/aristath/finsight/pkg/formulas"
)

// MaxProjectionMonths caps the goal simulation at 50 years
const MaxProjectionMonths = 50 * formulas.MonthsPerYear

// Projection is the outcome of simulating monthly contributions towards a target
type Projection struct {
	ProjectedAmount float64 `json:"projected_amount"`
	MonthsToTarget  int     `json:"months_to_target"`
	YearsToTarget   float64 `json:"years_to_target"`
	OnTrack         bool    `json:"on_track"`
}

// GoalProgress combines the contribution a goal requires with a projection of the
// contribution actually planned.
type GoalProgress struct {
	Current                   float64    `json:"current"`
	Target                    float64    `json:"target"`
	YearsToGoal               int        `json:"years_to_goal"`
	ExpectedAnnualReturn      float64    `json:"expected_annual_return"`
	MonthlyContributionNeeded float64    `json:"monthly_contribution_needed"`
	PlannedContribution       float64    `json:"planned_contribution"`
	Projection                Projection `json:"projection"`
}

// MonthlyContributionNeeded returns the monthly payment that, together with the
// compounded current amount, reaches target in yearsToGoal years.
// expectedAnnualReturn is in percent (7 = 7%).
func MonthlyContributionNeeded(current, target float64, yearsToGoal int, expectedAnnualReturn float64) float64 {
	if yearsToGoal <= 0 {
		return target - current
	}

	months := yearsToGoal * formulas.MonthsPerYear
	rate := formulas.MonthlyRate(expectedAnnualReturn)

	grown := formulas.FutureValue(current, rate, months)
	if grown >= target {
		return 0
	}

	payment := formulas.AnnuityPayment(target-grown, rate, months)
	if payment < 0 {
		return 0
	}
	return payment
}

// ProjectGoal simulates month-by-month compounding until target is reached or the
// simulation hits MaxProjectionMonths.
func ProjectGoal(current, monthlyContribution, expectedAnnualReturn, target float64) Projection {
	rate := formulas.MonthlyRate(expectedAnnualReturn)

	amount := current
	months := 0
	for amount < target && months < MaxProjectionMonths {
		amount = amount*(1+rate) + monthlyContribution
		months++
	}

	return Projection{
		ProjectedAmount: amount,
		MonthsToTarget:  months,
		YearsToTarget:   float64(months) / formulas.MonthsPerYear,
		OnTrack:         amount >= target,
	}
}

// PlanGoal computes the required contribution and projects the planned one. A
// non-positive planned contribution projects the required contribution instead.
func PlanGoal(current, target float64, yearsToGoal int, expectedAnnualReturn, plannedContribution float64) GoalProgress {
	needed := MonthlyContributionNeeded(current, target, yearsToGoal, expectedAnnualReturn)

	contribution := plannedContribution
	if contribution <= 0 {
		contribution = needed
		if contribution < 0 {
			contribution = 0
		}
	}

	return GoalProgress{
		Current:                   current,
		Target:                    target,
		YearsToGoal:               yearsToGoal,
		ExpectedAnnualReturn:      expectedAnnualReturn,
		MonthlyContributionNeeded: needed,
		PlannedContribution:       contribution,
		Projection:                ProjectGoal(current, contribution, expectedAnnualReturn, target),
	}
}
