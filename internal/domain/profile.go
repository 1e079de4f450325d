package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RiskTolerance is the user-declared appetite for risk
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// ParseRiskTolerance parses a case-insensitive risk tolerance name
func ParseRiskTolerance(s string) (RiskTolerance, bool) {
	switch RiskTolerance(strings.ToLower(strings.TrimSpace(s))) {
	case RiskConservative:
		return RiskConservative, true
	case RiskModerate:
		return RiskModerate, true
	case RiskAggressive:
		return RiskAggressive, true
	}
	return "", false
}

// GoalType names what an investment goal is for
type GoalType string

const (
	GoalRetirement GoalType = "retirement"
	GoalHome       GoalType = "home"
	GoalEducation  GoalType = "education"
	GoalWealth     GoalType = "wealth"
	GoalGeneral    GoalType = "general"
)

// InvestmentProfile is the input to the allocation engine
type InvestmentProfile struct {
	RiskTolerance     RiskTolerance `json:"risk_tolerance"`
	GoalType          GoalType      `json:"goal_type"`
	TimeHorizonYears  int           `json:"time_horizon_years"`
	CurrentAge        int           `json:"current_age"`
	RetirementAge     int           `json:"retirement_age"`
	AvailableToInvest float64       `json:"available_to_invest"`
}

// UserProfile is the stored profile a user maintains
type UserProfile struct {
	BirthDate              time.Time       `json:"birth_date" yaml:"birth_date"`
	UserID                 string          `json:"user_id" yaml:"user_id"`
	Name                   string          `json:"name" yaml:"name"`
	RiskTolerance          RiskTolerance   `json:"risk_tolerance" yaml:"risk_tolerance"`
	GoalType               GoalType        `json:"goal_type" yaml:"goal_type"`
	AnnualIncome           decimal.Decimal `json:"annual_income" yaml:"annual_income"`
	AvailableToInvest      decimal.Decimal `json:"available_to_invest" yaml:"available_to_invest"`
	GoalTarget             decimal.Decimal `json:"goal_target" yaml:"goal_target"`
	RetirementAge          int             `json:"retirement_age" yaml:"retirement_age"`
	InvestmentHorizonYears int             `json:"investment_horizon_years" yaml:"investment_horizon_years"`
}

// AgeAt returns the completed years of age at t
func (p UserProfile) AgeAt(t time.Time) int {
	if p.BirthDate.IsZero() || t.Before(p.BirthDate) {
		return 0
	}
	age := t.Year() - p.BirthDate.Year()
	if t.Month() < p.BirthDate.Month() ||
		(t.Month() == p.BirthDate.Month() && t.Day() < p.BirthDate.Day()) {
		age--
	}
	return age
}

// InvestmentProfileAt derives the allocation engine input as of a point in time.
// An explicit horizon wins; otherwise the horizon runs until retirement.
func (p UserProfile) InvestmentProfileAt(asOf time.Time) InvestmentProfile {
	age := p.AgeAt(asOf)
	horizon := p.InvestmentHorizonYears
	if horizon <= 0 {
		horizon = p.RetirementAge - age
		if horizon < 0 {
			horizon = 0
		}
	}
	goal := p.GoalType
	if goal == "" {
		goal = GoalGeneral
	}
	return InvestmentProfile{
		RiskTolerance:     p.RiskTolerance,
		GoalType:          goal,
		TimeHorizonYears:  horizon,
		CurrentAge:        age,
		RetirementAge:     p.RetirementAge,
		AvailableToInvest: p.AvailableToInvest.InexactFloat64(),
	}
}
