// Package calc holds the freelance rate arithmetic: what a project has to earn
// to cover monthly overhead, and how a quote compares with the market.
package calc

import (
	"fmt"
	"math"
)

// BreakevenInput is monthly money in and out. TaxRate is a percentage.
type BreakevenInput struct {
	MonthlyLiving    float64 `json:"monthly_living" validate:"gte=0"`
	MonthlyBusiness  float64 `json:"monthly_business" validate:"gte=0"`
	ExpectedProjects int     `json:"expected_projects" validate:"gte=0"`
	TaxRate          float64 `json:"tax_rate" validate:"gte=0,lt=100"`
}

type Breakeven struct {
	TotalOverhead       float64 `json:"total_overhead"`
	OverheadWithTax     float64 `json:"overhead_with_tax"`
	BreakevenPerProject float64 `json:"breakeven_per_project"`
}

// MarketInput compares a quote with the going rate and the client's budget.
type MarketInput struct {
	TaskName     string  `json:"task_name"`
	GoingRate    float64 `json:"going_rate" validate:"gte=0"`
	ClientBudget float64 `json:"client_budget" validate:"gte=0"`
	Quote        float64 `json:"quote" validate:"gte=0"`
}

type Verdict string

const (
	VerdictViable     Verdict = "viable"
	VerdictBelowCost  Verdict = "below-breakeven"
	VerdictOverBudget Verdict = "over-budget"
)

type Market struct {
	TaskName       string  `json:"task_name,omitempty"`
	BudgetDelta    float64 `json:"budget_delta"`
	MarketDelta    float64 `json:"market_delta"`
	BreakevenDelta float64 `json:"breakeven_delta"`
	Verdict        Verdict `json:"verdict"`
}

// InputError reports an argument outside its allowed range.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func checkMoney(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InputError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &InputError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

// ComputeBreakeven spreads taxed overhead across the expected number of
// projects. Zero expected projects counts as one.
func ComputeBreakeven(in BreakevenInput) (Breakeven, error) {
	for field, v := range map[string]float64{
		"monthly_living":   in.MonthlyLiving,
		"monthly_business": in.MonthlyBusiness,
	} {
		if err := checkMoney(field, v); err != nil {
			return Breakeven{}, err
		}
	}
	if in.ExpectedProjects < 0 {
		return Breakeven{}, &InputError{Field: "expected_projects", Reason: "must not be negative"}
	}
	if math.IsNaN(in.TaxRate) || in.TaxRate < 0 || in.TaxRate >= 100 {
		return Breakeven{}, &InputError{Field: "tax_rate", Reason: "must be in [0, 100)"}
	}

	projects := in.ExpectedProjects
	if projects == 0 {
		projects = 1
	}

	total := in.MonthlyLiving + in.MonthlyBusiness
	withTax := total / (1 - in.TaxRate/100)
	return Breakeven{
		TotalOverhead:       total,
		OverheadWithTax:     withTax,
		BreakevenPerProject: withTax / float64(projects),
	}, nil
}

// CompareMarket measures a quote against budget, going rate and the
// break-even price per project.
func CompareMarket(in MarketInput, breakevenPerProject float64) (Market, error) {
	for field, v := range map[string]float64{
		"going_rate":    in.GoingRate,
		"client_budget": in.ClientBudget,
		"quote":         in.Quote,
	} {
		if err := checkMoney(field, v); err != nil {
			return Market{}, err
		}
	}

	m := Market{
		TaskName:       in.TaskName,
		BudgetDelta:    in.ClientBudget - in.Quote,
		MarketDelta:    in.GoingRate - in.Quote,
		BreakevenDelta: in.Quote - breakevenPerProject,
	}
	switch {
	case m.BreakevenDelta < 0:
		m.Verdict = VerdictBelowCost
	case m.BudgetDelta < 0:
		m.Verdict = VerdictOverBudget
	default:
		m.Verdict = VerdictViable
	}
	return m, nil
}
