package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/rohits-web03/ledger/internal/calc"
)

func newCalcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Freelance rate calculator",
	}
	cmd.AddCommand(newBreakevenCommand())
	cmd.AddCommand(newMarketCommand())
	return cmd
}

func bindBreakevenFlags(cmd *cobra.Command, in *calc.BreakevenInput) {
	cmd.Flags().Float64Var(&in.MonthlyLiving, "living", 3000, "Monthly living costs")
	cmd.Flags().Float64Var(&in.MonthlyBusiness, "business", 500, "Monthly business costs")
	cmd.Flags().IntVar(&in.ExpectedProjects, "projects", 2, "Projects per month (0 counts as 1)")
	cmd.Flags().Float64Var(&in.TaxRate, "tax", 25, "Tax rate in percent")
}

func newBreakevenCommand() *cobra.Command {
	var in calc.BreakevenInput

	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "What each project has to earn to cover overhead and tax",
		RunE: func(cmd *cobra.Command, args []string) error {
			be, err := calc.ComputeBreakeven(in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total overhead:         %s\n", money(be.TotalOverhead))
			fmt.Fprintf(out, "Overhead with tax:      %s\n", money(be.OverheadWithTax))
			fmt.Fprintf(out, "Break-even per project: %s\n", money(math.Ceil(be.BreakevenPerProject)))
			return nil
		},
	}
	bindBreakevenFlags(cmd, &in)
	return cmd
}

func newMarketCommand() *cobra.Command {
	var be calc.BreakevenInput
	var in calc.MarketInput

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Compare a quote with the going rate, the client budget and break-even",
		RunE: func(cmd *cobra.Command, args []string) error {
			floor, err := calc.ComputeBreakeven(be)
			if err != nil {
				return err
			}
			m, err := calc.CompareMarket(in, floor.BreakevenPerProject)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Budget delta", signed(m.BudgetDelta)},
				{"Market delta", signed(m.MarketDelta)},
				{"Break-even delta", signed(m.BreakevenDelta)},
				{"Verdict", string(m.Verdict)},
			}
			title := "Quote"
			if in.TaskName != "" {
				title = in.TaskName
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{title, ""}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
	bindBreakevenFlags(cmd, &be)
	cmd.Flags().StringVar(&in.TaskName, "task", "", "Task being quoted")
	cmd.Flags().Float64Var(&in.GoingRate, "going-rate", 5000, "Typical market price for the task")
	cmd.Flags().Float64Var(&in.ClientBudget, "budget", 4000, "Client budget")
	cmd.Flags().Float64Var(&in.Quote, "quote", 4500, "Your quote")
	return cmd
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func signed(v float64) string {
	if v >= 0 {
		return "+" + money(v)
	}
	return "-" + money(-v)
}
