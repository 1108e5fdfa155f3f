// Command amortize печатает ежемесячный платёж и график погашения в терминал
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cloud-ru/mortgage-calc-go/internal/calculations"
	"github.com/cloud-ru/mortgage-calc-go/internal/config"
	"github.com/cloud-ru/mortgage-calc-go/internal/logging"
	"github.com/cloud-ru/mortgage-calc-go/internal/validators"
	"github.com/cloud-ru/mortgage-calc-go/pkg/utils"
)

// Для длинных графиков выводятся только первые и последние строки
const previewRows = 12

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	now := time.Now()

	fs := flag.NewFlagSet("amortize", flag.ContinueOnError)
	price := fs.Float64("price", 0, "total price of the item")
	down := fs.Float64("down", 20, "down payment percentage")
	term := fs.Int("term", 30, "loan term in years")
	rate := fs.Float64("rate", 5, "annual interest rate percentage")
	startMonth := fs.Int("start-month", int(now.Month()), "first payment month (1-12)")
	startYear := fs.Int("start-year", now.Year(), "first payment year")
	monthlyExtra := fs.Float64("monthly-extra", 0, "extra principal paid every month")
	yearlyExtra := fs.Float64("yearly-extra", 0, "extra principal paid on each start-month anniversary")
	full := fs.Bool("full", false, "print every row of the schedule")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, "text")

	spec, _, err := validators.ValidateLoanRequest(cfg, validators.LoanRequest{
		Price:               price,
		DownPercentage:      down,
		Term:                term,
		Rate:                rate,
		StartMonth:          startMonth,
		StartYear:           startYear,
		MonthlyExtraPayment: *monthlyExtra,
		YearlyExtraPayment:  *yearlyExtra,
	})
	if err != nil {
		return err
	}

	result, err := calculations.GenerateSchedule(spec, cfg.ScheduleMargin)
	if err != nil {
		return err
	}
	log.WithField("months", result.Summary.Months).Debug("schedule generated")

	fmt.Fprintf(out, "Monthly payment:   $%.2f\n", utils.Round2(result.Summary.MonthlyPayment))
	fmt.Fprintf(out, "Total amount paid: $%.2f\n", utils.Round2(result.Summary.TotalAmountPaid))
	fmt.Fprintf(out, "Payoff date:       %s\n\n", result.Summary.PayoffDate())

	return printSchedule(out, result.Schedule, *full)
}

func printSchedule(out io.Writer, schedule []calculations.ScheduleRow, full bool) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tMonth\tYear\tPrincipal\tInterest\tExtra\tPrincipal Paid\tInterest Paid\tBalance\t")

	for i, row := range schedule {
		if !full && len(schedule) > 2*previewRows && i == previewRows {
			fmt.Fprintln(tw, "...\t\t\t\t\t\t\t\t\t")
		}
		if !full && len(schedule) > 2*previewRows && i >= previewRows && i < len(schedule)-previewRows {
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			row.MonthIndex, row.CalendarMonth, row.CalendarYear,
			utils.Round2(row.PrincipalPayment), utils.Round2(row.InterestPayment), utils.Round2(row.ExtraPayment),
			utils.Round2(row.CumulativePrincipalPaid), utils.Round2(row.CumulativeInterestPaid),
			utils.Round2(row.RemainingBalance))
	}

	return tw.Flush()
}
