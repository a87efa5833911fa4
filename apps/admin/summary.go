package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/attendance"
	"github.com/trezcool/schoolcrm/core/grading"
	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/payroll"
	"github.com/trezcool/schoolcrm/core/roster"
)

func (cli *commandLine) summary(ctx context.Context, c roster.Context, scaleName string) error {
	switch {
	case attendance.IsKind(c.Kind):
		set, err := cli.attendance.Load(ctx, c)
		if err != nil {
			return errors.Wrap(err, "loading attendance")
		}
		summary, err := attendance.Summarize(set)
		if err != nil {
			return errors.Wrap(err, "summarizing attendance")
		}
		printBuckets(cli.out, c, summary.Buckets(), summary.Total())

	case c.Kind == roster.KindGrading:
		scale, err := metric.ScaleByName(scaleName)
		if err != nil {
			return err
		}
		set, err := cli.grading.Load(ctx, c)
		if err != nil {
			return errors.Wrap(err, "loading grades")
		}
		summary, err := grading.Summarize(set, scale)
		if err != nil {
			return errors.Wrap(err, "summarizing grades")
		}
		printBuckets(cli.out, c, summary.Buckets(), summary.Total())

	case c.Kind == roster.KindPayroll:
		set, err := cli.payroll.Load(ctx, c)
		if err != nil {
			return errors.Wrap(err, "loading payroll")
		}
		rows, err := payroll.Report(set, metric.DeductionMatchers, metric.AllowanceMatchers)
		if err != nil {
			return errors.Wrap(err, "reporting payroll")
		}
		printTotals(cli.out, c, payroll.Sum(rows), len(rows))

	default:
		return core.NewNotFoundError("register kind", c.Kind)
	}
	return nil
}

func printBuckets[C comparable](w io.Writer, c roster.Context, buckets []roster.Bucket[C], total int) {
	fmt.Fprintln(w, c)
	for _, b := range buckets {
		fmt.Fprintf(w, "  %-12v %d\n", b.Category, b.Count)
	}
	fmt.Fprintf(w, "  %-12s %d\n", "total", total)
}

func printTotals(w io.Writer, c roster.Context, totals payroll.Totals, staff int) {
	line := func(label string, amount decimal.Decimal) {
		fmt.Fprintf(w, "  %-24s %s\n", label, amount.StringFixed(2))
	}
	fmt.Fprintln(w, c)
	fmt.Fprintf(w, "  %-24s %d\n", "staff", staff)
	line("base", totals.Base)
	for _, a := range totals.Allowances {
		line("allowance:"+a.Category, a.Amount)
	}
	for _, d := range totals.Deductions {
		line("deduction:"+d.Category, d.Amount)
	}
	line("net", totals.Net)
}
