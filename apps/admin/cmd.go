package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/schoolcrm/core/attendance"
	"github.com/trezcool/schoolcrm/core/grading"
	"github.com/trezcool/schoolcrm/core/payroll"
	"github.com/trezcool/schoolcrm/core/roster"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db  *sqlx.DB
	out io.Writer

	attendance *roster.Service[attendance.Mark]
	grading    *roster.Service[grading.Grade]
	payroll    *roster.Service[payroll.Slip]
	gradeScale string
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, up-by-one, up-to, down, down-to, redo, reset, status, version, create, fix)")
	fmt.Println("  summary -kind KIND -group GROUP -period PERIOD [-scale fine|coarse] - print the summary of a register")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	summaryCmd := flag.NewFlagSet("summary", flag.ExitOnError)
	summaryKind := summaryCmd.String("kind", "", "The register kind, eg. attendance:student, grading, payroll.")
	summaryGroup := summaryCmd.String("group", "", "The class or staff group id.")
	summaryPeriod := summaryCmd.String("period", "", "The day, month or class:subject key of the register.")
	summaryScale := summaryCmd.String("scale", cli.gradeScale, "The grade scale of grading registers.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "summary":
		if err := summaryCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *summaryKind == "" || *summaryGroup == "" || *summaryPeriod == "" {
			summaryCmd.Usage()
			return errHelp
		}
		c := roster.Context{Kind: *summaryKind, GroupID: *summaryGroup, Period: *summaryPeriod}
		return cli.summary(context.Background(), c, *summaryScale)
	default:
		cli.printUsage()
		return errHelp
	}
}
