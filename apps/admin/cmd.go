package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/trezcool/actios/core/certificate"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sql.DB
	certSvc *certificate.Service
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the database")
	_, _ = fmt.Fprintln(cli.out, "  validate -code CODE    - check a certificate validation code")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validateCmd.SetOutput(cli.out)
	validateCode := validateCmd.String("code", "", "The certificate validation code, e.g. 7Q2M-KX0D-4T1B-9ZRC.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "validate":
		if err := validateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *validateCode == "" {
			validateCmd.Usage()
			return errHelp
		}
		return cli.validate(*validateCode)
	default:
		cli.printUsage()
		return errHelp
	}
}
