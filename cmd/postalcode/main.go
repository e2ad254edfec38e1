// postalcode validates Swedish postal codes from the command line.
//
//	postalcode [flags] CODE...
//
// Each code is printed with "valid" or "invalid"; the exit status is 1 when
// any code is invalid. Codes are taken as typed, without normalization.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	postalcode "github.com/akl7777777/se-postalcode"
	"github.com/akl7777777/se-postalcode/internal/config"
	"github.com/akl7777777/se-postalcode/internal/lookup"
)

var errInvalid = errors.New("invalid postal code")

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg := config.Load()

	var noFallback, bring, verbose bool
	var exportType, exportDSN string

	flagSet := pflag.NewFlagSet("postalcode", pflag.ContinueOnError)
	flagSet.BoolVar(&noFallback, "no-fallback", !cfg.HTTPFallback, "only use the local table, never query Bring")
	flagSet.BoolVar(&bring, "bring", false, "print the raw Bring response for each code")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	flagSet.StringVar(&cfg.BringEndpoint, "endpoint", cfg.BringEndpoint, "Bring postal code API URL")
	flagSet.StringVar(&cfg.TableDBType, "table-db-type", cfg.TableDBType, "read the reference table from a store (sqlite, mysql)")
	flagSet.StringVar(&cfg.TableDBDSN, "table-dsn", cfg.TableDBDSN, "DSN of the reference table store")
	flagSet.StringVar(&exportType, "export-db-type", "", "write the reference table to a store (sqlite, mysql) and exit")
	flagSet.StringVar(&exportDSN, "export-dsn", "", "DSN of the export store")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg.HTTPFallback = !noFallback

	if !verbose {
		log.SetOutput(io.Discard)
	}

	v, _, err := lookup.NewValidator(cfg)
	if err != nil {
		return err
	}

	if exportType != "" {
		n, err := lookup.Export(v, exportType, exportDSN)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %d postal codes\n", n)
		return nil
	}

	if flagSet.NArg() == 0 {
		return errors.New("no postal codes given")
	}

	var result error
	for _, arg := range flagSet.Args() {
		code := postalcode.String(arg)

		if bring {
			resp, ok := v.QueryBring(code.AsUint32())
			if !ok {
				fmt.Fprintf(out, "%s\tno response\n", arg)
				result = errInvalid
				continue
			}
			fmt.Fprintf(out, "%s\tvalid=%v\tresult=%q\ttype=%q\n", arg, resp.Valid, resp.Result, resp.PostalCodeType)
			continue
		}

		if v.Valid(code) {
			city, _ := v.City(code)
			fmt.Fprintf(out, "%s\tvalid\t%s\n", arg, city)
			continue
		}
		fmt.Fprintf(out, "%s\tinvalid\n", arg)
		result = errInvalid
	}
	return result
}
