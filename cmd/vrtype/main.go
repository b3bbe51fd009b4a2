// Command vrtype prints the MySQL column type for a DICOM value
// representation and value multiplicity.
//
//	vrtype [-policy native|string] VR VM
//	vrtype -all [-policy native|string] [VM]
//
// VM accepts dictionary notation ("1", "1-3", "2-n", "1 or 2").
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dicom/vr"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/sqltype"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vrtype", flag.ContinueOnError)
	fs.SetOutput(stderr)
	policyFlg := fs.String("policy", "native", "mapping policy (native, string)")
	all := fs.Bool("all", false, "print the type of every mapped VR")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	policy, err := sqltype.ParsePolicy(*policyFlg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if *all {
		vmArg := "1"
		if fs.NArg() > 0 {
			vmArg = fs.Arg(0)
		}
		vm, err := vr.ParseVM(vmArg)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		return printAll(stdout, stderr, vm, policy)
	}

	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: vrtype [-policy native|string] VR VM")
		return 2
	}
	code, err := vr.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	vm, err := vr.ParseVM(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	col, err := sqltype.Resolve(code, vm, policy)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, col.SQL())
	return 0
}

func printAll(stdout, stderr io.Writer, vm int, policy sqltype.Policy) int {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "VR\t%s (vm=%d)\n", policy, vm)
	for _, code := range sqltype.Mapped() {
		col, err := sqltype.Resolve(code, vm, policy)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(tw, "%s\t%s\n", code, col.SQL())
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
