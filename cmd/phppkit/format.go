package main

import (
	"fmt"
	"io"

	"github.com/ChicagoDave/phppkit/internal/takeoff"
	"github.com/ChicagoDave/phppkit/pkg/dhw"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			printResult(w, wr)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, r validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", r.Level, r.Message)
	if r.Path != "" {
		if r.ActualValue != nil {
			fmt.Fprintf(w, "    -> %s = %v\n", r.Path, r.ActualValue)
		} else {
			fmt.Fprintf(w, "    -> %s\n", r.Path)
		}
	}
	if r.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", r.Expected)
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}

func printRun(w io.Writer, label string, t dhw.RunTotals) {
	fmt.Fprintf(w, "%-18s %6d %10.2f %10.1f %10.1f %8.1f\n",
		label, t.Count, t.TotalLength, t.AvgDiameter*1000, t.AvgInsulationThickness*1000, t.AvgDailyPeriod)
}

func printTakeoff(w io.Writer, res *takeoff.Result) {
	title := "Takeoff"
	if res.Project != "" {
		title += ": " + res.Project
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "===================================")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "DHW piping")
	fmt.Fprintln(w, "----------")
	fmt.Fprintf(w, "%-18s %6s %10s %10s %10s %8s\n", "Run", "Segs", "Length m", "Diam mm", "Insul mm", "h/day")
	fmt.Fprintf(w, "%-18s %6s %10s %10s %10s %8s\n",
		"------------------", "------", "----------", "----------", "----------", "--------")
	nt := res.DHWTotals
	for _, t := range nt.Branches {
		printRun(w, t.ID, t)
	}
	for _, t := range nt.Recirculation {
		printRun(w, t.ID+" (recirc)", t)
	}
	fmt.Fprintf(w, "  Branch total:         %.2f m\n", nt.BranchTotal.TotalLength)
	fmt.Fprintf(w, "  Recirculation total:  %.2f m\n", nt.RecircTotal.TotalLength)

	if len(res.Ventilation) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Ventilation ducts")
		fmt.Fprintln(w, "-----------------")
		fmt.Fprintf(w, "%-18s %6s %10s %10s %10s %10s\n", "System", "Id", "Duct 1 m", "Duct 2 m", "Width mm", "Exh m3/h")
		fmt.Fprintf(w, "%-18s %6s %10s %10s %10s %10s\n",
			"------------------", "------", "----------", "----------", "----------", "----------")
		for _, v := range res.Ventilation {
			fmt.Fprintf(w, "%-18s %6d %10.2f %10.2f %10.0f %10.0f\n",
				v.Name, v.ID, v.Duct01.TotalLength, v.Duct02.TotalLength, v.Duct01.AvgWidth, v.ExhaustFlow)
		}
	}

	if len(res.Assemblies) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Assemblies")
		fmt.Fprintln(w, "----------")
		for _, a := range res.Assemblies {
			fmt.Fprintf(w, "  %-24s U = %.3f W/m2K\n", a.Name, a.UValue)
		}
	}
	fmt.Fprintf(w, "\n%d cell writes\n", len(res.Cells))
}
