package console

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/giygas/antipsychotic-switch/interfaces"
)

// PrintReport writes the quality report followed by every drug in the table
func PrintReport(out io.Writer, report *interfaces.TableQualityReport, table interfaces.DrugLookup) error {
	fmt.Fprintf(out, "Drug table: %s\n", report.Source)
	fmt.Fprintf(out, "Drugs: %d\n", report.DrugCount)

	generations := make([]string, 0, len(report.DrugsByGeneration))
	for g := range report.DrugsByGeneration {
		generations = append(generations, g)
	}
	sort.Strings(generations)
	for _, g := range generations {
		fmt.Fprintf(out, "  %s: %d\n", g, report.DrugsByGeneration[g])
	}

	fmt.Fprintf(out, "Without 95%% effective dose: %s\n", listOrNone(report.DrugsWithoutEffectiveDose95))
	fmt.Fprintf(out, "Without minimum effective dose: %s\n\n", listOrNone(report.DrugsWithoutMinimumEffectiveDose))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DRUG\tGENERATION\tDDD (mg)\tED95 (mg)\tMED (mg)")
	for _, name := range table.Names() {
		d, ok := table.Lookup(name)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.Name,
			orDash(d.Generation),
			formatDose(d.DefinedDailyDose),
			formatCell(d.EffectiveDose95),
			formatCell(d.MinimumEffectiveDose))
	}
	return w.Flush()
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatCell(mg *float64) string {
	if mg == nil {
		return "-"
	}
	return formatDose(*mg)
}
