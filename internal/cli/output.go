package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/service/report"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat  = "json"
	yamlFormat  = "yaml"
	tableFormat = "table"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat, tableFormat}
)

// printStructured writes v as json or yaml. It reports false for the table format.
func printStructured(w io.Writer, v any, output string) (bool, error) {
	switch output {
	case jsonFormat:
		marshalled, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, errors.Wrap(err, "marshalling output")
		}
		_, err = fmt.Fprintf(w, "%s\n", marshalled)
		return true, err
	case yamlFormat:
		marshalled, err := yaml.Marshal(v)
		if err != nil {
			return true, errors.Wrap(err, "marshalling output")
		}
		_, err = fmt.Fprintf(w, "%s", marshalled)
		return true, err
	default:
		return false, nil
	}
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}

func printEstimateTable(w io.Writer, resp *v1alpha1.EstimateResponse, includeSkipped bool) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "BUILDING\t%s\n", estimation.Info(resp.Input.BuildingType).Label)
	if resp.RequestedPackageType != nil {
		fmt.Fprintf(tw, "PACKAGE\t%s (requested %s)\n", resp.PackageType, *resp.RequestedPackageType)
	} else {
		fmt.Fprintf(tw, "PACKAGE\t%s\n", resp.PackageType)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "ID\tNAME\tQUANTITY\tUNIT PRICE\tTOTAL\tNOTE")
	for _, item := range resp.EquipmentList {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			item.ID, item.Name, item.Quantity,
			report.FormatVND(item.UnitPrice), report.FormatVND(item.TotalPrice), item.Note)
	}
	fmt.Fprintf(tw, "\t\t\t\t%s\t\n", report.FormatVND(resp.TotalCost))

	if includeSkipped && len(resp.Skipped) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "SKIPPED\tNAME\tREASON")
		for _, item := range resp.Skipped {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", item.ID, item.Name, item.Note)
		}
	}
	return tw.Flush()
}

func printCompareTable(w io.Writer, estimates []v1alpha1.PackageEstimate) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "PACKAGE\tITEMS\tTOTAL")
	for _, e := range estimates {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.PackageType, len(e.EquipmentList), report.FormatVND(e.TotalCost))
	}
	return tw.Flush()
}

func printConfigurationTable(w io.Writer, cfg estimation.Configuration) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tMETHOD\tPRICE")
	for _, eq := range cfg.Equipments {
		method := string(eq.CalcMethod.Type)
		if eq.CalcMethod.Param != nil {
			method = fmt.Sprintf("%s(%g)", method, *eq.CalcMethod.Param)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", eq.ID, eq.Name, eq.Category, method, report.FormatVND(eq.Price))
	}

	residential := estimation.ResolveResidential(cfg.Rules.Residential)
	warehouse := estimation.ResolveWarehouse(cfg.Rules.Warehouse)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "RULE\tVALUE")
	fmt.Fprintf(tw, "residential.cabinetPerFloors\t%g\n", residential.CabinetPerFloors)
	fmt.Fprintf(tw, "residential.smokePerRoom\t%g\n", residential.SmokePerRoom)
	fmt.Fprintf(tw, "residential.heatPerKitchenAltar\t%g\n", residential.HeatPerKitchenAltar)
	fmt.Fprintf(tw, "warehouse.smokeDetectorArea\t%g\n", warehouse.SmokeDetectorArea)
	fmt.Fprintf(tw, "warehouse.cabinetArea\t%g\n", warehouse.CabinetArea)
	fmt.Fprintf(tw, "warehouse.cableRatios\t%g / %g / %g\n",
		warehouse.CableRatios.General, warehouse.CableRatios.Flammable, warehouse.CableRatios.Chemical)
	return tw.Flush()
}
