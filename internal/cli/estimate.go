package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/handlers/v1alpha1/mappers"
	"github.com/firesafe/estimator/internal/service"
	"github.com/firesafe/estimator/pkg/requestid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

var (
	legalBuildingTypes   = []string{"residential", "office", "warehouse"}
	legalPackageTypes    = []string{"independent", "local", "smart"}
	legalStorageTypes    = []string{"general", "flammable", "chemical"}
	legalOfficeDensities = []string{"low", "medium", "high"}
	legalExportFormats   = []string{"csv", "xlsx", "html"}
)

type EstimateOptions struct {
	GlobalOptions

	BuildingType  string
	PackageType   string
	Floors        int
	Rooms         int
	KitchenAltar  int
	TotalArea     float64
	StorageType   string
	OfficeDensity string
	CeilingHeight float64

	Compare        bool
	IncludeSkipped bool
	Export         string
	ProjectName    string
	OutputFile     string

	out io.Writer
}

func DefaultEstimateOptions() *EstimateOptions {
	return &EstimateOptions{
		GlobalOptions: DefaultGlobalOptions(),
		BuildingType:  "residential",
		out:           os.Stdout,
	}
}

func NewCmdEstimate() *cobra.Command {
	o := DefaultEstimateOptions()
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the fire alarm equipment of a building.",
		Example: `  firesafe estimate --building-type residential --floors 3 --rooms 6 --kitchen-altar 1
  firesafe estimate --building-type warehouse --area 1200 --storage-type flammable --export xlsx
  firesafe estimate --floors 2 --rooms 4 --compare -u http://localhost:3443`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *EstimateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.BuildingType, "building-type", "b", o.BuildingType, fmt.Sprintf("Building type. One of: (%s).", strings.Join(legalBuildingTypes, ", ")))
	fs.StringVarP(&o.PackageType, "package", "p", o.PackageType, fmt.Sprintf("Service package. One of: (%s). Defaults to smart.", strings.Join(legalPackageTypes, ", ")))
	fs.IntVar(&o.Floors, "floors", o.Floors, "Number of floors")
	fs.IntVar(&o.Rooms, "rooms", o.Rooms, "Number of rooms")
	fs.IntVar(&o.KitchenAltar, "kitchen-altar", o.KitchenAltar, "Number of kitchen or altar rooms")
	fs.Float64Var(&o.TotalArea, "area", o.TotalArea, "Total floor area in square meters")
	fs.StringVar(&o.StorageType, "storage-type", o.StorageType, fmt.Sprintf("Warehouse storage hazard. One of: (%s).", strings.Join(legalStorageTypes, ", ")))
	fs.StringVar(&o.OfficeDensity, "office-density", o.OfficeDensity, fmt.Sprintf("Office occupancy density. One of: (%s).", strings.Join(legalOfficeDensities, ", ")))
	fs.Float64Var(&o.CeilingHeight, "ceiling-height", o.CeilingHeight, "Ceiling height in meters")
	fs.BoolVar(&o.Compare, "compare", o.Compare, "Compare every package offered for the building type")
	fs.BoolVar(&o.IncludeSkipped, "include-skipped", o.IncludeSkipped, "List catalog entries that were not needed")
	fs.StringVar(&o.Export, "export", o.Export, fmt.Sprintf("Write a quote document instead of printing. One of: (%s).", strings.Join(legalExportFormats, ", ")))
	fs.StringVar(&o.ProjectName, "name", o.ProjectName, "Project name printed on the exported quote")
	fs.StringVar(&o.OutputFile, "out", o.OutputFile, "File the export is written to. Defaults to the suggested file name, '-' writes to stdout")
}

func (o *EstimateOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	o.BuildingType = strings.ToLower(strings.TrimSpace(o.BuildingType))
	o.PackageType = strings.ToLower(strings.TrimSpace(o.PackageType))
	o.Export = strings.ToLower(strings.TrimSpace(o.Export))
	if cmd != nil {
		o.out = cmd.OutOrStdout()
	}
	return nil
}

func (o *EstimateOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	enums := []struct {
		flag  string
		value string
		legal []string
	}{
		{"building-type", o.BuildingType, legalBuildingTypes},
		{"package", o.PackageType, legalPackageTypes},
		{"storage-type", o.StorageType, legalStorageTypes},
		{"office-density", o.OfficeDensity, legalOfficeDensities},
		{"export", o.Export, legalExportFormats},
	}
	for _, e := range enums {
		if len(e.value) > 0 && !funk.Contains(e.legal, e.value) {
			return fmt.Errorf("%s must be one of %s", e.flag, strings.Join(e.legal, ", "))
		}
	}

	if o.Compare && o.Export != "" {
		return fmt.Errorf("--compare and --export cannot be used together")
	}
	return nil
}

func (o *EstimateOptions) Run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var cfg *estimation.Configuration
	if o.ConfigFile != "" || !o.Remote() {
		loaded, err := o.Configuration()
		if err != nil {
			return err
		}
		cfg = &loaded
	}

	if o.Remote() {
		return o.runRemote(ctx, o.request(cfg))
	}
	return o.runLocal(ctx, *cfg)
}

func (o *EstimateOptions) input() estimation.UserInput {
	input := estimation.UserInput{
		BuildingType:  estimation.BuildingType(o.BuildingType),
		Floors:        o.Floors,
		Rooms:         o.Rooms,
		KitchenAltar:  o.KitchenAltar,
		TotalArea:     o.TotalArea,
		OfficeDensity: estimation.OfficeDensity(o.OfficeDensity),
		StorageType:   estimation.StorageType(o.StorageType),
	}
	if o.CeilingHeight > 0 {
		height := o.CeilingHeight
		input.CeilingHeight = &height
	}
	return input
}

func (o *EstimateOptions) request(cfg *estimation.Configuration) v1alpha1.EstimateRequest {
	input := o.input()
	return v1alpha1.EstimateRequest{
		BuildingType:  string(input.BuildingType),
		PackageType:   o.PackageType,
		Floors:        input.Floors,
		Rooms:         input.Rooms,
		KitchenAltar:  input.KitchenAltar,
		TotalArea:     input.TotalArea,
		OfficeDensity: string(input.OfficeDensity),
		StorageType:   string(input.StorageType),
		CeilingHeight: input.CeilingHeight,
		Config:        cfg,
	}
}

func (o *EstimateOptions) runLocal(ctx context.Context, cfg estimation.Configuration) error {
	// The configuration is always passed per request, so the service never reads a store.
	estimationSrv := service.NewEstimationService(service.NewConfigurationService(nil), estimation.PackageSmart)

	if o.Compare {
		estimates, err := estimationSrv.Compare(ctx, o.input(), &cfg)
		if err != nil {
			return errors.Wrap(err, "comparing packages")
		}
		return o.printCompare(mappers.PackageEstimatesToApi(estimates))
	}

	result, err := estimationSrv.Estimate(ctx, service.EstimateForm{
		Input:   o.input(),
		Package: estimation.PackageType(o.PackageType),
		Config:  &cfg,
	})
	if err != nil {
		return errors.Wrap(err, "estimating")
	}

	if o.Export != "" {
		report, err := service.NewReportService().GenerateReport(ctx, result, result.Configuration.CompanyInfo, service.ReportOptions{
			Format:         service.ReportFormat(o.Export),
			ProjectName:    o.ProjectName,
			IncludeSkipped: o.IncludeSkipped,
		})
		if err != nil {
			return errors.Wrap(err, "rendering report")
		}
		return o.writeExport(report.Content, report.Filename)
	}

	resp := mappers.EstimateToApi(result)
	return o.printEstimate(&resp)
}

func (o *EstimateOptions) runRemote(ctx context.Context, req v1alpha1.EstimateRequest) error {
	c := o.Client()
	// one id per invocation ties the server log lines to this run
	ctx = requestid.ToContext(ctx, requestid.Generate())

	switch {
	case o.Compare:
		estimates, err := c.Compare(ctx, req)
		if err != nil {
			return err
		}
		return o.printCompare(estimates)
	case o.Export != "":
		content, filename, err := c.Export(ctx, req, o.Export)
		if err != nil {
			return err
		}
		if filename == "" {
			filename = fmt.Sprintf("firesafe-estimate.%s", o.Export)
		}
		return o.writeExport(content, filename)
	default:
		resp, err := c.Estimate(ctx, req)
		if err != nil {
			return err
		}
		return o.printEstimate(resp)
	}
}

func (o *EstimateOptions) printEstimate(resp *v1alpha1.EstimateResponse) error {
	if !o.IncludeSkipped {
		resp.Skipped = nil
	}
	if done, err := printStructured(o.out, resp, o.Output); done {
		return err
	}
	return printEstimateTable(o.out, resp, o.IncludeSkipped)
}

func (o *EstimateOptions) printCompare(estimates []v1alpha1.PackageEstimate) error {
	if done, err := printStructured(o.out, estimates, o.Output); done {
		return err
	}
	return printCompareTable(o.out, estimates)
}

func (o *EstimateOptions) writeExport(content []byte, filename string) error {
	target := o.OutputFile
	if target == "-" {
		_, err := o.out.Write(content)
		return err
	}
	if target == "" {
		target = filename
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", target)
	}
	fmt.Fprintf(o.out, "Quote written to %s\n", target)
	return nil
}
