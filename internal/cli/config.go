package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

type ConfigOptions struct {
	GlobalOptions

	Category   string
	OutputFile string

	out io.Writer
}

func DefaultConfigOptions() *ConfigOptions {
	return &ConfigOptions{
		GlobalOptions: DefaultGlobalOptions(),
		out:           os.Stdout,
	}
}

func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the equipment catalog and rules.",
	}
	cmd.AddCommand(newCmdConfigShow())
	cmd.AddCommand(newCmdConfigExport())
	return cmd
}

func newCmdConfigShow() *cobra.Command {
	o := DefaultConfigOptions()
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the configuration in use.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Show(cmd.Context())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	cmd.Flags().StringVar(&o.Category, "category", o.Category, "Only list catalog entries of this category")
	return cmd
}

func newCmdConfigExport() *cobra.Command {
	o := DefaultConfigOptions()
	o.Output = jsonFormat
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configuration to a file that --config-file accepts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			if o.Output == tableFormat {
				return fmt.Errorf("export format must be %s or %s", jsonFormat, yamlFormat)
			}
			return o.Export(cmd.Context())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	cmd.Flags().StringVar(&o.OutputFile, "out", o.OutputFile, "Destination file. The format follows its extension; stdout when empty")
	return cmd
}

func (o *ConfigOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
}

func (o *ConfigOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(o.OutputFile)) {
	case ".yaml", ".yml":
		o.Output = yamlFormat
	case ".json", ".jsonc":
		o.Output = jsonFormat
	}
	if cmd != nil {
		o.out = cmd.OutOrStdout()
	}
	return nil
}

func (o *ConfigOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.Category != "" && !estimation.Category(o.Category).Valid() {
		return fmt.Errorf("unknown category %q", o.Category)
	}
	return nil
}

// load returns the server configuration when a server is given, the config file or the defaults otherwise.
func (o *ConfigOptions) load(ctx context.Context) (estimation.Configuration, error) {
	if !o.Remote() {
		return o.Configuration()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := o.Client().GetConfiguration(ctx)
	if err != nil {
		return estimation.Configuration{}, err
	}
	return *cfg, nil
}

func (o *ConfigOptions) Show(ctx context.Context) error {
	cfg, err := o.load(ctx)
	if err != nil {
		return err
	}
	if o.Category != "" {
		cfg.Equipments = funk.Filter(cfg.Equipments, func(eq estimation.Equipment) bool {
			return string(eq.Category) == o.Category
		}).([]estimation.Equipment)
	}
	if done, err := printStructured(o.out, cfg, o.Output); done {
		return err
	}
	return printConfigurationTable(o.out, cfg)
}

func (o *ConfigOptions) Export(ctx context.Context) error {
	cfg, err := o.load(ctx)
	if err != nil {
		return err
	}
	cfg.UpdatedAt = nil

	if o.OutputFile == "" {
		_, err := printStructured(o.out, cfg, o.Output)
		return err
	}

	f, err := os.Create(o.OutputFile)
	if err != nil {
		return errors.Wrap(err, "creating configuration file")
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := printStructured(f, cfg, o.Output); err != nil {
		return err
	}
	fmt.Fprintf(o.out, "Configuration written to %s\n", o.OutputFile)
	return nil
}
