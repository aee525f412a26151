package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/firesafe/estimator/pkg/version"
	"github.com/spf13/cobra"
)

type VersionOptions struct {
	GlobalOptions

	out io.Writer
}

func DefaultVersionOptions() *VersionOptions {
	return &VersionOptions{
		GlobalOptions: DefaultGlobalOptions(),
		out:           os.Stdout,
	}
}

func NewCmdVersion() *cobra.Command {
	o := DefaultVersionOptions()
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print FireSafe version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.out = cmd.OutOrStdout()
			return o.Run(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Also print the version of the server at this address")
	return cmd
}

func (o *VersionOptions) Run(ctx context.Context, args []string) error {
	versionInfo := version.Get()
	fmt.Fprintf(o.out, "Client Version: %s\n", versionInfo.String())
	if !o.Remote() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	info, err := o.Client().Info(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(o.out, "Server Version: %s (%s)\n", info.VersionName, info.GitCommit)
	return nil
}
