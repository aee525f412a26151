package main

import (
	"os"

	"github.com/firesafe/estimator/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	command := NewFiresafeCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewFiresafeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firesafe [flags] [options]",
		Short: "firesafe estimates fire alarm equipment and cost for a building.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdEstimate())
	cmd.AddCommand(cli.NewCmdConfig())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
