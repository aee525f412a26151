package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/firesafe/estimator/internal/client"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

// GlobalOptions are shared by every command. Without a server url the
// commands run the estimation engine in process.
type GlobalOptions struct {
	ServerUrl  string
	ConfigFile string
	Output     string
	Timeout    time.Duration
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Output:  tableFormat,
		Timeout: 10 * time.Second,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the server. Estimates are computed locally when empty")
	fs.StringVarP(&o.ConfigFile, "config-file", "c", o.ConfigFile, "Configuration file (JSON with comments or YAML) used instead of the built-in defaults")
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Timeout of requests to the server")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	o.ServerUrl = strings.TrimSpace(o.ServerUrl)
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

func (o *GlobalOptions) Remote() bool {
	return o.ServerUrl != ""
}

func (o *GlobalOptions) Client() *client.Client {
	return client.New(o.ServerUrl, o.Timeout)
}

// Configuration returns the configuration used by local commands: the config
// file when one is given, the defaults otherwise.
func (o *GlobalOptions) Configuration() (estimation.Configuration, error) {
	if o.ConfigFile == "" {
		return estimation.DefaultConfiguration(), nil
	}
	return LoadConfiguration(o.ConfigFile)
}
