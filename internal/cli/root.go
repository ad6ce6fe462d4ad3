// Package cli implements the searchperf command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/searchperf/internal/logging"
)

var version = "0.1.0"

// envPrefix prefixes every environment override, e.g. SEARCHPERF_URL.
const envPrefix = "SEARCHPERF"

// NewRootCmd builds the searchperf command with its own viper instance.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

func newRootCommand() (*cobra.Command, *viper.Viper) {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "searchperf",
		Short:   "Compare full-text query strategies on Elasticsearch or OpenSearch",
		Version: version,
		Long: `searchperf populates an index with one million generated "Last, First"
names and then times two match-query variants against it: a shingled
"onetwogram" field and a plain "basic" field. Both the documents and the
queries come from fixed seeds, so every run issues exactly the same requests.

If the index already exists it is reused as is.

  searchperf
  searchperf --engine opensearch --url https://localhost:9200 --user admin --password admin
  searchperf --config bench.yaml --format json

Every flag can also be set through the environment, e.g. SEARCHPERF_URL,
SEARCHPERF_BATCH_SIZE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildRunOptions(v)
			if err != nil {
				return err
			}
			opts.stdout = cmd.OutOrStdout()

			logging.Init(opts.debug, opts.humanLogs)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runBenchmark(ctx, opts)
		},
	}

	addFlags(cmd)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}

	return cmd, v
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		logging.L().Error().Err(err).Msg("searchperf failed")
		return err
	}
	return nil
}
