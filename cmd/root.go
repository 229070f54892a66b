// Package cmd defines and implements the CLI commands for the kpopnet
// crawler executable.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kpopnet/crawler/internal/logging"
	"github.com/kpopnet/crawler/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpopnet",
		Short: "Crawler for the kpopnet profile dataset.",
		Long: `kpopnet crawls the profile database on selca.kastden.org, extracts
idol and group records, cross-references them into a membership graph, and
emits the canonical kpopnet.json dataset plus a thumbnail store.`,
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.AddCommand(newCrawlCmd())

	return cmd
}

// Execute is the main entry point. Any failure exits with code 1 after a
// prominent log banner.
func Execute() {
	logging.InitLogger(viper.GetBool("log.development"))

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Error("@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@")
		logging.L.Error("ERROR OCCURRED, PLEASE CHECK LOGS")
		logging.L.Error("@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@")
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
