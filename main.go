////////////////////////////////////////////////////////////////////////////////
// ACDM platform: sale/trade rounds, referrals, staking and governance
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"fmt"
	"os"

	"acdm_platform/config"
	"acdm_platform/contract"
	"acdm_platform/sdk"

	"github.com/spf13/cobra"
)

var cmdMain = &cobra.Command{
	Use:   "acdm",
	Short: "Operate a local ACDM platform state",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	Config string
}

func init() {
	cmdMain.PersistentFlags().StringVarP(&flagMain.Config, "config", "c", "acdm.yaml", "Path to the configuration file")
}

func main() {
	if err := cmdMain.Execute(); err != nil {
		os.Exit(1)
	}
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func check(err error) {
	if err != nil {
		fatalf("%v", err)
	}
}

func checkf(err error, format string, otherArgs ...interface{}) {
	if err != nil {
		fatalf(format+": %v", append(otherArgs, err)...)
	}
}

// node is what most commands need: the loaded config, a logger and the platform
// over the configured store.
type node struct {
	cfg      *config.Config
	logger   sdk.Logger
	store    *sdk.Store
	platform *contract.Platform
}

func openNode(opts ...contract.Option) *node {
	cfg, err := config.Load(flagMain.Config)
	checkf(err, "load %s", flagMain.Config)
	check(cfg.Validate())

	logger, err := sdk.NewDefaultLogger(cfg.Logging.Format, cfg.Logging.Level)
	check(err)

	store, err := sdk.OpenStore(cfg.Storage.Name, cfg.Storage.Backend, cfg.Storage.DataDir)
	checkf(err, "open store")

	addr, err := cfg.PlatformAddress()
	check(err)

	opts = append([]contract.Option{contract.WithAddress(addr), contract.WithLogger(logger)}, opts...)
	return &node{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		platform: contract.New(store, opts...),
	}
}

func (n *node) Close() {
	if err := n.store.Close(); err != nil {
		n.logger.Error("close store", "err", err)
	}
}
