package main

import (
	"io"
	"strings"
	"time"

	"acdm_platform/config"
	"acdm_platform/contract"
	"acdm_platform/sdk"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

const metricsNamespace = "acdm"

var cmdInit = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the platform defaults",
	Args:  cobra.NoArgs,
	Run:   initConfig,
}

var cmdGenesis = &cobra.Command{
	Use:   "genesis",
	Short: "Initialize the configured store from the configuration file",
	Args:  cobra.NoArgs,
	Run:   runGenesis,
}

var flagInit struct {
	Admin         string
	PlatformToken string
	RewardToken   string
	StakingToken  string
	Whitelist     []string
	DataDir       string
}

var flagGenesis struct {
	Metrics bool
}

func init() {
	cmdMain.AddCommand(cmdInit, cmdGenesis)

	cmdInit.Flags().StringVar(&flagInit.Admin, "admin", "", "Admin address, also the first configurator and chairperson")
	cmdInit.Flags().StringVar(&flagInit.PlatformToken, "platform-token", "", "Address of the token sold in rounds")
	cmdInit.Flags().StringVar(&flagInit.RewardToken, "reward-token", "", "Address of the staking reward token")
	cmdInit.Flags().StringVar(&flagInit.StakingToken, "staking-token", "", "Address of the staked LP token")
	cmdInit.Flags().StringSliceVar(&flagInit.Whitelist, "whitelist", nil, "Addresses allowed to stake")
	cmdInit.Flags().StringVar(&flagInit.DataDir, "data-dir", "", "Directory of the state database")
	cmdInit.MarkFlagRequired("admin")

	cmdGenesis.Flags().BoolVar(&flagGenesis.Metrics, "metrics", false, "Print the platform metrics in prometheus text format after initializing")
}

func initConfig(cmd *cobra.Command, _ []string) {
	overrides := map[string]interface{}{
		"platform.admin": flagInit.Admin,
	}
	set := func(key, value string) {
		if value != "" {
			overrides[key] = value
		}
	}
	set("platform.platform_token", flagInit.PlatformToken)
	set("platform.reward_token", flagInit.RewardToken)
	set("platform.staking_token", flagInit.StakingToken)
	set("storage.data_dir", flagInit.DataDir)
	if len(flagInit.Whitelist) > 0 {
		overrides["staking.whitelist"] = flagInit.Whitelist
	}

	checkf(config.WriteDefault(flagMain.Config, overrides), "write %s", flagMain.Config)
	cmd.Printf("Wrote %s\n", flagMain.Config)
}

func runGenesis(cmd *cobra.Command, _ []string) {
	sink := contract.JSONSink(cmd.OutOrStdout())
	opts := []contract.Option{contract.WithEventSink(sink)}
	if flagGenesis.Metrics {
		opts = append(opts, contract.WithMetrics(contract.PrometheusMetrics(metricsNamespace)))
	}
	n := openNode(opts...)
	defer n.Close()

	g, err := n.cfg.Genesis()
	check(err)

	env := sdk.NewEnv(g.Admin, time.Now().Unix())
	checkf(n.platform.Init(env, g), "initialize platform")
	checkf(sink.Err(), "write events")

	n.logger.Info("platform initialized", "address", n.platform.Address().Hex(), "admin", g.Admin.Hex(), "tx", env.TxID)
	printStatus(cmd, n.platform)

	if flagGenesis.Metrics {
		checkf(writeMetrics(cmd.OutOrStdout(), metricsNamespace+"_"), "write metrics")
	}
}

// writeMetrics dumps the registered families whose name starts with prefix.
func writeMetrics(w io.Writer, prefix string) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
