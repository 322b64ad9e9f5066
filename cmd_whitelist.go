package main

import (
	"acdm_platform/sdk"

	"github.com/spf13/cobra"
)

var cmdWhitelist = &cobra.Command{
	Use:   "whitelist-root [address...]",
	Short: "Compute the staking whitelist root and every member's proof",
	Args:  cobra.MinimumNArgs(1),
	Run:   whitelistRoot,
}

func init() {
	cmdMain.AddCommand(cmdWhitelist)
}

func whitelistRoot(cmd *cobra.Command, args []string) {
	addrs := make([]sdk.Address, 0, len(args))
	for _, s := range args {
		a, err := sdk.ParseAddress(s)
		check(err)
		addrs = append(addrs, a)
	}

	tree := sdk.NewWhitelistTree(addrs)
	cmd.Printf("root %s\n", tree.Root().Hex())
	for _, a := range addrs {
		proof, err := tree.Proof(sdk.LeafOf(a))
		check(err)
		cmd.Printf("%s", a.Hex())
		for _, h := range proof {
			cmd.Printf(" %s", h.Hex())
		}
		cmd.Println()
	}
}
