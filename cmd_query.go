package main

import (
	"encoding/hex"
	"strconv"
	"time"

	"acdm_platform/contract"
	"acdm_platform/sdk"

	"github.com/dustin/go-humanize"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Show the current round, bonus and configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		n := openNode()
		defer n.Close()
		printStatus(cmd, n.platform)
	},
}

var cmdProposal = &cobra.Command{
	Use:   "proposal [id]",
	Short: "Show a governance proposal",
	Args:  cobra.ExactArgs(1),
	Run:   showProposal,
}

var cmdAccount = &cobra.Command{
	Use:   "account [address]",
	Short: "Show registration, stake and listings of an address",
	Args:  cobra.ExactArgs(1),
	Run:   showAccount,
}

func init() {
	cmdMain.AddCommand(cmdStatus, cmdProposal, cmdAccount)
}

func amount(v *uint256.Int) string {
	return humanize.BigComma(v.ToBig())
}

func seconds(s int64) string {
	return (time.Duration(s) * time.Second).String()
}

func printStatus(cmd *cobra.Command, p *contract.Platform) {
	rd, err := p.Round()
	checkf(err, "read round")
	bonus, err := p.PlatformBonus()
	check(err)
	cfg, err := p.Config()
	check(err)
	count, err := p.ProposalCount()
	check(err)

	ends := time.Unix(rd.EndsAt(), 0)
	cmd.Printf("Platform    %s\n", p.Address().Hex())
	cmd.Printf("Round       %s, started %s, ends %s (%s)\n", rd.Type, time.Unix(rd.StartTime, 0).UTC().Format(time.RFC3339), ends.UTC().Format(time.RFC3339), humanize.Time(ends))
	cmd.Printf("Price       %s\n", amount(rd.Price))
	if rd.Type == contract.RoundSale {
		cmd.Printf("Remaining   %s\n", amount(rd.RemainingAmount))
	} else {
		cmd.Printf("Volume      %s\n", amount(rd.AccumulatedVolume))
	}
	cmd.Printf("Bonus       %s\n", amount(bonus))
	cmd.Printf("Proposals   %s\n", humanize.Comma(int64(count)))
	cmd.Println()
	cmd.Printf("Tokens      platform %s, reward %s, staking %s\n", cfg.PlatformToken.Hex(), cfg.RewardToken.Hex(), cfg.StakingToken.Hex())
	cmd.Printf("Referral    sale %d/%d bps, trade %d/%d bps\n", cfg.ReferralBps[0][0], cfg.ReferralBps[0][1], cfg.ReferralBps[1][0], cfg.ReferralBps[1][1])
	cmd.Printf("Durations   round %s, voting %s\n", seconds(cfg.RoundDuration), seconds(cfg.VotingDuration))
	cmd.Printf("Staking     %d%% every %s, unstake after %s\n", cfg.RewardPercentage, seconds(cfg.RewardDelay), seconds(cfg.UnstakeDelay))
	cmd.Printf("Whitelist   %s\n", cfg.WhitelistRoot.Hex())
}

func showProposal(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseUint(args[0], 10, 64)
	checkf(err, "invalid proposal id %q", args[0])

	n := openNode()
	defer n.Close()

	prop, err := n.platform.Proposal(id)
	check(err)
	voting, err := n.platform.VotingDuration()
	check(err)

	cmd.Printf("Proposal    #%d %s\n", prop.ID, prop.Status)
	cmd.Printf("Recipient   %s\n", prop.Recipient.Hex())
	cmd.Printf("Payload     0x%s\n", hex.EncodeToString(prop.Payload))
	cmd.Printf("Description %s\n", prop.Description)
	cmd.Printf("Voting ends %s\n", humanize.Time(time.Unix(prop.StartTime+voting, 0)))
	cmd.Printf("For         %s\n", amount(prop.VotesFor))
	cmd.Printf("Against     %s\n", amount(prop.VotesAgainst))
}

func showAccount(cmd *cobra.Command, args []string) {
	addr, err := sdk.ParseAddress(args[0])
	check(err)

	n := openNode()
	defer n.Close()
	p := n.platform

	acc, ok, err := p.Account(addr)
	check(err)
	if !ok {
		cmd.Printf("%s is not registered\n", addr.Hex())
	} else {
		ref := "none"
		if !sdk.IsZero(acc.Referral) {
			ref = acc.Referral.Hex()
		}
		cmd.Printf("Registered  %s (referral %s)\n", humanize.Time(time.Unix(acc.RegDate, 0)), ref)
	}

	dep, err := p.Deposit(addr)
	check(err)
	frozen, err := p.FreezeCount(addr)
	check(err)
	cmd.Printf("Staked      %s\n", amount(dep.StakedAmount))
	cmd.Printf("Reward      %s (saved)\n", amount(dep.SavedReward))
	cmd.Printf("Frozen by   %d open votes\n", frozen)

	listings, err := p.ListingCounter(addr)
	check(err)
	for id := uint64(0); id < listings; id++ {
		l, err := p.Listing(addr, id)
		check(err)
		if l.Amount.IsZero() {
			continue
		}
		cmd.Printf("Listing     #%d %s at %s\n", id, amount(l.Amount), amount(l.Price))
	}
}
