package contract

import (
	"fmt"

	"acdm_platform/sdk"
)

// participation markers stored under kParticipation
const (
	participationNone      byte = 0
	participationVoted     byte = 1
	participationDelegated byte = 2
)

func saveProposal(st sdk.State, p *Proposal) {
	st.Set(proposalKey(p.ID), string(EncodeProposal(p)))
}

// loadProposal decodes a proposal, ErrNoSuchVoting when id is outside [1, count].
func loadProposal(st sdk.State, id uint64) (*Proposal, error) {
	if id == 0 || id > getCount(st, ProposalsCount) {
		return nil, ErrNoSuchVoting
	}
	ptr := st.Get(proposalKey(id))
	if ptr == nil || *ptr == "" {
		return nil, ErrNoSuchVoting
	}
	p, err := DecodeProposal([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode proposal %d: %w", id, err)
	}
	return p, nil
}

func getParticipation(st sdk.State, id uint64, addr sdk.Address) byte {
	ptr := st.Get(participationKey(id, addr))
	if ptr == nil || len(*ptr) == 0 {
		return participationNone
	}
	return (*ptr)[0]
}

func setParticipation(st sdk.State, id uint64, addr sdk.Address, mark byte) {
	st.Set(participationKey(id, addr), string([]byte{mark}))
}

func getDelegate(st sdk.State, id uint64, delegator sdk.Address) (sdk.Address, bool) {
	ptr := st.Get(delegationKey(id, delegator))
	if ptr == nil || len(*ptr) != 20 {
		return sdk.ZeroAddress, false
	}
	var a sdk.Address
	copy(a[:], *ptr)
	return a, true
}

func setDelegate(st sdk.State, id uint64, delegator, delegate sdk.Address) {
	st.Set(delegationKey(id, delegator), string(delegate[:]))
}

// loadAddressList reads one of the per proposal address indexes.
func loadAddressList(st sdk.State, key string) ([]sdk.Address, error) {
	ptr := st.Get(key)
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	return decodeAddressList([]byte(*ptr))
}

// appendAddress adds a to the list stored at key. Callers guarantee uniqueness through
// the participation marker, so no dedupe here.
func appendAddress(st sdk.State, key string, a sdk.Address) error {
	list, err := loadAddressList(st, key)
	if err != nil {
		return err
	}
	list = append(list, a)
	st.Set(key, string(encodeAddressList(list)))
	return nil
}
