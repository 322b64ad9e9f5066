package contract

import (
	"acdm_platform/sdk"
)

// getFreezeCount reads how many InProgress proposals block unstaking for this addr.
func getFreezeCount(st sdk.State, addr sdk.Address) uint64 {
	return getCount(st, freezeKey(addr))
}

// incrementFreeze bumps the counter when addr votes or delegates on a proposal.
func incrementFreeze(st sdk.State, addr sdk.Address) {
	setCount(st, freezeKey(addr), getFreezeCount(st, addr)+1)
}

// decrementFreeze lowers the counter and deletes key when it reaches zero.
func decrementFreeze(st sdk.State, addr sdk.Address) {
	key := freezeKey(addr)
	count := getFreezeCount(st, addr)
	if count == 0 {
		return
	}
	count--
	if count == 0 {
		st.Delete(key)
	} else {
		setCount(st, key, count)
	}
}

// releaseParticipants removes the freeze of everyone who took part once the proposal
// reached a terminal status.
func releaseParticipants(st sdk.State, proposalID uint64) error {
	list, err := loadAddressList(st, participantsKey(proposalID))
	if err != nil {
		return err
	}
	for _, a := range list {
		decrementFreeze(st, a)
	}
	return nil
}
