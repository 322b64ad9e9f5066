package contract

import "acdm_platform/sdk"

const (
	// kConfig holds the single Config record.
	kConfig byte = 0x01
	// kRound holds the single active Round.
	kRound byte = 0x02
	// kAccount stores registered accounts by address.
	kAccount byte = 0x03
	// kListingCounter is the per seller running listing id.
	kListingCounter byte = 0x04
	// kListing stores listings under seller+id.
	kListing byte = 0x05
	// kDeposit stores staking deposits by address.
	kDeposit byte = 0x06
	// kProposalMeta contains encoded Proposal records.
	kProposalMeta byte = 0x10
	// kParticipation marks whether an address voted or delegated on a proposal.
	kParticipation byte = 0x20
	// kDelegation maps proposal+delegator to the delegate.
	kDelegation byte = 0x21
	// kDelegators lists who delegated to a given address on a proposal.
	kDelegators byte = 0x22
	// kParticipants lists every voter/delegator of a proposal, for unfreezing on finish.
	kParticipants byte = 0x23
	// kFreeze counts InProgress proposals an address participates in.
	kFreeze byte = 0x30
	// kBonus holds the accumulated platform bonus.
	kBonus byte = 0x40
	// kRoles holds the role bitmask of an address.
	kRoles byte = 0x50
)

// packU64LEInline writes x little-endian into dst so keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
		byte(x>>32),
		byte(x>>40),
		byte(x>>48),
		byte(x>>56),
	)
}

func singletonKey(prefix byte) string {
	return string([]byte{prefix})
}

func configKey() string { return singletonKey(kConfig) }
func roundKey() string  { return singletonKey(kRound) }
func bonusKey() string  { return singletonKey(kBonus) }

// addrKey is prefix followed by the raw 20 address bytes.
func addrKey(prefix byte, a sdk.Address) string {
	var buf [21]byte
	buf[0] = prefix
	copy(buf[1:], a[:])
	return string(buf[:])
}

func accountKey(a sdk.Address) string        { return addrKey(kAccount, a) }
func listingCounterKey(a sdk.Address) string { return addrKey(kListingCounter, a) }
func depositKey(a sdk.Address) string        { return addrKey(kDeposit, a) }
func freezeKey(a sdk.Address) string         { return addrKey(kFreeze, a) }
func rolesKey(a sdk.Address) string          { return addrKey(kRoles, a) }

// listingKey sorts listings of one seller next to each other.
func listingKey(seller sdk.Address, id uint64) string {
	buf := make([]byte, 0, 1+20+8)
	buf = append(buf, kListing)
	buf = append(buf, seller[:]...)
	buf = packU64LE(id, buf)
	return string(buf)
}

// proposalKey encodes id under 0x10 prefix keeping metadata lumps contiguous.
func proposalKey(id uint64) string {
	var buf [9]byte
	buf[0] = kProposalMeta
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

// proposalAddrKey mixes proposal id plus address bytes for per voter records.
func proposalAddrKey(prefix byte, id uint64, a sdk.Address) string {
	var buf [29]byte
	buf[0] = prefix
	packU64LEInline(id, buf[1:9])
	copy(buf[9:], a[:])
	return string(buf[:])
}

func participationKey(id uint64, a sdk.Address) string {
	return proposalAddrKey(kParticipation, id, a)
}

func delegationKey(id uint64, delegator sdk.Address) string {
	return proposalAddrKey(kDelegation, id, delegator)
}

func delegatorsKey(id uint64, delegate sdk.Address) string {
	return proposalAddrKey(kDelegators, id, delegate)
}

func participantsKey(id uint64) string {
	var buf [9]byte
	buf[0] = kParticipants
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}
