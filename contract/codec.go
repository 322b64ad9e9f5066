package contract

import (
	"bytes"
	"encoding/binary"
	"errors"

	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

var errUnexpectedEOF = errors.New("unexpected EOF")

type binWriter struct {
	buf bytes.Buffer
}

// newWriter spins up a fresh writer so we dont leak old bytes between encodes.
func newWriter() *binWriter { return &binWriter{} }

// bytes returns the accumulated buffer.
func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeByte(b byte) { w.buf.WriteByte(b) }

// writeUint64 writes big endian numbers so tooling can read them without guessing.
func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// writeInt64 reuses the uint routine since casting keeps the sign bits intact.
func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

// writeVarUint uses varints to keep counts and lens compact.
func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeAmount stores the full 32 byte big endian word, nil counts as zero.
func (w *binWriter) writeAmount(v *uint256.Int) {
	if v == nil {
		v = sdk.Zero()
	}
	b := v.Bytes32()
	w.buf.Write(b[:])
}

func (w *binWriter) writeAddress(a sdk.Address) {
	w.buf.Write(a[:])
}

func (w *binWriter) writeHash(h sdk.Hash) {
	w.buf.Write(h[:])
}

// writeBytes prefixes its length then dumps the raw bytes.
func (w *binWriter) writeBytes(b []byte) {
	w.writeVarUint(uint64(len(b)))
	w.buf.Write(b)
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

// writeAddressList is a count followed by raw addresses.
func (w *binWriter) writeAddressList(list []sdk.Address) {
	w.writeVarUint(uint64(len(list)))
	for _, a := range list {
		w.writeAddress(a)
	}
}

// ------------------------------------------------------------------
// Decoder helpers
// ------------------------------------------------------------------

type binReader struct {
	data []byte
	pos  int
}

// newReader wraps raw bytes so we can peek sequentially w/out copying.
func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, errUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *binReader) readByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// readUint64 decodes big endian integers for ids and totals.
func (r *binReader) readUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *binReader) readInt64() (int64, error) {
	v, err := r.readUint64()
	return int64(v), err
}

// readVarUint undoes the compact varint encoding for lengths/counts.
func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readAmount() (*uint256.Int, error) {
	b, err := r.take(32)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(b), nil
}

func (r *binReader) readAddress() (sdk.Address, error) {
	var a sdk.Address
	b, err := r.take(20)
	if err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}

func (r *binReader) readHash() (sdk.Hash, error) {
	var h sdk.Hash
	b, err := r.take(32)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func (r *binReader) readBytes() ([]byte, error) {
	l, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	b, err := r.take(int(l))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (r *binReader) readString() (string, error) {
	b, err := r.readBytes()
	return string(b), err
}

func (r *binReader) readAddressList() ([]sdk.Address, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(r.data)-r.pos)/20 {
		return nil, errUnexpectedEOF
	}
	out := make([]sdk.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		a, err := r.readAddress()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// ------------------------------------------------------------------
// Records
// ------------------------------------------------------------------

func encodeConfig(cfg *Config) []byte {
	w := newWriter()
	w.writeAddress(cfg.Self)
	w.writeAddress(cfg.PlatformToken)
	w.writeAddress(cfg.RewardToken)
	w.writeAddress(cfg.StakingToken)
	w.writeHash(cfg.WhitelistRoot)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			w.writeUint64(cfg.ReferralBps[i][j])
		}
	}
	w.writeInt64(cfg.RoundDuration)
	w.writeAmount(cfg.PriceIncrement)
	w.writeUint64(cfg.RewardPercentage)
	w.writeInt64(cfg.RewardDelay)
	w.writeInt64(cfg.UnstakeDelay)
	w.writeInt64(cfg.VotingDuration)
	return w.bytes()
}

func decodeConfig(data []byte) (*Config, error) {
	r := newReader(data)
	cfg := &Config{}
	var err error
	if cfg.Self, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.PlatformToken, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.RewardToken, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.StakingToken, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.WhitelistRoot, err = r.readHash(); err != nil {
		return nil, err
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if cfg.ReferralBps[i][j], err = r.readUint64(); err != nil {
				return nil, err
			}
		}
	}
	if cfg.RoundDuration, err = r.readInt64(); err != nil {
		return nil, err
	}
	if cfg.PriceIncrement, err = r.readAmount(); err != nil {
		return nil, err
	}
	if cfg.RewardPercentage, err = r.readUint64(); err != nil {
		return nil, err
	}
	if cfg.RewardDelay, err = r.readInt64(); err != nil {
		return nil, err
	}
	if cfg.UnstakeDelay, err = r.readInt64(); err != nil {
		return nil, err
	}
	if cfg.VotingDuration, err = r.readInt64(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func encodeRound(rd *Round) []byte {
	w := newWriter()
	w.writeByte(byte(rd.Type))
	w.writeInt64(rd.StartTime)
	w.writeInt64(rd.Duration)
	w.writeAmount(rd.Price)
	w.writeAmount(rd.RemainingAmount)
	w.writeAmount(rd.AccumulatedVolume)
	return w.bytes()
}

func decodeRound(data []byte) (*Round, error) {
	r := newReader(data)
	rd := &Round{}
	t, err := r.readByte()
	if err != nil {
		return nil, err
	}
	rd.Type = RoundType(t)
	if rd.StartTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	if rd.Duration, err = r.readInt64(); err != nil {
		return nil, err
	}
	if rd.Price, err = r.readAmount(); err != nil {
		return nil, err
	}
	if rd.RemainingAmount, err = r.readAmount(); err != nil {
		return nil, err
	}
	if rd.AccumulatedVolume, err = r.readAmount(); err != nil {
		return nil, err
	}
	return rd, nil
}

func encodeAccount(acc *Account) []byte {
	w := newWriter()
	w.writeInt64(acc.RegDate)
	w.writeAddress(acc.Referral)
	return w.bytes()
}

func decodeAccount(data []byte) (*Account, error) {
	r := newReader(data)
	acc := &Account{}
	var err error
	if acc.RegDate, err = r.readInt64(); err != nil {
		return nil, err
	}
	if acc.Referral, err = r.readAddress(); err != nil {
		return nil, err
	}
	return acc, nil
}

func encodeListing(l *Listing) []byte {
	w := newWriter()
	w.writeAmount(l.Amount)
	w.writeAmount(l.Price)
	return w.bytes()
}

func decodeListing(data []byte) (*Listing, error) {
	r := newReader(data)
	l := &Listing{}
	var err error
	if l.Amount, err = r.readAmount(); err != nil {
		return nil, err
	}
	if l.Price, err = r.readAmount(); err != nil {
		return nil, err
	}
	return l, nil
}

func encodeDeposit(d *Deposit) []byte {
	w := newWriter()
	w.writeAmount(d.StakedAmount)
	w.writeAmount(d.SavedReward)
	w.writeInt64(d.LastStakeTime)
	w.writeInt64(d.LastRewardTime)
	return w.bytes()
}

func decodeDeposit(data []byte) (*Deposit, error) {
	r := newReader(data)
	d := &Deposit{}
	var err error
	if d.StakedAmount, err = r.readAmount(); err != nil {
		return nil, err
	}
	if d.SavedReward, err = r.readAmount(); err != nil {
		return nil, err
	}
	if d.LastStakeTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	if d.LastRewardTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	return d, nil
}

// EncodeProposal serializes a proposal the way it sits in state.
func EncodeProposal(p *Proposal) []byte {
	w := newWriter()
	w.writeUint64(p.ID)
	w.writeAddress(p.Recipient)
	w.writeBytes(p.Payload)
	w.writeString(p.Description)
	w.writeInt64(p.StartTime)
	w.writeAmount(p.VotesFor)
	w.writeAmount(p.VotesAgainst)
	w.writeByte(byte(p.Status))
	return w.bytes()
}

// DecodeProposal lets tests and the CLI read back stored proposals.
func DecodeProposal(data []byte) (*Proposal, error) {
	r := newReader(data)
	p := &Proposal{}
	var err error
	if p.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if p.Recipient, err = r.readAddress(); err != nil {
		return nil, err
	}
	if p.Payload, err = r.readBytes(); err != nil {
		return nil, err
	}
	if p.Description, err = r.readString(); err != nil {
		return nil, err
	}
	if p.StartTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	if p.VotesFor, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.VotesAgainst, err = r.readAmount(); err != nil {
		return nil, err
	}
	s, err := r.readByte()
	if err != nil {
		return nil, err
	}
	p.Status = ProposalStatus(s)
	return p, nil
}

func encodeAddressList(list []sdk.Address) []byte {
	w := newWriter()
	w.writeAddressList(list)
	return w.bytes()
}

func decodeAddressList(data []byte) ([]sdk.Address, error) {
	return newReader(data).readAddressList()
}
