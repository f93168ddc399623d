package stellar

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/pkg/errors"
)

const (
	envelopeTypeTx uint32 = 2

	precondNone uint32 = 0
	precondTime uint32 = 1
)

const (
	MemoTypeNone   uint32 = 0
	MemoTypeText   uint32 = 1
	MemoTypeID     uint32 = 2
	MemoTypeHash   uint32 = 3
	MemoTypeReturn uint32 = 4
)

const maxMemoTextLength = 28

type Memo struct {
	Type uint32
	Text string
	ID   uint64
	Hash []byte
}

func MemoNone() Memo {
	return Memo{Type: MemoTypeNone}
}

func MemoText(text string) Memo {
	return Memo{Type: MemoTypeText, Text: text}
}

func MemoID(id uint64) Memo {
	return Memo{Type: MemoTypeID, ID: id}
}

func (m Memo) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(m.Type)
	switch m.Type {
	case MemoTypeNone:
	case MemoTypeText:
		if len(m.Text) > maxMemoTextLength {
			err = errors.Errorf("memo text exceeds %d bytes", maxMemoTextLength)
			return
		}
		e.WriteString(m.Text)
	case MemoTypeID:
		e.WriteUint64(m.ID)
	case MemoTypeHash, MemoTypeReturn:
		if len(m.Hash) != 32 {
			err = errors.Errorf("memo hash must be 32 bytes, got %d", len(m.Hash))
			return
		}
		e.WriteOpaque(m.Hash)
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "memo type %d", m.Type)
	}
	return
}

func DecodeMemo(d *XdrDecoder) (m Memo, err error) {
	if m.Type, err = d.ReadUint32(); err != nil {
		return
	}
	switch m.Type {
	case MemoTypeNone:
	case MemoTypeText:
		m.Text, err = d.ReadString()
	case MemoTypeID:
		m.ID, err = d.ReadUint64()
	case MemoTypeHash, MemoTypeReturn:
		m.Hash, err = d.ReadOpaque(32)
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "memo type %d", m.Type)
	}
	return
}

// TimeBounds restricts the ledger close times at which a transaction is
// valid. A zero MaxTime means no upper bound.
type TimeBounds struct {
	MinTime uint64
	MaxTime uint64
}

// Transaction is a fee-bearing container for up to 100 operations from one
// source account.
type Transaction struct {
	SourceAccount  MuxedAccount
	Fee            uint32
	SequenceNumber int64
	TimeBounds     *TimeBounds
	Memo           Memo
	Operations     []Operation
}

func (t Transaction) EncodeTo(e *XdrEncoder) (err error) {
	if len(t.Operations) == 0 {
		err = errors.New("transaction requires at least one operation")
		return
	}
	if err = t.SourceAccount.EncodeTo(e); err != nil {
		return
	}
	e.WriteUint32(t.Fee)
	e.WriteInt64(t.SequenceNumber)
	if t.TimeBounds != nil {
		e.WriteUint32(precondTime)
		e.WriteUint64(t.TimeBounds.MinTime)
		e.WriteUint64(t.TimeBounds.MaxTime)
	} else {
		e.WriteUint32(precondNone)
	}
	if err = t.Memo.EncodeTo(e); err != nil {
		return
	}
	e.WriteUint32(uint32(len(t.Operations)))
	for _, op := range t.Operations {
		if err = op.EncodeTo(e); err != nil {
			return
		}
	}
	e.WriteUint32(0) // ext
	return
}

func DecodeTransaction(d *XdrDecoder) (t Transaction, err error) {
	if t.SourceAccount, err = DecodeMuxedAccount(d); err != nil {
		return
	}
	if t.Fee, err = d.ReadUint32(); err != nil {
		return
	}
	if t.SequenceNumber, err = d.ReadInt64(); err != nil {
		return
	}

	var cond uint32
	if cond, err = d.ReadUint32(); err != nil {
		return
	}
	switch cond {
	case precondNone:
	case precondTime:
		tb := &TimeBounds{}
		if tb.MinTime, err = d.ReadUint64(); err != nil {
			return
		}
		if tb.MaxTime, err = d.ReadUint64(); err != nil {
			return
		}
		t.TimeBounds = tb
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "precondition type %d", cond)
		return
	}

	if t.Memo, err = DecodeMemo(d); err != nil {
		return
	}

	var n uint32
	if n, err = d.ReadUint32(); err != nil {
		return
	}
	for i := uint32(0); i < n; i++ {
		var op Operation
		if op, err = DecodeOperation(d); err != nil {
			return
		}
		t.Operations = append(t.Operations, op)
	}

	var ext uint32
	if ext, err = d.ReadUint32(); err != nil {
		return
	}
	if ext != 0 {
		err = errors.Wrapf(ErrUnknownDiscriminant, "transaction ext %d", ext)
	}
	return
}

// Hash returns the transaction's content-addressed signature subject: the
// SHA-256 of the network id, the transaction envelope type, and the
// transaction body.
func (t Transaction) Hash(network Network) (hash [32]byte, err error) {
	networkID, err := network.ID()
	if err != nil {
		return
	}

	e := NewXdrEncoder()
	e.WriteOpaque(networkID[:])
	e.WriteUint32(envelopeTypeTx)
	if err = t.EncodeTo(e); err != nil {
		return
	}

	hash = sha256.Sum256(e.Bytes())
	return
}

// DecoratedSignature pairs a signature with the last four bytes of the
// signing public key so verifiers can locate the signer.
type DecoratedSignature struct {
	Hint      [4]byte
	Signature []byte
}

// TransactionEnvelope is a transaction plus its accumulated signatures,
// ready for network submission.
type TransactionEnvelope struct {
	Tx         Transaction
	Signatures []DecoratedSignature
}

// Sign appends a decorated signature over the transaction hash.
func (env *TransactionEnvelope) Sign(kp *KeyPair, network Network) (err error) {
	hash, err := env.Tx.Hash(network)
	if err != nil {
		return
	}
	env.Signatures = append(env.Signatures, DecoratedSignature{
		Hint:      kp.Hint(),
		Signature: kp.Sign(hash[:]),
	})
	return
}

func (env TransactionEnvelope) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(envelopeTypeTx)
	if err = env.Tx.EncodeTo(e); err != nil {
		return
	}
	e.WriteUint32(uint32(len(env.Signatures)))
	for _, sig := range env.Signatures {
		e.WriteOpaque(sig.Hint[:])
		e.WriteOpaqueVar(sig.Signature)
	}
	return
}

// ToBase64 returns the envelope in the base64 transport form expected by
// Horizon.
func (env TransactionEnvelope) ToBase64() (out string, err error) {
	e := NewXdrEncoder()
	if err = env.EncodeTo(e); err != nil {
		return
	}
	out = base64.StdEncoding.EncodeToString(e.Bytes())
	return
}

// TransactionEnvelopeFromBase64 decodes a base64 envelope.
func TransactionEnvelopeFromBase64(encoded string) (env TransactionEnvelope, err error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		err = errors.Wrap(err, "failed to decode base64 envelope")
		return
	}

	d := NewXdrDecoder(raw)
	var envelopeType uint32
	if envelopeType, err = d.ReadUint32(); err != nil {
		return
	}
	if envelopeType != envelopeTypeTx {
		err = errors.Wrapf(ErrUnknownDiscriminant, "envelope type %d", envelopeType)
		return
	}
	if env.Tx, err = DecodeTransaction(d); err != nil {
		return
	}

	var n uint32
	if n, err = d.ReadUint32(); err != nil {
		return
	}
	for i := uint32(0); i < n; i++ {
		var sig DecoratedSignature
		var hint []byte
		if hint, err = d.ReadOpaque(4); err != nil {
			return
		}
		copy(sig.Hint[:], hint)
		if sig.Signature, err = d.ReadOpaqueVar(); err != nil {
			return
		}
		env.Signatures = append(env.Signatures, sig)
	}

	if !d.Done() {
		err = errors.Errorf("trailing bytes after envelope: %d", d.Len())
	}
	return
}
