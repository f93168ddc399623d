package stellar

import (
	"github.com/pkg/errors"
)

// MaxPathLength bounds the intermediate assets in a path payment.
const MaxPathLength = 5

// PathPaymentStrictSendOperation sends an exact amount of the send asset
// and delivers at least DestMin of the destination asset, converting
// through up to five intermediate assets. Construct it through
// PathPaymentStrictSendBuilder, which enforces the path bound.
type PathPaymentStrictSendOperation struct {
	SourceAccount *MuxedAccount
	SendAsset     Asset
	SendAmount    string
	Destination   MuxedAccount
	DestAsset     Asset
	DestMin       string
	Path          []Asset
}

func (op PathPaymentStrictSendOperation) OperationType() OperationType {
	return OperationTypePathPaymentStrictSend
}

func (op PathPaymentStrictSendOperation) EncodeTo(e *XdrEncoder) (err error) {
	if len(op.Path) > MaxPathLength {
		err = errors.Wrapf(ErrPathTooLong, "%d assets", len(op.Path))
		return
	}

	sendAmount, err := AmountToStroops(op.SendAmount)
	if err != nil {
		return
	}
	destMin, err := AmountToStroops(op.DestMin)
	if err != nil {
		return
	}

	if err = encodeOperationSource(e, op.SourceAccount); err != nil {
		return
	}
	e.WriteUint32(uint32(op.OperationType()))
	if err = op.SendAsset.EncodeTo(e); err != nil {
		return
	}
	e.WriteInt64(sendAmount)
	if err = op.Destination.EncodeTo(e); err != nil {
		return
	}
	if err = op.DestAsset.EncodeTo(e); err != nil {
		return
	}
	e.WriteInt64(destMin)
	e.WriteUint32(uint32(len(op.Path)))
	for _, asset := range op.Path {
		if err = asset.EncodeTo(e); err != nil {
			return
		}
	}
	return
}

// ToXdr returns the standalone XDR encoding of the operation.
func (op PathPaymentStrictSendOperation) ToXdr() (out []byte, err error) {
	e := NewXdrEncoder()
	if err = op.EncodeTo(e); err != nil {
		return
	}
	out = e.Bytes()
	return
}

func decodePathPaymentStrictSend(d *XdrDecoder, source *MuxedAccount) (op PathPaymentStrictSendOperation, err error) {
	op.SourceAccount = source
	if op.SendAsset, err = DecodeAsset(d); err != nil {
		return
	}
	var sendAmount int64
	if sendAmount, err = d.ReadInt64(); err != nil {
		return
	}
	op.SendAmount = AmountFromStroops(sendAmount)
	if op.Destination, err = DecodeMuxedAccount(d); err != nil {
		return
	}
	if op.DestAsset, err = DecodeAsset(d); err != nil {
		return
	}
	var destMin int64
	if destMin, err = d.ReadInt64(); err != nil {
		return
	}
	op.DestMin = AmountFromStroops(destMin)

	n, err := d.ReadUint32()
	if err != nil {
		return
	}
	if n > MaxPathLength {
		err = errors.Wrapf(ErrPathTooLong, "%d assets", n)
		return
	}
	for i := uint32(0); i < n; i++ {
		var asset Asset
		if asset, err = DecodeAsset(d); err != nil {
			return
		}
		op.Path = append(op.Path, asset)
	}
	return
}

// PathPaymentStrictSendBuilder assembles a path payment, checking the path
// bound at every mutation so violations surface at build time rather than
// at submission.
type PathPaymentStrictSendBuilder struct {
	op  PathPaymentStrictSendOperation
	err error
}

func NewPathPaymentStrictSendBuilder(sendAsset Asset, sendAmount string, destination MuxedAccount, destAsset Asset, destMin string) *PathPaymentStrictSendBuilder {
	return &PathPaymentStrictSendBuilder{
		op: PathPaymentStrictSendOperation{
			SendAsset:   sendAsset,
			SendAmount:  sendAmount,
			Destination: destination,
			DestAsset:   destAsset,
			DestMin:     destMin,
		},
	}
}

func (b *PathPaymentStrictSendBuilder) SetSourceAccount(source MuxedAccount) *PathPaymentStrictSendBuilder {
	b.op.SourceAccount = &source
	return b
}

func (b *PathPaymentStrictSendBuilder) SetPath(path []Asset) *PathPaymentStrictSendBuilder {
	if len(path) > MaxPathLength {
		if b.err == nil {
			b.err = errors.Wrapf(ErrPathTooLong, "%d assets", len(path))
		}
		return b
	}
	b.op.Path = path
	return b
}

func (b *PathPaymentStrictSendBuilder) Build() (op PathPaymentStrictSendOperation, err error) {
	if b.err != nil {
		err = b.err
		return
	}
	if len(b.op.Path) > MaxPathLength {
		err = errors.Wrapf(ErrPathTooLong, "%d assets", len(b.op.Path))
		return
	}
	if _, err = AmountToStroops(b.op.SendAmount); err != nil {
		return
	}
	if _, err = AmountToStroops(b.op.DestMin); err != nil {
		return
	}
	op = b.op
	return
}
