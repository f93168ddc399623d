package stellar

import (
	"github.com/pkg/errors"
)

type OperationType uint32

const (
	OperationTypePathPaymentStrictSend OperationType = 13
	OperationTypeInvokeHostFunction    OperationType = 24
)

// Operation is a single ledger operation. Encoding produces the full
// operation envelope: the optional operation source account followed by the
// body union.
type Operation interface {
	OperationType() OperationType
	EncodeTo(e *XdrEncoder) error
}

func encodeOperationSource(e *XdrEncoder, source *MuxedAccount) (err error) {
	e.WriteBool(source != nil)
	if source != nil {
		err = source.EncodeTo(e)
	}
	return
}

func decodeOperationSource(d *XdrDecoder) (source *MuxedAccount, err error) {
	present, err := d.ReadBool()
	if err != nil || !present {
		return
	}
	var m MuxedAccount
	if m, err = DecodeMuxedAccount(d); err != nil {
		return
	}
	source = &m
	return
}

// InvokeHostFunctionOperation carries one host function plus the
// authorization entries for the invocation trees it triggers. A nil source
// account defaults to the enclosing transaction's source.
type InvokeHostFunctionOperation struct {
	SourceAccount *MuxedAccount
	Function      HostFunction
	Auth          []SorobanAuthorizationEntry
}

func (op InvokeHostFunctionOperation) OperationType() OperationType {
	return OperationTypeInvokeHostFunction
}

func (op InvokeHostFunctionOperation) EncodeTo(e *XdrEncoder) (err error) {
	if op.Function == nil {
		err = errors.New("invoke host function operation requires a host function")
		return
	}
	if err = encodeOperationSource(e, op.SourceAccount); err != nil {
		return
	}
	e.WriteUint32(uint32(op.OperationType()))
	if err = op.Function.EncodeTo(e); err != nil {
		return
	}
	e.WriteUint32(uint32(len(op.Auth)))
	for _, entry := range op.Auth {
		if err = entry.EncodeTo(e); err != nil {
			return
		}
	}
	return
}

// ToXdr returns the standalone XDR encoding of the operation.
func (op InvokeHostFunctionOperation) ToXdr() (out []byte, err error) {
	e := NewXdrEncoder()
	if err = op.EncodeTo(e); err != nil {
		return
	}
	out = e.Bytes()
	return
}

// DecodeOperation decodes an operation envelope, dispatching on the body
// discriminant.
func DecodeOperation(d *XdrDecoder) (op Operation, err error) {
	source, err := decodeOperationSource(d)
	if err != nil {
		return
	}

	discriminant, err := d.ReadUint32()
	if err != nil {
		return
	}

	switch OperationType(discriminant) {
	case OperationTypeInvokeHostFunction:
		out := InvokeHostFunctionOperation{SourceAccount: source}
		if out.Function, err = DecodeHostFunction(d); err != nil {
			return
		}
		var n uint32
		if n, err = d.ReadUint32(); err != nil {
			return
		}
		for i := uint32(0); i < n; i++ {
			var entry SorobanAuthorizationEntry
			if entry, err = DecodeSorobanAuthorizationEntry(d); err != nil {
				return
			}
			out.Auth = append(out.Auth, entry)
		}
		op = out
	case OperationTypePathPaymentStrictSend:
		op, err = decodePathPaymentStrictSend(d, source)
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "operation type %d", discriminant)
	}
	return
}

// OperationFromXdr decodes a standalone XDR operation.
func OperationFromXdr(data []byte) (op Operation, err error) {
	d := NewXdrDecoder(data)
	if op, err = DecodeOperation(d); err != nil {
		return
	}
	if !d.Done() {
		err = errors.Errorf("trailing bytes after operation: %d", d.Len())
	}
	return
}
