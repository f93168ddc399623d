package stellar

import (
	"fmt"
)

var (
	ErrUnknownDiscriminant      = fmt.Errorf("unknown discriminant")
	ErrTruncatedStream          = fmt.Errorf("truncated stream")
	ErrInvalidAddress           = fmt.Errorf("invalid address")
	ErrInvalidStrkey            = fmt.Errorf("invalid strkey")
	ErrInvalidAmount            = fmt.Errorf("invalid amount")
	ErrPathTooLong              = fmt.Errorf("path payment path exceeds 5 assets")
	ErrInvalidAuthorizedFn      = fmt.Errorf("authorized function requires exactly one function kind")
	ErrSourceAccountCredentials = fmt.Errorf("cannot sign source account credentials")
	ErrInvalidSymbol            = fmt.Errorf("symbol exceeds maximum length")
	ErrUnimplementedFunction    = fmt.Errorf("unimplemented host function combination")
	ErrInvalidAssetCode         = fmt.Errorf("invalid asset code")
	ErrInvalidPublicKey         = fmt.Errorf("invalid public key")
	ErrSignatureInvalid         = fmt.Errorf("signature verification failed")
	ErrHorizonFailed            = fmt.Errorf("horizon request failed")
)

var AllErrors = []error{
	ErrUnknownDiscriminant,
	ErrTruncatedStream,
	ErrInvalidAddress,
	ErrInvalidStrkey,
	ErrInvalidAmount,
	ErrPathTooLong,
	ErrInvalidAuthorizedFn,
	ErrSourceAccountCredentials,
	ErrInvalidSymbol,
	ErrUnimplementedFunction,
	ErrInvalidAssetCode,
	ErrInvalidPublicKey,
	ErrSignatureInvalid,
	ErrHorizonFailed,
}
