package core

import "errors"

// Common errors returned by the VM and by contracts.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthorized      = errors.New("unauthorized operation")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrContractNotFound  = errors.New("contract not found")
	ErrFunctionNotFound  = errors.New("function not found")
	ErrExecutionReverted = errors.New("execution reverted")
	ErrObjectNotFound    = errors.New("object not found")
	ErrFieldNotFound     = errors.New("field does not exist")
)
