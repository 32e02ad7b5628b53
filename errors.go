package ckpt

import (
	"fmt"
)

// ContractError is the panic value for programming errors: misuse of the
// Writer protocol, or runtime data that must always be present.
type ContractError struct {
	Op  string
	Msg string
}

func (e *ContractError) Error() string {
	return "ckpt: " + e.Op + ": " + e.Msg
}

func fatalf(op string, format string, args ...any) {
	panic(&ContractError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
