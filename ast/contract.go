package ast

import "fmt"

// ContractViolation reports a tree shape that a correct builder never
// produces. It signals a bug in the toolchain rather than in user input.
type ContractViolation struct {
	Node Node
	Msg  string
}

func (e *ContractViolation) Error() string {
	if e.Node == nil {
		return "contract violation: " + e.Msg
	}
	return fmt.Sprintf("contract violation at %s: %s (%T)", e.Node.Pos(), e.Msg, e.Node)
}
