package structure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("structure configuration error")
	// ErrContractViolation matches every *ContractViolation.
	ErrContractViolation = errors.New("structure contract violation")
)

// ConfigurationError reports an unknown structure type token.
type ConfigurationError struct {
	Token string
	Valid []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown structure type %q (valid: %s)", e.Token, strings.Join(e.Valid, ", "))
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ContractViolation reports input the builder must not receive: a level
// it cannot order, or a line that would climb above the root.
type ContractViolation struct {
	Index  int // position in the builder's working sequence
	PageID int
	LineID int
	Reason string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation at line %d (page %d, line %d): %s", e.Index, e.PageID, e.LineID, e.Reason)
}

func (e *ContractViolation) Is(target error) bool { return target == ErrContractViolation }

// HTTPStatus maps a build error to the status a host API should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
