package contract

import (
	"errors"
	"fmt"
)

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrUnknownDomain   = errors.New("unknown research domain")
	ErrOrchestration   = errors.New("research orchestration failed")
	ErrRender          = errors.New("report rendering failed")
)

// UnknownDomainError reports a domain key that is not in the agent registry.
type UnknownDomainError struct {
	Key string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownDomain, e.Key)
}

func (e *UnknownDomainError) Is(target error) bool {
	return target == ErrUnknownDomain
}
