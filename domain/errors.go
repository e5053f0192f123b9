package domain

import (
	"errors"
	"fmt"

	"github.com/ludo-technologies/treesim/internal/tree"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeMalformedInput    = "MALFORMED_INPUT"
	ErrCodeUnknownNode       = "UNKNOWN_NODE"
	ErrCodeCycleDetected     = "CYCLE_DETECTED"
	ErrCodeAnalysisError     = "ANALYSIS_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewMalformedInputError creates an error for a graph file that could not be decoded
func NewMalformedInputError(path string, cause error) error {
	return NewDomainError(ErrCodeMalformedInput, fmt.Sprintf("malformed graph input: %s", path), cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// TreeSide names one of the two trees of a comparison
type TreeSide int

const (
	FirstTree TreeSide = iota + 1
	SecondTree
)

func (s TreeSide) String() string {
	switch s {
	case FirstTree:
		return "first"
	case SecondTree:
		return "second"
	default:
		return "unknown"
	}
}

// ComparisonError reports a failure to build one side of a comparison
type ComparisonError struct {
	Side TreeSide
	Err  error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("%s tree: %v", e.Side, e.Err)
}

func (e *ComparisonError) Unwrap() error {
	return e.Err
}

// NewComparisonError wraps a materialization failure of one side into a
// DomainError whose code names the failure condition
func NewComparisonError(side TreeSide, cause error) error {
	return NewTreeError(fmt.Sprintf("cannot build %s tree", side), &ComparisonError{Side: side, Err: cause})
}

// NewTreeError wraps a materialization failure into a DomainError whose code
// names the failure condition
func NewTreeError(message string, cause error) error {
	var unknown *tree.UnknownNodeError
	var cycle *tree.CycleDetectedError
	switch {
	case errors.As(cause, &unknown):
		return NewDomainError(ErrCodeUnknownNode, message, cause)
	case errors.As(cause, &cycle):
		return NewDomainError(ErrCodeCycleDetected, message, cause)
	default:
		return NewDomainError(ErrCodeAnalysisError, message, cause)
	}
}

// ErrorCode returns the code of the outermost DomainError in err's chain, or
// an empty string
func ErrorCode(err error) string {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
