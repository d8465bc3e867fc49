package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/kapu/osint-footprint-go/internal/domain"
)

// Error codes
const (
	CodeEngineError  = "ENGINE_ERROR"
	CodeMarkerDecode = "MARKER_DECODE_ERROR"
	CodePlatform     = "PLATFORM_ERROR"
	CodeFatalInit    = "FATAL_INIT_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeCache        = "CACHE_ERROR"
	CodeStore        = "STORE_ERROR"
)

type EngineError struct {
	Message string
	Code    string
	Kind    domain.ErrorKind
	Context map[string]any
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// MarkerDecodeError is recorded when one embedded-data block cannot be decoded.
type MarkerDecodeError struct {
	*EngineError
	Marker string
}

func NewMarkerDecodeError(marker string, cause error) *MarkerDecodeError {
	return &MarkerDecodeError{
		EngineError: &EngineError{
			Message: fmt.Sprintf("marker %s could not be decoded", marker),
			Code:    CodeMarkerDecode,
			Kind:    domain.ErrorMarkerDecodeFailure,
			Context: map[string]any{"marker": marker},
			Cause:   cause,
		},
		Marker: marker,
	}
}

type PlatformError struct {
	*EngineError
	Platform string
}

func NewPlatformError(platform string, kind domain.ErrorKind, cause error) *PlatformError {
	return &PlatformError{
		EngineError: &EngineError{
			Message: fmt.Sprintf("platform %s check failed", platform),
			Code:    CodePlatform,
			Kind:    kind,
			Context: map[string]any{"platform": platform},
			Cause:   cause,
		},
		Platform: platform,
	}
}

// FatalInitError is the only error kind that aborts a whole run.
type FatalInitError struct {
	*EngineError
	Component string
}

func NewFatalInitError(message, component string, cause error) *FatalInitError {
	return &FatalInitError{
		EngineError: &EngineError{
			Message: message,
			Code:    CodeFatalInit,
			Kind:    domain.ErrorFatalInit,
			Context: map[string]any{"component": component},
			Cause:   cause,
		},
		Component: component,
	}
}

type ValidationError struct {
	*EngineError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		EngineError: &EngineError{
			Message: message,
			Code:    CodeValidation,
			Kind:    domain.ErrorPlatformFetchError,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*EngineError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		EngineError: &EngineError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type StoreError struct {
	*EngineError
	Operation string
}

func NewStoreError(message, operation string, cause error) *StoreError {
	return &StoreError{
		EngineError: &EngineError{
			Message: message,
			Code:    CodeStore,
			Context: map[string]any{"operation": operation},
			Cause:   cause,
		},
		Operation: operation,
	}
}

// IsFatal reports whether err carries a FatalInitError anywhere in its chain.
func IsFatal(err error) bool {
	var fatal *FatalInitError
	return stderrors.As(err, &fatal)
}

// KindOf extracts the ErrorKind of the first EngineError-backed error in the chain.
func KindOf(err error) domain.ErrorKind {
	if err == nil {
		return domain.ErrorNone
	}
	var marker *MarkerDecodeError
	if stderrors.As(err, &marker) {
		return marker.Kind
	}
	var platform *PlatformError
	if stderrors.As(err, &platform) {
		return platform.Kind
	}
	var fatal *FatalInitError
	if stderrors.As(err, &fatal) {
		return fatal.Kind
	}
	var engine *EngineError
	if stderrors.As(err, &engine) {
		return engine.Kind
	}
	return domain.ErrorPlatformFetchError
}
