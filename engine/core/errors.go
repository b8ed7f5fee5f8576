package core

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedAntialiasing = errors.New("antialiasing mode not supported")
	ErrInvalidDimensions       = errors.New("render target dimensions must be greater than zero")
	ErrShaderValidation        = errors.New("shader validation failed")
	ErrUnsupportedPlatform     = errors.New("platform not supported for surface creation")
	ErrRendererReleased        = errors.New("renderer already released")
	ErrNoSurfaceFormat         = errors.New("surface reports no supported formats")
	ErrUnknown                 = errors.New("unknown")
)

// GPUErrorKind tells which acquisition step of the GPU stack failed.
type GPUErrorKind uint8

const (
	GPUErrorSurfaceCreation GPUErrorKind = iota
	GPUErrorAdapterRequest
	GPUErrorDeviceRequest
)

func (k GPUErrorKind) String() string {
	switch k {
	case GPUErrorSurfaceCreation:
		return "surface creation"
	case GPUErrorAdapterRequest:
		return "adapter request"
	case GPUErrorDeviceRequest:
		return "device request"
	}
	return ErrUnknown.Error()
}

// GPUError carries the error returned by the graphics API untouched,
// tagged with the step that produced it.
type GPUError struct {
	Kind GPUErrorKind
	Err  error
}

func NewGPUError(kind GPUErrorKind, err error) *GPUError {
	return &GPUError{Kind: kind, Err: err}
}

func (e *GPUError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *GPUError) Unwrap() error {
	return e.Err
}
