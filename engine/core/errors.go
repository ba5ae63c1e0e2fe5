package core

import (
	"errors"
)

var (
	ErrUnknown = errors.New("unknown")

	// resources
	ErrNoSuitableMemoryType = errors.New("no suitable memory type")

	// transfers
	ErrUnsupportedLayoutTransition = errors.New("unsupported layout transition")
	ErrBlitUnsupported             = errors.New("texture image format does not support linear blitting")

	// swapchain and device
	ErrNoAcceptableFormat     = errors.New("no acceptable surface format")
	ErrNoSuitableDevice       = errors.New("no physical device meets the requirements")
	ErrMissingValidationLayer = errors.New("required validation layer is missing")
	ErrNoDepthFormat          = errors.New("no supported depth format")
	ErrInvalidFramebufferSize = errors.New("framebuffer size must be non-zero")

	// assets
	ErrDecodeFailed     = errors.New("failed to decode asset")
	ErrInvalidBytecode  = errors.New("shader bytecode size is not a multiple of 4")
	ErrUnsupportedAsset = errors.New("unsupported asset type")
	ErrEmptyMesh        = errors.New("mesh has no triangles")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
