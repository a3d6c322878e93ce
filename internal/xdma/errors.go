package xdma

import "errors"

var (
	// ErrFatal marks attach failures that leave nothing usable: a DMA channel
	// or the control file could not be opened.
	ErrFatal = errors.New("xdma: device unavailable")
	// ErrMap reports that the control window could not be mapped. Both channels
	// have been released when it is returned.
	ErrMap = errors.New("xdma: control window mapping failed")

	ErrDetached      = errors.New("xdma: device is not attached")
	ErrDimension     = errors.New("xdma: dimension mismatch")
	ErrTransfer      = errors.New("xdma: transfer failed")
	ErrShortTransfer = errors.New("xdma: short transfer")
	ErrUnsupported   = errors.New("xdma: platform does not support device mapping")
)
