//go:build !unix

package xdma

import "io"

type sysOpener struct{}

func SystemOpener() Opener {
	return sysOpener{}
}

func (sysOpener) OpenH2C(string) (io.WriteCloser, error) {
	return nil, ErrUnsupported
}

func (sysOpener) OpenC2H(string) (io.ReadCloser, error) {
	return nil, ErrUnsupported
}

func (sysOpener) OpenControl(string) (ControlFile, error) {
	return nil, ErrUnsupported
}
