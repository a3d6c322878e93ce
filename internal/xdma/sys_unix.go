//go:build unix

package xdma

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

type sysOpener struct{}

// SystemOpener opens the real device nodes.
func SystemOpener() Opener {
	return sysOpener{}
}

func (sysOpener) OpenH2C(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (sysOpener) OpenC2H(path string) (io.ReadCloser, error) {
	f, err := os.OpenFile(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (sysOpener) OpenControl(path string) (ControlFile, error) {
	f, err := os.OpenFile(path, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &controlFile{f: f}, nil
}

type controlFile struct {
	f *os.File
}

func (c *controlFile) Map(size int) (Window, error) {
	data, err := unix.Mmap(int(c.f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &mmapWindow{data: data}, nil
}

func (c *controlFile) Close() error {
	return c.f.Close()
}

type mmapWindow struct {
	data []byte
}

func (w *mmapWindow) Bytes() []byte {
	return w.data
}

func (w *mmapWindow) Unmap() error {
	if w.data == nil {
		return nil
	}
	err := unix.Munmap(w.data)
	w.data = nil
	return err
}
