//go:build linux

package memory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"
)

// linuxProcess reads another process's memory with process_vm_readv.
type linuxProcess struct {
	pid int
}

func openProcess(name string) (Process, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("memory: list processes: %w", err)
	}

	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || !e.IsDir() {
			continue
		}
		dir := filepath.Join("/proc", e.Name())
		comm, _ := os.ReadFile(filepath.Join(dir, "comm"))
		cmdline, _ := os.ReadFile(filepath.Join(dir, "cmdline"))
		if matchProcess(comm, cmdline, name) {
			return &linuxProcess{pid: pid}, nil
		}
	}
	return nil, ErrProcessNotFound
}

func (p *linuxProcess) ReadMemory(addr uint64, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	local := []unix.Iovec{{Base: (*byte)(unsafe.Pointer(&buf[0]))}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}

	n, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	if err != nil {
		if errors.Is(err, unix.ESRCH) {
			return ErrDetached
		}
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("memory: short read at %#x: %d of %d bytes", addr, n, len(buf))
	}
	return nil
}

func (p *linuxProcess) Alive() bool {
	err := unix.Kill(p.pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

func (p *linuxProcess) ModuleBase(name string) (uint64, error) {
	f, err := os.Open(filepath.Join("/proc", strconv.Itoa(p.pid), "maps"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrDetached
		}
		return 0, fmt.Errorf("memory: open maps: %w", err)
	}
	defer f.Close()
	return parseModuleBase(f, name)
}

func (p *linuxProcess) Close() error {
	return nil
}
