package memory

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// commLen is the kernel's limit on /proc/<pid>/comm, including the NUL.
const commLen = 16

// baseName strips directories from Unix and Windows style paths.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// matchProcess reports whether a /proc entry belongs to the named process.
// Games running under Wine or Proton show their Windows path in argv[0],
// while comm is truncated to 15 bytes.
func matchProcess(comm, cmdline []byte, name string) bool {
	if argv0, _, _ := bytes.Cut(cmdline, []byte{0}); len(argv0) > 0 {
		exe := baseName(string(argv0))
		exe = strings.TrimSuffix(strings.TrimSuffix(exe, ".exe"), ".EXE")
		if strings.EqualFold(exe, name) {
			return true
		}
	}

	c := strings.TrimSpace(string(comm))
	if c == "" {
		return false
	}
	if len(name) >= commLen-1 {
		return c == name[:commLen-1] || c == name
	}
	return c == name
}

// parseModuleBase scans /proc/<pid>/maps content for the lowest mapping of
// module and returns its start address.
func parseModuleBase(r io.Reader, module string) (uint64, error) {
	var (
		base  uint64
		found bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		// address perms offset dev inode pathname
		fields := strings.Fields(sc.Text())
		if len(fields) < 6 {
			continue
		}
		path := strings.Join(fields[5:], " ")
		if !strings.EqualFold(baseName(path), module) {
			continue
		}

		lo, _, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		start, err := strconv.ParseUint(lo, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("memory: bad maps address %q: %w", fields[0], err)
		}
		if !found || start < base {
			base = start
			found = true
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("memory: read maps: %w", err)
	}
	if !found {
		return 0, ErrModuleNotFound
	}
	return base, nil
}
