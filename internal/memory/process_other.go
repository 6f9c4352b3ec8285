//go:build !linux

package memory

func openProcess(string) (Process, error) {
	return nil, ErrUnsupported
}
