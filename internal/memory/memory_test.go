package memory

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chained-autosplit/internal/core"
	"github.com/vovakirdan/chained-autosplit/internal/engine"
)

var errUnmapped = errors.New("unmapped")

// fakeMemory maps exact addresses to the bytes stored there.
type fakeMemory map[uint64][]byte

func (m fakeMemory) ReadMemory(addr uint64, buf []byte) error {
	b, ok := m[addr]
	if !ok || len(b) < len(buf) {
		return errUnmapped
	}
	copy(buf, b)
	return nil
}

func (m fakeMemory) ptr(addr, to uint64) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, to)
	m[addr] = b
}

func (m fakeMemory) f64(addr uint64, v float64) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	m[addr] = b
}

func (m fakeMemory) u32(addr uint64, v uint32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	m[addr] = b
}

const testBase = 0x140000000

var testLayout = Layout{
	Process: "Game",
	Module:  "Game.exe",
	X:       []uint64{0x100, 0x10, 0x28},
	Y:       []uint64{0x100, 0x10, 0x30},
	Z:       []uint64{0x100, 0x10, 0x38},
	Timer:   []uint64{0x100, 0x20, 0x320},
}

// gameMemory lays out a pawn at 0x5000 and a clock at 0x6000.
func gameMemory(pos core.Vec3, timer uint32) fakeMemory {
	m := fakeMemory{}
	m.ptr(testBase+0x100, 0x4000)
	m.ptr(0x4000+0x10, 0x5000)
	m.ptr(0x4000+0x20, 0x6000)
	m.f64(0x5000+0x28, pos.X)
	m.f64(0x5000+0x30, pos.Y)
	m.f64(0x5000+0x38, pos.Z)
	m.u32(0x6000+0x320, timer)
	return m
}

func TestReadPointerPath(t *testing.T) {
	m := gameMemory(core.V(1.5, -2.25, 3), 42)

	x, err := ReadF64(m, testBase, testLayout.X)
	require.NoError(t, err)
	assert.Equal(t, 1.5, x)

	timer, err := ReadU32(m, testBase, testLayout.Timer)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), timer)
}

func TestReadPointerPathSingleOffset(t *testing.T) {
	m := fakeMemory{}
	m.u32(testBase+0x8, 7)

	v, err := ReadU32(m, testBase, []uint64{0x8})
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)
}

func TestReadPointerPathErrors(t *testing.T) {
	m := gameMemory(core.V(0, 0, 0), 0)

	_, err := ReadF64(m, testBase, nil)
	assert.ErrorIs(t, err, ErrBadPath)

	// Broken link in the middle of the chain.
	delete(m, 0x4000+0x10)
	_, err = ReadF64(m, testBase, testLayout.X)
	assert.ErrorIs(t, err, errUnmapped)
}

func TestReadSnapshot(t *testing.T) {
	m := gameMemory(core.V(48169.70, -6670.38, 10415.32), 1800)

	s, err := ReadSnapshot(m, testBase, testLayout)
	require.NoError(t, err)
	assert.Equal(t, core.V(48169.70, -6670.38, 10415.32), s.Pos)
	assert.Equal(t, uint32(1800), s.Timer)
	assert.Equal(t, uint32(30), s.Seconds())
}

func TestReadSnapshotPartialFailure(t *testing.T) {
	m := gameMemory(core.V(1, 2, 3), 60)
	delete(m, 0x6000+0x320)

	s, err := ReadSnapshot(m, testBase, testLayout)
	assert.Error(t, err)
	assert.Equal(t, engine.Snapshot{}, s, "a failed read yields no partial snapshot")
}

func TestMatchProcess(t *testing.T) {
	const name = "ChainedTogether-Win64-Shipping"

	tests := []struct {
		name     string
		comm     string
		cmdline  string
		expected bool
	}{
		{"wine path", "ChainedTogether", `Z:\games\Chained\ChainedTogether-Win64-Shipping.exe` + "\x00-dx12\x00", true},
		{"unix path", "", "/opt/game/ChainedTogether-Win64-Shipping.exe\x00", true},
		{"case differs", "", `C:\GAME\CHAINEDTOGETHER-WIN64-SHIPPING.EXE` + "\x00", true},
		{"truncated comm", "ChainedTogether\n", "", true},
		{"other process", "bash\n", "/bin/bash\x00", false},
		{"empty", "", "", false},
		{"prefix only", "", "/opt/ChainedTogether.exe\x00", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, matchProcess([]byte(tc.comm), []byte(tc.cmdline), name))
		})
	}
}

func TestMatchProcessShortName(t *testing.T) {
	assert.True(t, matchProcess([]byte("game\n"), nil, "game"))
	assert.False(t, matchProcess([]byte("games\n"), nil, "game"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "a.exe", baseName(`C:\x\a.exe`))
	assert.Equal(t, "a.so", baseName("/usr/lib/a.so"))
	assert.Equal(t, "plain", baseName("plain"))
}

const sampleMaps = `00400000-00401000 r--p 00000000 08:01 123 /usr/bin/wine64-preloader
140001000-140200000 r-xp 00001000 08:01 456 /games/Chained/ChainedTogether-Win64-Shipping.exe
140000000-140001000 r--p 00000000 08:01 456 /games/Chained/ChainedTogether-Win64-Shipping.exe
7f0000000000-7f0000001000 rw-p 00000000 00:00 0
7f0000002000-7f0000003000 r--p 00000000 08:01 789 /home/me/My Games/mod file.dll
`

func TestParseModuleBase(t *testing.T) {
	base, err := parseModuleBase(strings.NewReader(sampleMaps), "ChainedTogether-Win64-Shipping.exe")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x140000000), base, "lowest mapping wins")

	base, err = parseModuleBase(strings.NewReader(sampleMaps), "mod file.dll")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7f0000002000), base, "paths with spaces are kept whole")

	_, err = parseModuleBase(strings.NewReader(sampleMaps), "missing.exe")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

// fakeProcess is a Process over fakeMemory.
type fakeProcess struct {
	fakeMemory
	alive  bool
	base   uint64
	closed bool
}

func (p *fakeProcess) Alive() bool { return p.alive }

func (p *fakeProcess) ModuleBase(name string) (uint64, error) {
	if p.base == 0 {
		return 0, ErrModuleNotFound
	}
	return p.base, nil
}

func (p *fakeProcess) Close() error {
	p.closed = true
	return nil
}

func TestProcessSource(t *testing.T) {
	proc := &fakeProcess{fakeMemory: gameMemory(core.V(1, 2, 3), 90), alive: true}
	src := NewProcessSource(proc, testLayout)

	// Module not mapped yet is a transient failure.
	_, err := src.Read()
	assert.ErrorIs(t, err, ErrModuleNotFound)
	assert.NotErrorIs(t, err, ErrDetached)

	proc.base = testBase
	s, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, uint32(90), s.Timer)

	proc.alive = false
	_, err = src.Read()
	assert.ErrorIs(t, err, engine.ErrDetached)

	require.NoError(t, src.Close())
	assert.True(t, proc.closed)
}

func TestProcessAttacher(t *testing.T) {
	a := NewProcessAttacher(testLayout, nil)

	a.open = func(name string) (Process, error) {
		return nil, ErrProcessNotFound
	}
	_, err := a.Attach(context.Background())
	assert.ErrorIs(t, err, ErrProcessNotFound)
	assert.Contains(t, err.Error(), "Game")

	proc := &fakeProcess{alive: true}
	a.open = func(name string) (Process, error) {
		assert.Equal(t, "Game", name)
		return proc, nil
	}
	src, err := a.Attach(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &ProcessSource{}, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Attach(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
