// Package localdisk is a disk-backed corpus provider: each entry is a file
// under a base directory, and writes are serialized with an advisory flock
// on a sidecar lock file so that two processes (e.g. a fuzzer and a
// classify run) sharing the same corpus directory never interleave writes
// to the same file.
package localdisk

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	pr "github.com/unkn0wn-root/nrf1/corpus"
)

// Local stores corpus entries as files under Dir, one file per key.
//
// Each file is an 8-byte little-endian Unix-nano expiry deadline (0 means
// no expiry) followed by the raw value bytes. Get treats an expired file as
// a miss and removes it.
type Local struct {
	dir      string
	lockPath string
	lockFD   int
}

var _ pr.Provider = (*Local)(nil)

// New creates (if necessary) dir and opens the sidecar lock file used to
// serialize writes from concurrent processes.
func New(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(dir, ".corpus.lock")
	fd, err := unix.Open(lockPath, unix.O_CREAT|unix.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return &Local{dir: dir, lockPath: lockPath, lockFD: fd}, nil
}

func (p *Local) path(key string) string {
	return filepath.Join(p.dir, key+".bin")
}

func (p *Local) lock() error {
	return unix.Flock(p.lockFD, unix.LOCK_EX)
}

func (p *Local) unlock() error {
	return unix.Flock(p.lockFD, unix.LOCK_UN)
}

func (p *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(p.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(b) < 8 {
		return nil, false, nil
	}
	deadline := int64(binary.LittleEndian.Uint64(b[:8]))
	if deadline != 0 && time.Now().UnixNano() > deadline {
		_ = p.Del(context.Background(), key)
		return nil, false, nil
	}
	return b[8:], true, nil
}

func (p *Local) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if err := p.lock(); err != nil {
		return false, err
	}
	defer p.unlock()

	var deadline int64
	if ttl > 0 {
		deadline = time.Now().Add(ttl).UnixNano()
	}
	out := make([]byte, 8+len(value))
	binary.LittleEndian.PutUint64(out[:8], uint64(deadline))
	copy(out[8:], value)

	tmp := p.path(key) + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, p.path(key)); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Local) Del(_ context.Context, key string) error {
	if err := p.lock(); err != nil {
		return err
	}
	defer p.unlock()

	err := os.Remove(p.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (p *Local) Close(_ context.Context) error {
	if err := unix.Close(p.lockFD); err != nil {
		return err
	}
	return nil
}
