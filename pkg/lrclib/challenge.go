package lrclib

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
)

// DefaultWorkers is the number of goroutines used to solve a challenge.
const DefaultWorkers = 4

// Solve finds a nonce for a publish challenge using DefaultWorkers goroutines.
//
// A nonce n solves the challenge when sha256(prefix + decimal(n)), read as a
// 256-bit big-endian integer, is strictly less than the target. targetHex
// must decode to exactly 32 bytes.
//
// The returned nonce is a valid solution but not necessarily the smallest
// one, and repeated calls with the same inputs may return different nonces.
// Solve blocks until a solution is found; there is no timeout.
func Solve(prefix, targetHex string) (uint64, error) {
	target, err := decodeTarget(targetHex)
	if err != nil {
		return 0, err
	}
	return SolveWorkers(prefix, target, DefaultWorkers), nil
}

// SolveWorkers solves a challenge with the given number of workers.
//
// Worker i tries nonces i, i+workers, i+2*workers, ... and all workers stop
// once any of them has found a solution. A workers value below 1 is treated
// as 1.
func SolveWorkers(prefix string, target []byte, workers int) uint64 {
	if workers < 1 {
		workers = 1
	}

	var s solution
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			findNonce(prefix, target, &s, start, uint64(workers))
		}(uint64(i))
	}
	wg.Wait()

	return s.nonce.Load()
}

// Verify reports whether nonce solves the challenge.
func Verify(prefix string, nonce uint64, target []byte) bool {
	return isNonceValid([]byte(prefix), nonce, target, nil)
}

// Token builds the X-Publish-Token value for a solved challenge.
func Token(prefix string, nonce uint64) string {
	return prefix + ":" + strconv.FormatUint(nonce, 10)
}

// solution is the slot shared by all workers. The first worker to
// publish a nonce wins; later valid nonces are discarded.
type solution struct {
	found atomic.Bool
	nonce atomic.Uint64
}

func (s *solution) solved() bool {
	return s.found.Load()
}

func (s *solution) store(nonce uint64) {
	if s.found.CompareAndSwap(false, true) {
		s.nonce.Store(nonce)
	}
}

func findNonce(prefix string, target []byte, s *solution, start, step uint64) {
	p := []byte(prefix)
	buf := make([]byte, 0, len(p)+20)

	for nonce := start; !s.solved(); nonce += step {
		if isNonceValid(p, nonce, target, buf) {
			s.store(nonce)
			return
		}
	}
}

// isNonceValid hashes prefix+decimal(nonce) and compares it byte-wise,
// most significant byte first, against target.
func isNonceValid(prefix []byte, nonce uint64, target []byte, buf []byte) bool {
	buf = append(buf[:0], prefix...)
	buf = strconv.AppendUint(buf, nonce, 10)
	sum := sha256.Sum256(buf)
	return bytes.Compare(sum[:], target) < 0
}

func decodeTarget(targetHex string) ([]byte, error) {
	target, err := hex.DecodeString(targetHex)
	if err != nil {
		return nil, fmt.Errorf("lrclib: invalid challenge target: %w", err)
	}
	if len(target) != sha256.Size {
		return nil, fmt.Errorf("lrclib: challenge target is %d bytes, want %d", len(target), sha256.Size)
	}
	return target, nil
}
