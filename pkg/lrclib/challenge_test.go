package lrclib

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"testing"
)

// easyTarget accepts roughly one hash in sixteen.
var easyTarget = "10" + strings.Repeat("ff", 31)

func TestSolve(t *testing.T) {
	prefixes := []string{"", "abc", "6f1a2b3c4d5e"}

	for _, prefix := range prefixes {
		t.Run("prefix="+prefix, func(t *testing.T) {
			nonce, err := Solve(prefix, easyTarget)
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}

			// Check with big.Int, independent of the byte-wise comparison.
			sum := sha256.Sum256([]byte(prefix + strconv.FormatUint(nonce, 10)))
			target, _ := new(big.Int).SetString(easyTarget, 16)
			if new(big.Int).SetBytes(sum[:]).Cmp(target) >= 0 {
				t.Errorf("nonce %d does not satisfy the target", nonce)
			}
		})
	}
}

func TestSolveWorkers(t *testing.T) {
	target, err := hex.DecodeString(easyTarget)
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{-1, 0, 1, 3, 8} {
		t.Run(strconv.Itoa(workers), func(t *testing.T) {
			nonce := SolveWorkers("prefix", target, workers)
			if !Verify("prefix", nonce, target) {
				t.Errorf("SolveWorkers(%d) returned invalid nonce %d", workers, nonce)
			}
		})
	}
}

func TestSolveWorkers_SingleWorkerFindsSmallest(t *testing.T) {
	target, _ := hex.DecodeString(easyTarget)

	var smallest uint64
	for !Verify("xyz", smallest, target) {
		smallest++
	}

	if got := SolveWorkers("xyz", target, 1); got != smallest {
		t.Errorf("SolveWorkers(1) = %d, want %d", got, smallest)
	}
}

func TestSolve_InvalidTarget(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "not hex", target: "zz" + strings.Repeat("00", 31)},
		{name: "too short", target: "ff"},
		{name: "too long", target: strings.Repeat("ff", 33)},
		{name: "empty", target: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Solve("p", tt.target); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestVerify(t *testing.T) {
	max := make([]byte, 32)
	for i := range max {
		max[i] = 0xff
	}
	zero := make([]byte, 32)

	if !Verify("p", 0, max) {
		t.Error("any hash below the all-ones target should verify")
	}
	if Verify("p", 0, zero) {
		t.Error("nothing is below the zero target")
	}

	// A hash equal to the target is not strictly less.
	sum := sha256.Sum256([]byte("p7"))
	if Verify("p", 7, sum[:]) {
		t.Error("hash equal to target must not verify")
	}
}

func TestToken(t *testing.T) {
	if got := Token("abc", 12345); got != "abc:12345" {
		t.Errorf("Token() = %q, want %q", got, "abc:12345")
	}
}
