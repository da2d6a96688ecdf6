// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cauchy

import (
	"errors"
	"sync"
)

// GF(2^8) arithmetic.
// Primitive Polynomial: x^8+x^4+x^3+x^2+1 (0x11d), generator: 2.
// Add is XOR; multiply, divide and inverse go through log/exp tables
// built once per process.

var (
	expTbl     [512]byte // doubled so hot lookups skip the mod 255
	logTbl     [256]byte
	inverseTbl [256]byte
	mulTbl     [256][256]byte
)

var (
	ErrDivByZero  = errors.New("cauchy: divide by zero in GF(256)")
	ErrInitFailed = errors.New("cauchy: field table init failed")
)

var (
	tblOnce sync.Once
	tblErr  error
)

// Init builds the process-wide GF(256) lookup tables.
// Only the first call builds; every later call returns the same result
// at no cost. New runs it implicitly, callers may also run it up front.
func Init() error {
	tblOnce.Do(buildTbl)
	return tblErr
}

func buildTbl() {
	x := 1
	for i := 0; i < 255; i++ {
		expTbl[i] = byte(x)
		logTbl[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= 0x11d
		}
	}
	for i := 255; i < 512; i++ {
		expTbl[i] = expTbl[i-255]
	}
	for a := 1; a < 256; a++ {
		inverseTbl[a] = expTbl[255-int(logTbl[a])]
	}
	for a := 1; a < 256; a++ {
		la := int(logTbl[a])
		for b := 1; b < 256; b++ {
			mulTbl[a][b] = expTbl[la+int(logTbl[b])]
		}
	}
	tblErr = verifyTbl()
}

// verifyTbl rejects a miscompiled table set: the generator must cycle
// with period 255 and every nonzero element must have a working inverse.
func verifyTbl() error {
	if expTbl[0] != 1 || expTbl[255] != 1 || logTbl[2] != 1 {
		return ErrInitFailed
	}
	for a := 1; a < 256; a++ {
		if mulTbl[a][inverseTbl[a]] != 1 {
			return ErrInitFailed
		}
	}
	return nil
}

func gfMul(a, b byte) byte {
	return mulTbl[a][b]
}

// gfDiv returns a / b.
func gfDiv(a, b byte) (byte, error) {
	if b == 0 {
		return 0, ErrDivByZero
	}
	if a == 0 {
		return 0, nil
	}
	return expTbl[int(logTbl[a])+255-int(logTbl[b])], nil
}

// gfInv returns the multiplicative inverse of a.
func gfInv(a byte) (byte, error) {
	if a == 0 {
		return 0, ErrDivByZero
	}
	return inverseTbl[a], nil
}

// mulVect writes c * in over out, byte by byte through the multiply table.
func mulVect(c byte, in, out []byte) {
	t := mulTbl[c][:256]
	for i := 0; i < len(in); i++ {
		out[i] = t[in[i]]
	}
}

// mulVectXOR adds c * in into out.
func mulVectXOR(c byte, in, out []byte) {
	t := mulTbl[c][:256]
	for i := 0; i < len(in); i++ {
		out[i] ^= t[in[i]]
	}
}
