// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package cauchy implements Cauchy Reed-Solomon erasure codes
// over GF(2^8):
// k equal-size data blocks produce m recovery blocks, and any k of the
// resulting k+m blocks rebuild the original data.
// e.g. 4+2:
// +----+
// | d0 |
// +----+
// | d1 |
// +----+
// | d2 |
// +----+
// | d3 |
// +----+
// | r4 |  <- XOR of d0..d3
// +----+
// | r5 |
// +----+
// any 4 rows, tagged with their index, restore d0..d3.
package cauchy

import "errors"

// wordSize is the XOR accumulate word width.
// Every block length must be a positive multiple of it.
const wordSize = 8

var (
	ErrMaxBlocks         = errors.New("cauchy: max data blocks out of range")
	ErrBlockCount        = errors.New("cauchy: wrong number of blocks")
	ErrBlockSize         = errors.New("cauchy: block size zero, unaligned or mismatched")
	ErrRowIndex          = errors.New("cauchy: row index out of range")
	ErrDuplicateRowIndex = errors.New("cauchy: duplicate row index")
)

// Block is one coded block tagged with its logical row.
// Index is the row in [0, k+m): rows [0, k) are data rows, rows
// [k, k+m) recovery rows. Data is borrowed from the caller for the
// duration of a call, never retained.
type Block struct {
	Index int
	Data  []byte
}

// Cauchy encodes and decodes through scratch sized once to maxK, so
// repeated calls allocate nothing. One Cauchy must not run two
// operations at once; callers needing parallelism create a session
// per goroutine, all sharing the immutable global field tables.
type Cauchy struct {
	maxK int

	// extended coding matrix, cached for the last (k, m) geometry
	emK, emM int
	em       matrix

	// decode scratch
	src   [][]byte // supplied block data, slotted by data position
	fill  []*Block // recovery-tagged blocks, input order
	lost  []int    // data positions to reconstruct
	dm    matrix   // k x k decode matrix
	im    matrix   // its inverse
	aug   matrix   // k x 2k elimination workspace
	stage []byte   // reconstructed rows before write-back
}

// New creates a session bounded to maxK data blocks per call.
// It builds the global field tables on first use.
func New(maxK int) (*Cauchy, error) {
	if maxK < 1 || maxK > 256 {
		return nil, ErrMaxBlocks
	}
	err := Init()
	if err != nil {
		return nil, err
	}
	return &Cauchy{
		maxK: maxK,
		src:  make([][]byte, maxK),
		fill: make([]*Block, 0, maxK),
		lost: make([]int, 0, maxK),
		dm:   newMatrix(maxK, maxK),
		im:   newMatrix(maxK, maxK),
		aug:  newMatrix(maxK, 2*maxK),
	}, nil
}

// MaxK returns the session's data block bound.
func (c *Cauchy) MaxK() int {
	return c.maxK
}

func checkCnt(k, m, maxK int) error {
	if k < 1 || k > maxK {
		return ErrBlockCount
	}
	if m < 1 || k+m > 256 {
		return ErrBlockCount
	}
	return nil
}

// checkBlocks verifies all vects share one positive, word-aligned size.
func checkBlocks(vects [][]byte) (size int, err error) {
	size = len(vects[0])
	if size == 0 || size%wordSize != 0 {
		return 0, ErrBlockSize
	}
	for i := 1; i < len(vects); i++ {
		if len(vects[i]) != size {
			return 0, ErrBlockSize
		}
	}
	return size, nil
}

// encMatrix returns the extended coding matrix for (k, m), rebuilding
// only when the geometry changed since the last call.
func (c *Cauchy) encMatrix(k, m int) matrix {
	if c.em == nil || c.emK != k || c.emM != m {
		c.em = genEncMatrix(k, m)
		c.emK, c.emM = k, m
	}
	return c.em
}
