package cauchy

import (
	xor "github.com/templexxx/xorsimd"
)

// Decode rebuilds the k original data blocks in place from any k of
// the k+m coded blocks of an Encode with the same geometry. Each block
// arrives tagged with its row index; on return every block holds a
// data row and Index is that row's logical position, so sorting the
// blocks by Index restores logical order 0..k.
//
// Exactly k blocks with k distinct valid tags are required. Blocks
// that arrive as data rows keep their bytes and tag untouched.
func (c *Cauchy) Decode(k, m int, blocks []Block) error {
	err := checkCnt(k, m, c.maxK)
	if err != nil {
		return err
	}
	if len(blocks) != k {
		return ErrBlockCount
	}
	size := len(blocks[0].Data)
	if size == 0 || size%wordSize != 0 {
		return ErrBlockSize
	}
	var seen [256]bool
	for i := range blocks {
		if len(blocks[i].Data) != size {
			return ErrBlockSize
		}
		idx := blocks[i].Index
		if idx < 0 || idx >= k+m {
			return ErrRowIndex
		}
		if seen[idx] {
			return ErrDuplicateRowIndex
		}
		seen[idx] = true
	}

	// Slot surviving data rows at their own position.
	src := c.src[:k]
	for i := range src {
		src[i] = nil
	}
	c.fill = c.fill[:0]
	for i := range blocks {
		if blocks[i].Index < k {
			src[blocks[i].Index] = blocks[i].Data
		} else {
			c.fill = append(c.fill, &blocks[i])
		}
	}
	c.lost = c.lost[:0]
	for p := 0; p < k; p++ {
		if src[p] == nil {
			c.lost = append(c.lost, p)
		}
	}
	if len(c.lost) == 0 {
		// every data row survived, tags are already logical order
		return nil
	}

	// Substitute recovery rows for the missing positions: the decode
	// matrix holds, per position, the identity row of the surviving
	// data block or the Cauchy row of the recovery block standing in.
	// Distinct tags make len(fill) == len(lost).
	em := c.encMatrix(k, m)
	dm := c.dm
	for p := 0; p < k; p++ {
		copy(dm[p][:k], em[p][:k])
	}
	for i, p := range c.lost {
		b := c.fill[i]
		copy(dm[p][:k], em[b.Index][:k])
		src[p] = b.Data
	}

	err = dm.invert(c.aug, k, c.im)
	if err != nil {
		return err
	}

	// Stage every reconstructed row before writing any back: the
	// recovery buffers being replaced are still inputs here.
	need := len(c.lost) * size
	if cap(c.stage) < need {
		c.stage = make([]byte, need)
	}
	stage := c.stage[:need]
	for i, p := range c.lost {
		out := stage[i*size : (i+1)*size]
		row := c.im[p][:k]
		first := true
		for j := 0; j < k; j++ {
			cf := row[j]
			if cf == 0 {
				continue
			}
			switch {
			case first:
				mulVect(cf, src[j], out)
				first = false
			case cf == 1:
				xor.Encode(out, [][]byte{out, src[j]})
			default:
				mulVectXOR(cf, src[j], out)
			}
		}
	}
	for i, p := range c.lost {
		copy(c.fill[i].Data, stage[i*size:(i+1)*size])
		c.fill[i].Index = p
	}
	return nil
}
