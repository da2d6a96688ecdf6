package cauchy

import (
	xor "github.com/templexxx/xorsimd"
)

// Encode computes len(recovery) recovery blocks from len(data) data
// blocks. Recovery buffers are fully overwritten, data is read-only.
// All blocks must share one positive length divisible by 8.
func (c *Cauchy) Encode(data, recovery [][]byte) error {
	k, m := len(data), len(recovery)
	err := checkCnt(k, m, c.maxK)
	if err != nil {
		return err
	}
	size, err := checkBlocks(data)
	if err != nil {
		return err
	}
	for _, r := range recovery {
		if len(r) != size {
			return ErrBlockSize
		}
	}
	em := c.encMatrix(k, m)

	// Row k of the extended matrix is all ones: the first recovery
	// block is the plain XOR of the data blocks.
	xor.Encode(recovery[0], data)

	for i := 1; i < m; i++ {
		row := em[k+i]
		out := recovery[i]
		for j := 0; j < k; j++ {
			cf := row[j]
			switch {
			case j == 0:
				mulVect(cf, data[0], out)
			case cf == 1:
				xor.Encode(out, [][]byte{out, data[j]})
			default:
				mulVectXOR(cf, data[j], out)
			}
		}
	}
	return nil
}
