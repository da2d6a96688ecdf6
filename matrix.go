package cauchy

import "errors"

type matrix [][]byte

func newMatrix(rows, cols int) matrix {
	m := matrix(make([][]byte, rows))
	for i := range m {
		m[i] = make([]byte, cols)
	}
	return m
}

// genEncMatrix builds the (k+m) x k extended coding matrix:
// identity rows for the k data rows on top, Cauchy rows
// C[i][j] = 1/(i^j) for the m recovery rows below. The row sets
// {k..k+m-1} and column set {0..k-1} are disjoint, so i^j is never 0.
//
// Each Cauchy column is then divided by its first-row entry so row k
// comes out all ones: the first recovery block is the plain XOR of the
// data blocks. Scaling columns by nonzero constants keeps every square
// submatrix invertible, which is what lets any k of the k+m rows
// recover the data.
func genEncMatrix(k, m int) matrix {
	rows := k + m
	em := newMatrix(rows, k)
	for j := 0; j < k; j++ {
		em[j][j] = 1
	}
	for i := k; i < rows; i++ {
		for j := 0; j < k; j++ {
			em[i][j] = inverseTbl[i^j]
		}
	}
	for j := 0; j < k; j++ {
		d := inverseTbl[em[k][j]]
		for i := k; i < rows; i++ {
			em[i][j] = gfMul(em[i][j], d)
		}
	}
	return em
}

var ErrSingular = errors.New("cauchy: matrix is singular")

// invert writes the inverse of the n x n matrix m into inv, using aug
// as the n x 2n elimination workspace. m itself is left untouched.
// Rows of aug and inv may be longer than needed; only [:2n] and [:n]
// are used.
func (m matrix) invert(aug matrix, n int, inv matrix) error {
	for i := 0; i < n; i++ {
		row := aug[i][:2*n]
		copy(row, m[i][:n])
		for c := n; c < 2*n; c++ {
			row[c] = 0
		}
		row[n+i] = 1
	}
	err := gaussJordan(aug, n)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		copy(inv[i][:n], aug[i][n:2*n])
	}
	return nil
}

// gaussJordan reduces the n x 2n augmented matrix (M|I) to (I|M^-1).
// If the pivot entry is 0 a row below with a nonzero entry is swapped
// in first; no candidate left means M is singular.
func gaussJordan(aug matrix, n int) error {
	cols := 2 * n
	for r := 0; r < n; r++ {
		if aug[r][r] == 0 {
			for below := r + 1; below < n; below++ {
				if aug[below][r] != 0 {
					aug.swapRows(r, below)
					break
				}
			}
		}
		if aug[r][r] == 0 {
			return ErrSingular
		}
		if aug[r][r] != 1 {
			scale := inverseTbl[aug[r][r]]
			for c := 0; c < cols; c++ {
				aug[r][c] = gfMul(aug[r][c], scale)
			}
		}
		for below := r + 1; below < n; below++ {
			if aug[below][r] != 0 {
				scale := aug[below][r]
				for c := 0; c < cols; c++ {
					aug[below][c] ^= gfMul(scale, aug[r][c])
				}
			}
		}
	}
	// clear the part above the diagonal, same logic as below
	for d := 0; d < n; d++ {
		for above := 0; above < d; above++ {
			if aug[above][d] != 0 {
				scale := aug[above][d]
				for c := 0; c < cols; c++ {
					aug[above][c] ^= gfMul(scale, aug[d][c])
				}
			}
		}
	}
	return nil
}

func (m matrix) swapRows(r1, r2 int) {
	m[r2], m[r1] = m[r1], m[r2]
}
