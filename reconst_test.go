package cauchy

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeAll returns the k+m coded rows of random data, each as a
// tagged block owning a private copy, plus the original data rows.
func encodeAll(t *testing.T, c *Cauchy, k, m, size int) (all []Block, data [][]byte) {
	data = makeVects(k, size)
	for _, d := range data {
		fillRandom(d)
	}
	recovery := makeVects(m, size)
	require.NoError(t, c.Encode(data, recovery))

	all = make([]Block, 0, k+m)
	for i, d := range data {
		cp := make([]byte, size)
		copy(cp, d)
		all = append(all, Block{Index: i, Data: cp})
	}
	for i, r := range recovery {
		cp := make([]byte, size)
		copy(cp, r)
		all = append(all, Block{Index: k + i, Data: cp})
	}
	return all, data
}

func checkDecoded(t *testing.T, blocks []Block, data [][]byte) {
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Index < blocks[j].Index })
	for i, b := range blocks {
		require.Equal(t, i, b.Index)
		require.Equal(t, data[i], b.Data, "data row %d", i)
	}
}

func TestDecodeAllDataRows(t *testing.T) {
	k, m, size := 5, 3, 64
	c, err := New(k)
	require.NoError(t, err)
	all, data := encodeAll(t, c, k, m, size)

	blocks := make([]Block, k)
	copy(blocks, all[:k])
	require.NoError(t, c.Decode(k, m, blocks))
	for i, b := range blocks {
		require.Equal(t, i, b.Index)
		require.Equal(t, data[i], b.Data)
	}
}

// k=2, m=2: every 2-subset of the 4 coded rows must restore the data.
func TestDecode2of4(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	data := [][]byte{
		{0, 1, 2, 3, 4, 5, 6, 7},
		{8, 9, 10, 11, 12, 13, 14, 15},
	}
	recovery := makeVects(2, 8)
	require.NoError(t, c.Encode(data, recovery))
	rows := append(append([][]byte{}, data...), recovery...)

	for a := 0; a < 4; a++ {
		for b := a + 1; b < 4; b++ {
			blocks := make([]Block, 2)
			for i, r := range []int{a, b} {
				cp := make([]byte, 8)
				copy(cp, rows[r])
				blocks[i] = Block{Index: r, Data: cp}
			}
			require.NoError(t, c.Decode(2, 2, blocks), "rows %d,%d", a, b)
			checkDecoded(t, blocks, data)
		}
	}
}

func TestDecodeAllRecoveryRows(t *testing.T) {
	k, m, size := 3, 3, 96
	c, err := New(k)
	require.NoError(t, err)
	all, data := encodeAll(t, c, k, m, size)

	blocks := make([]Block, k)
	copy(blocks, all[k:])
	require.NoError(t, c.Decode(k, m, blocks))
	checkDecoded(t, blocks, data)
}

// m < k: the m recovery rows plus the first k-m data rows.
func TestDecodeRecoveryPlusData(t *testing.T) {
	k, m, size := 5, 2, 64
	c, err := New(k)
	require.NoError(t, err)
	all, data := encodeAll(t, c, k, m, size)

	blocks := make([]Block, 0, k)
	blocks = append(blocks, all[:k-m]...)
	blocks = append(blocks, all[k:]...)
	require.NoError(t, c.Decode(k, m, blocks))
	checkDecoded(t, blocks, data)
}

func TestDecodeRoundTrip(t *testing.T) {
	rand.Seed(1)
	size := 512
	c, err := New(32)
	require.NoError(t, err)
	for k := 1; k <= 32; k++ {
		for m := 2; m <= 32; m++ {
			if k+m > 255 {
				continue
			}
			all, data := encodeAll(t, c, k, m, size)
			rand.Shuffle(len(all), func(i, j int) {
				all[i], all[j] = all[j], all[i]
			})
			blocks := all[:k]
			require.NoError(t, c.Decode(k, m, blocks), "k %d m %d", k, m)
			checkDecoded(t, blocks, data)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	k, m, size := 4, 2, 16
	c, err := New(k)
	require.NoError(t, err)
	all, _ := encodeAll(t, c, k, m, size)

	// wrong number of blocks
	require.Equal(t, ErrBlockCount, c.Decode(k, m, all[:k-1]))
	// k past the session bound
	require.Equal(t, ErrBlockCount, c.Decode(k+1, m, all[:k+1]))
	// row index past k+m
	bad := make([]Block, k)
	copy(bad, all[:k])
	bad[1].Index = k + m
	require.Equal(t, ErrRowIndex, c.Decode(k, m, bad))
	bad[1].Index = -1
	require.Equal(t, ErrRowIndex, c.Decode(k, m, bad))
	// duplicate tags
	bad[1] = bad[0]
	require.Equal(t, ErrDuplicateRowIndex, c.Decode(k, m, bad))
	// bad sizes
	sized := make([]Block, k)
	copy(sized, all[:k])
	sized[2] = Block{Index: 2, Data: make([]byte, 8)}
	require.Equal(t, ErrBlockSize, c.Decode(k, m, sized))
	sized[2] = Block{Index: 2, Data: make([]byte, 0)}
	sized[0] = Block{Index: 0, Data: make([]byte, 0)}
	sized[1] = Block{Index: 1, Data: make([]byte, 0)}
	sized[3] = Block{Index: 3, Data: make([]byte, 0)}
	require.Equal(t, ErrBlockSize, c.Decode(k, m, sized))
	for i := range sized {
		sized[i].Data = make([]byte, 7)
	}
	require.Equal(t, ErrBlockSize, c.Decode(k, m, sized))
}

// Sessions are single-flight, but independent sessions may run in
// parallel over the shared field tables.
func TestSessionsParallel(t *testing.T) {
	done := make(chan error, 4)
	for g := 0; g < 4; g++ {
		go func() {
			c, err := New(8)
			if err != nil {
				done <- err
				return
			}
			for i := 0; i < 20; i++ {
				data := makeVects(8, 64)
				for _, d := range data {
					fillRandom(d)
				}
				recovery := makeVects(4, 64)
				if err := c.Encode(data, recovery); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for g := 0; g < 4; g++ {
		require.NoError(t, <-done)
	}
}
