package incr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_bitmap(t *testing.T) {
	b := newBitmap(130)

	require.False(t, b.contains(0))
	b.insert(0)
	b.insert(64)
	b.insert(129)
	require.True(t, b.contains(0))
	require.True(t, b.contains(64))
	require.True(t, b.contains(129))
	require.False(t, b.contains(1))
	require.False(t, b.contains(65))
}

func Test_bitmap_outOfRange(t *testing.T) {
	b := newBitmap(8)
	b.insert(1024)
	require.False(t, b.contains(1024))
}
