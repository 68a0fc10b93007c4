package format

import "testing"

func TestAlignWord(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{50, 52},
		{4096, 4096},
	}
	for _, c := range cases {
		if got := AlignWord(c.in); got != c.want {
			t.Errorf("AlignWord(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestAlignUp(t *testing.T) {
	cases := []struct {
		in, boundary, want int
	}{
		{0, 4096, 0},
		{1, 4096, 4096},
		{4096, 4096, 4096},
		{4097, 4096, 8192},
		{9000, 4096, 12288},
		{7, 8, 8},
	}
	for _, c := range cases {
		if got := AlignUp(c.in, c.boundary); got != c.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", c.in, c.boundary, got, c.want)
		}
	}
}

func TestHeaderLayout(t *testing.T) {
	if SizeFieldOffset-NextFieldOffset != 4 || StatusFieldOffset-SizeFieldOffset != 4 {
		t.Fatalf("header fields not contiguous")
	}
	if HeaderSize != StatusFieldOffset+4 {
		t.Fatalf("HeaderSize %d does not cover the status field", HeaderSize)
	}
	if HeaderSize%WordSize != 0 {
		t.Fatalf("HeaderSize %d not word aligned", HeaderSize)
	}
}
