package arena

import (
	"fmt"
	"io"
	"testing"
)

func benchArena(b *testing.B, n int) *Arena {
	b.Helper()
	a := New()
	if err := a.InitBuffer(make([]byte, n)); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = a.Close() })
	return a
}

func BenchmarkAllocFree(b *testing.B) {
	a := benchArena(b, 1<<20)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ref, _, err := a.Alloc(64)
		if err != nil {
			b.Fatal(err)
		}
		if err := a.Free(ref); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFirstFitWalk(b *testing.B) {
	// Pin busy blocks ahead of the only usable hole so every
	// allocation pays for a full first-fit walk of that depth.
	for _, depth := range []int{16, 256, 2048} {
		b.Run(fmt.Sprintf("depth-%d", depth), func(b *testing.B) {
			a := benchArena(b, 1<<20)
			for i := 0; i < depth; i++ {
				if _, _, err := a.Alloc(64); err != nil {
					b.Fatal(err)
				}
			}

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ref, _, err := a.Alloc(128)
				if err != nil {
					b.Fatal(err)
				}
				if err := a.Free(ref); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSafeAllocFree(b *testing.B) {
	sa := NewSafe()
	if err := sa.InitBuffer(make([]byte, 1<<20)); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = sa.Close() })

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ref, _, err := sa.Alloc(64)
		if err != nil {
			b.Fatal(err)
		}
		if err := sa.Free(ref); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSnapshot(b *testing.B) {
	a := benchArena(b, 1<<20)
	for i := 0; i < 512; i++ {
		ref, _, err := a.Alloc(32 + (i%4)*16)
		if err != nil {
			b.Fatal(err)
		}
		if i%2 == 0 {
			if err := a.Free(ref); err != nil {
				b.Fatal(err)
			}
		}
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := a.Snapshot(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReport(b *testing.B) {
	a := benchArena(b, 1<<16)
	for i := 0; i < 32; i++ {
		if _, _, err := a.Alloc(48); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := a.Report(io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}
