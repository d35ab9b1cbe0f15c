package scf

import (
	"math/rand"
	"testing"

	"github.com/alexruiz95/turbustat/internal/synth"
)

func BenchmarkComputeSurface(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	c, err := synth.PowerLawCube(8, 64, 64, 3, rng)
	if err != nil {
		b.Fatal(err)
	}
	s, err := New(c, 11)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.ComputeSurface(); err != nil {
			b.Fatal(err)
		}
	}
}
