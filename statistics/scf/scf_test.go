package scf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/alexruiz95/turbustat/cube"
	"github.com/alexruiz95/turbustat/internal/synth"
)

func testCube(t *testing.T, nv, nx, ny int, seed int64) *cube.Field3D {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	c, err := synth.PowerLawCube(nv, nx, ny, 3, rng)
	if err != nil {
		t.Fatalf("synth cube: %v", err)
	}
	return c
}

func TestNewValidates(t *testing.T) {
	if _, err := New(nil, 11); err == nil {
		t.Fatal("expected error for nil cube")
	}
	if _, err := New(testCube(t, 2, 8, 8, 1), 2); err == nil {
		t.Fatal("expected error for size below 3 after correction")
	}
}

func TestNewCorrectsEvenSize(t *testing.T) {
	s, err := New(testCube(t, 2, 16, 16, 2), 12)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Size() != 11 {
		t.Fatalf("size %d, want 11", s.Size())
	}
}

func TestZeroLagIsExactlyOne(t *testing.T) {
	s, err := New(testCube(t, 4, 16, 16, 3), 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.ComputeSurface(); err != nil {
		t.Fatalf("ComputeSurface: %v", err)
	}
	half := s.Size() / 2
	center := s.Surface()[half*s.Size()+half]
	if center != 1 {
		t.Fatalf("zero-lag value %v, want exactly 1", center)
	}
}

func TestSurfaceBoundsAndSymmetry(t *testing.T) {
	s, err := New(testCube(t, 4, 16, 16, 4), 9)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.ComputeSurface(); err != nil {
		t.Fatalf("ComputeSurface: %v", err)
	}
	size := s.Size()
	surf := s.Surface()
	for i, v := range surf {
		if math.IsNaN(v) {
			t.Fatalf("cell %d is NaN for an all-finite cube", i)
		}
		if v > 1 {
			t.Fatalf("cell %d: correlation %v above 1", i, v)
		}
	}
	// Lag (di, dj) and (-di, -dj) pair the same sightlines, so the
	// surface is point symmetric about the center.
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			a := surf[i*size+j]
			b := surf[(size-1-i)*size+(size-1-j)]
			if math.Abs(a-b) > 1e-12 {
				t.Fatalf("point symmetry broken at (%d,%d): %v vs %v", i, j, a, b)
			}
		}
	}
}

func TestLagMatchesRolledCubeDefinition(t *testing.T) {
	c := testCube(t, 3, 8, 8, 14)
	s, err := New(c, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.ComputeSurface(); err != nil {
		t.Fatalf("ComputeSurface: %v", err)
	}

	// Recompute one lag the long way, against an explicitly rolled cube.
	const di, dj = 1, 2
	rolled := c.Roll(di, dj)
	total := 0.0
	count := 0
	for x := 0; x < c.NX; x++ {
		for y := 0; y < c.NY; y++ {
			num, denA, denB := 0.0, 0.0, 0.0
			for v := 0; v < c.NV; v++ {
				a := c.At(v, x, y)
				b := rolled.At(v, x, y)
				num += (a - b) * (a - b)
				denA += a * a
				denB += b * b
			}
			total += num / (denA + denB)
			count++
		}
	}
	want := 1 - math.Sqrt(total/float64(count))

	half := s.Size() / 2
	got := s.Surface()[(di+half)*s.Size()+(dj+half)]
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("lag (%d,%d): %v, want %v", di, dj, got, want)
	}
}

func TestWorkerCountDoesNotChangeResult(t *testing.T) {
	c := testCube(t, 4, 16, 16, 5)

	serial, err := New(c, 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	serial.SetWorkers(1)
	if err := serial.ComputeSurface(); err != nil {
		t.Fatalf("ComputeSurface: %v", err)
	}

	parallel, err := New(c, 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	parallel.SetWorkers(8)
	if err := parallel.ComputeSurface(); err != nil {
		t.Fatalf("ComputeSurface: %v", err)
	}

	for i := range serial.Surface() {
		if serial.Surface()[i] != parallel.Surface()[i] {
			t.Fatalf("cell %d differs between worker counts", i)
		}
	}
}

func TestRunSpectrum(t *testing.T) {
	s, err := New(testCube(t, 4, 16, 16, 6), 11)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(RunOptions{ReturnStddev: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lags := s.Lags()
	if len(lags) == 0 {
		t.Fatal("empty spectrum")
	}
	for i := 1; i < len(lags); i++ {
		if lags[i] <= lags[i-1] {
			t.Fatalf("lags not ascending: %v", lags)
		}
	}
	if len(s.Spectrum()) != len(lags) {
		t.Fatalf("spectrum length %d, lags length %d", len(s.Spectrum()), len(lags))
	}
	if s.Stddev() == nil {
		t.Fatal("stddev requested but nil")
	}
}

func TestDistanceIdenticalCubes(t *testing.T) {
	c := testCube(t, 4, 16, 16, 7)
	d, err := NewDistance(c, c, 7, nil)
	if err != nil {
		t.Fatalf("NewDistance: %v", err)
	}
	for _, weighted := range []bool{false, true} {
		dist, err := d.DistanceMetric(weighted)
		if err != nil {
			t.Fatalf("DistanceMetric(%v): %v", weighted, err)
		}
		if dist != 0 {
			t.Fatalf("distance %v for identical cubes (weighted=%v)", dist, weighted)
		}
	}
}

func TestDistanceFiducialMatchesRecompute(t *testing.T) {
	c1 := testCube(t, 4, 16, 16, 8)
	c2 := testCube(t, 4, 16, 16, 9)

	plain, err := NewDistance(c1, c2, 7, nil)
	if err != nil {
		t.Fatalf("NewDistance: %v", err)
	}
	want, err := plain.DistanceMetric(true)
	if err != nil {
		t.Fatalf("DistanceMetric: %v", err)
	}

	fid, err := New(c1, 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := fid.Run(RunOptions{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	cached, err := NewDistance(c1, c2, 7, fid)
	if err != nil {
		t.Fatalf("NewDistance: %v", err)
	}
	got, err := cached.DistanceMetric(true)
	if err != nil {
		t.Fatalf("DistanceMetric: %v", err)
	}
	if got != want {
		t.Fatalf("fiducial distance %v differs from recomputed %v", got, want)
	}
}

func TestDistanceSizeMismatch(t *testing.T) {
	c1 := testCube(t, 2, 16, 16, 10)
	c2 := testCube(t, 2, 16, 16, 11)
	fid, err := New(c1, 9)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := fid.Run(RunOptions{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := NewDistance(c1, c2, 7, fid); err == nil {
		t.Fatal("expected error for mismatched lag grids")
	}
}

func TestWeightingShrinksLargeLagContribution(t *testing.T) {
	c1 := testCube(t, 4, 16, 16, 12)
	c2 := testCube(t, 4, 16, 16, 13)
	d, err := NewDistance(c1, c2, 11, nil)
	if err != nil {
		t.Fatalf("NewDistance: %v", err)
	}
	plain, err := d.DistanceMetric(false)
	if err != nil {
		t.Fatalf("DistanceMetric: %v", err)
	}
	weighted, err := d.DistanceMetric(true)
	if err != nil {
		t.Fatalf("DistanceMetric: %v", err)
	}
	// Every weight is <= 1, so the weighted distance can never exceed the
	// plain one.
	if weighted > plain {
		t.Fatalf("weighted %v exceeds unweighted %v", weighted, plain)
	}
}
