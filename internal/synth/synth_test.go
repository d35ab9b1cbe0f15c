package synth

import (
	"math"
	"math/rand"
	"testing"
)

func TestPowerLawField2DDeterministic(t *testing.T) {
	a, err := PowerLawField2D(16, 16, 3, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("PowerLawField2D: %v", err)
	}
	b, err := PowerLawField2D(16, 16, 3, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("PowerLawField2D: %v", err)
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("same seed diverged at %d", i)
		}
	}

	c, err := PowerLawField2D(16, 16, 3, rand.New(rand.NewSource(43)))
	if err != nil {
		t.Fatalf("PowerLawField2D: %v", err)
	}
	same := true
	for i := range a.Data {
		if a.Data[i] != c.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced the same field")
	}
}

func TestPowerLawField2DNearZeroMean(t *testing.T) {
	f, err := PowerLawField2D(32, 32, 3, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("PowerLawField2D: %v", err)
	}
	sum := 0.0
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatal("non-finite sample in synthetic field")
		}
		sum += v
	}
	// Zero frequency is suppressed, so the mean vanishes up to float noise.
	if math.Abs(sum/float64(len(f.Data))) > 1e-9 {
		t.Fatalf("mean %v, want about 0", sum/float64(len(f.Data)))
	}
}

func TestPowerLawCubeStrictlyPositive(t *testing.T) {
	c, err := PowerLawCube(4, 16, 16, 3, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("PowerLawCube: %v", err)
	}
	if c.NV != 4 || c.NX != 16 || c.NY != 16 {
		t.Fatalf("shape %dx%dx%d", c.NV, c.NX, c.NY)
	}
	for i, v := range c.Data {
		if !(v > 0) {
			t.Fatalf("sample %d: %v, want strictly positive", i, v)
		}
	}
}
