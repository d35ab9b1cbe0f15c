package cube

import (
	"fmt"
	"math"
)

// Field2D is a real-valued 2-D map stored row-major: Data[x*NY+y] is the
// value at row x, column y.
type Field2D struct {
	Data   []float64
	NX, NY int
}

// Field3D is a real-valued spectral-line cube with the spectral axis first:
// Data[(v*NX+x)*NY+y] is channel v at spatial position (x, y).
type Field3D struct {
	Data       []float64
	NV, NX, NY int
}

// NewField2D copies data into a new Field2D. The slice length must equal
// nx*ny.
func NewField2D(data []float64, nx, ny int) (*Field2D, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("cube: field dimensions must be positive: %dx%d", nx, ny)
	}
	if len(data) != nx*ny {
		return nil, fmt.Errorf("cube: field data length %d does not match %dx%d", len(data), nx, ny)
	}
	d := make([]float64, len(data))
	copy(d, data)
	return &Field2D{Data: d, NX: nx, NY: ny}, nil
}

// NewField3D copies data into a new Field3D. The slice length must equal
// nv*nx*ny.
func NewField3D(data []float64, nv, nx, ny int) (*Field3D, error) {
	if nv <= 0 || nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("cube: cube dimensions must be positive: %dx%dx%d", nv, nx, ny)
	}
	if len(data) != nv*nx*ny {
		return nil, fmt.Errorf("cube: cube data length %d does not match %dx%dx%d", len(data), nv, nx, ny)
	}
	d := make([]float64, len(data))
	copy(d, data)
	return &Field3D{Data: d, NV: nv, NX: nx, NY: ny}, nil
}

// Clone returns a deep copy of the field.
func (f *Field2D) Clone() *Field2D {
	d := make([]float64, len(f.Data))
	copy(d, f.Data)
	return &Field2D{Data: d, NX: f.NX, NY: f.NY}
}

// Clone returns a deep copy of the cube.
func (c *Field3D) Clone() *Field3D {
	d := make([]float64, len(c.Data))
	copy(d, c.Data)
	return &Field3D{Data: d, NV: c.NV, NX: c.NX, NY: c.NY}
}

// At returns the value at row x, column y.
func (f *Field2D) At(x, y int) float64 {
	return f.Data[x*f.NY+y]
}

// At returns the value of channel v at spatial position (x, y).
func (c *Field3D) At(v, x, y int) float64 {
	return c.Data[(v*c.NX+x)*c.NY+y]
}

// Channel returns the spatial plane of channel v as a slice view into the
// cube. The view must not be mutated.
func (c *Field3D) Channel(v int) []float64 {
	plane := c.NX * c.NY
	return c.Data[v*plane : (v+1)*plane]
}

// SameShape reports whether f and g have identical dimensions.
func (f *Field2D) SameShape(g *Field2D) bool {
	return f.NX == g.NX && f.NY == g.NY
}

// MinFinite returns the smallest finite value in data, or 0 if there is none.
func MinFinite(data []float64) float64 {
	min := math.Inf(1)
	found := false
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < min {
			min = v
			found = true
		}
	}
	if !found {
		return 0
	}
	return min
}

// SanitizeMin replaces every NaN in the field with the field's minimum
// finite value. This is the centroid/moment sanitization policy; it keeps
// empty sightlines at the noise floor instead of pulling them to zero.
func (f *Field2D) SanitizeMin() {
	sanitizeMin(f.Data)
}

// SanitizeMin replaces every NaN in the cube with the cube's minimum finite
// value.
func (c *Field3D) SanitizeMin() {
	sanitizeMin(c.Data)
}

// SanitizeZero replaces every NaN in the cube with zero. This is the VCA
// policy: blanked channels carry no emission and therefore no power.
func (c *Field3D) SanitizeZero() {
	for i, v := range c.Data {
		if math.IsNaN(v) {
			c.Data[i] = 0
		}
	}
}

func sanitizeMin(data []float64) {
	min := MinFinite(data)
	for i, v := range data {
		if math.IsNaN(v) {
			data[i] = min
		}
	}
}

// Roll returns a copy of the cube circularly shifted by dx along the first
// spatial axis and dy along the second. Shifts wrap periodically; negative
// shifts are allowed.
func (c *Field3D) Roll(dx, dy int) *Field3D {
	out := &Field3D{
		Data: make([]float64, len(c.Data)),
		NV:   c.NV, NX: c.NX, NY: c.NY,
	}
	dx = ((dx % c.NX) + c.NX) % c.NX
	dy = ((dy % c.NY) + c.NY) % c.NY
	for v := 0; v < c.NV; v++ {
		src := c.Channel(v)
		dst := out.Data[v*c.NX*c.NY : (v+1)*c.NX*c.NY]
		for x := 0; x < c.NX; x++ {
			sx := x - dx
			if sx < 0 {
				sx += c.NX
			}
			for y := 0; y < c.NY; y++ {
				sy := y - dy
				if sy < 0 {
					sy += c.NY
				}
				dst[x*c.NY+y] = src[sx*c.NY+sy]
			}
		}
	}
	return out
}
