package radial_test

import (
	"fmt"

	"github.com/alexruiz95/turbustat/radial"
)

func ExampleBin() {
	surface := make([]float64, 8*8)
	for i := range surface {
		surface[i] = 2
	}
	p, err := radial.Bin(surface, 8, 8, radial.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	for i := range p.Freqs {
		fmt.Printf("k=%.1f mean=%.1f\n", p.Freqs[i], p.Values[i])
	}
	// Output:
	// k=1.0 mean=2.0
	// k=2.0 mean=2.0
	// k=3.0 mean=2.0
	// k=4.0 mean=2.0
}
