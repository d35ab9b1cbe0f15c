package powerlaw_test

import (
	"fmt"
	"math"

	"github.com/alexruiz95/turbustat/powerlaw"
)

func ExampleFitPowerLaw() {
	freqs := make([]float64, 12)
	values := make([]float64, 12)
	for i := range freqs {
		f := float64(i + 1)
		freqs[i] = f
		values[i] = 50 * math.Pow(f, -3)
	}
	fit, err := powerlaw.FitPowerLaw(freqs, values)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("slope %.2f\n", fit.Slope)
	// Output:
	// slope -3.00
}
