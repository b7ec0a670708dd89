package aspect_test

import (
	"fmt"

	"github.com/matzehuels/lightbox/pkg/aspect"
)

func ExampleModel_Normalize() {
	m := aspect.New(aspect.WithWarner(func(desc string, err error) {
		fmt.Println("fallback:", desc)
	}))

	a := m.Normalize("1200-1600")
	fmt.Println(a.Width, a.Height, m.Classify(a))

	b := m.Normalize("1200x1600")
	fmt.Println(b.Width, b.Height, b.Ratio)
	// Output:
	// 1200 1600 portrait
	// fallback: 1200x1600
	// 1600 1000 1.6
}

func ExampleCSSRatio() {
	fmt.Println(aspect.CSSRatio("16-9"))
	// Output: 16 / 9
}
