package subranges_test

import (
	"fmt"

	"github.com/garethgeorge/subranges"
)

func Example() {
	seed, _ := subranges.NewInterval(0, 100)
	set := subranges.NewFreeIntervalSet(seed)

	a, _ := set.TakeExact(32)
	fmt.Println(a, set)

	b, _ := set.TakeExactAligned(32, 10)
	fmt.Println(b, set)

	if _, err := set.TakeExact(40); err != nil {
		fmt.Println(err, set)
	}

	if err := set.Insert(a); err != nil {
		fmt.Println(err)
	}
	fmt.Println(set)

	c, _ := set.TakeExact(40)
	fmt.Println(c, set)

	// Output:
	// [0, 32) {[32, 100)}
	// [40, 72) {[32, 40), [72, 100)}
	// no free interval satisfies the request {[32, 40), [72, 100)}
	// {[0, 40), [72, 100)}
	// [0, 40) {[72, 100)}
}
