//go:build radixdebug

package radix

const debugAssertions = true

func assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
