//go:build !radixdebug

package radix

// debugAssertions is false in regular builds so the checks guarded by it are
// removed by the compiler. Build with -tags radixdebug to enable them.
const debugAssertions = false

func assert(bool, string) {}
