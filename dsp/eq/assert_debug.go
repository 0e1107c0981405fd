//go:build eqdebug

package eq

const debugAssertions = true

func assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
