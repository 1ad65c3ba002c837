//go:build debug

package score

import "fmt"

func assert(ok bool, format string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf("score: "+format, args...))
	}
}
