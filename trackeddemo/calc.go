package trackeddemo

import (
	"strconv"
	"strings"

	"github.com/voskan/memotrack/pkg/memo"
)

// Eval evaluates the script stored at path in files, memoized per path.
// A script is a "+"-separated list of terms, each either an integer
// literal or "eval <path>" referencing another script recursively. path
// is a plain hashed argument, not part of the tracked surface, so each
// path gets its own region of the shared call tree instead of every
// recursive eval call competing for the same root. Grounded on the
// runtime's calc.rs example; this is the driver spec.md §8 scenario 2
// exercises.
func Eval(cache *memo.Cache[int], files TrackedFiles, path string) int {
	in := &memo.Args2[*TrackedFiles, *memo.Hashed[string]]{
		Arg0: &files,
		Arg1: &memo.Hashed[string]{Value: path},
	}
	return memo.Memoize(cache, in, true,
		func(in *memo.Args2[*TrackedFiles, *memo.Hashed[string]]) int {
			text := in.Arg0.Read(in.Arg1.Value)
			return evalExpr(cache, *in.Arg0, text)
		})
}

func evalExpr(cache *memo.Cache[int], files TrackedFiles, expr string) int {
	sum := 0
	for _, term := range strings.Split(expr, "+") {
		term = strings.TrimSpace(term)
		if rest, ok := strings.CutPrefix(term, "eval "); ok {
			sum += Eval(cache, files, strings.TrimSpace(rest))
			continue
		}
		n, err := strconv.Atoi(term)
		if err != nil {
			panic("trackeddemo: calc: bad term " + strconv.Quote(term))
		}
		sum += n
	}
	return sum
}
