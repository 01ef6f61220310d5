package transport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// Eval applies a gjson path to a JSON body. On top of the gjson syntax it
// accepts a leading "$.", bracket indexes and a final size():
//
//	title            object field
//	data.email       nested field
//	[0].userId       array element, then field (same as 0.userId)
//	data.size()      element count of an array (same as data.#)
//	#.userId         the field collected from every element
//
// A path that does not resolve, or a body that is not JSON, yields a null value.
func Eval(body []byte, expr string) (ldvalue.Value, error) {
	path, err := gjsonPath(expr)
	if err != nil {
		return ldvalue.Null(), err
	}
	if !gjson.ValidBytes(body) {
		return ldvalue.Null(), nil
	}
	if path == "" {
		return ldvalue.Parse(body), nil
	}
	return fromResult(gjson.GetBytes(body, path)), nil
}

func gjsonPath(expr string) (string, error) {
	p := strings.TrimSpace(expr)
	p = strings.TrimPrefix(p, "$")
	p = bracketIndex.ReplaceAllString(p, ".$1")
	p = strings.TrimPrefix(p, ".")
	if p == "" {
		return "", nil
	}

	segs := strings.Split(p, ".")
	for i, seg := range segs {
		switch {
		case seg == "":
			return "", fmt.Errorf("invalid path %q: empty segment", expr)
		case seg == "size()":
			if i != len(segs)-1 {
				return "", fmt.Errorf("invalid path %q: size() must come last", expr)
			}
			segs[i] = "#"
		case strings.ContainsAny(seg, "[]"):
			return "", fmt.Errorf("invalid path %q: malformed index in %q", expr, seg)
		}
	}
	return strings.Join(segs, "."), nil
}

func fromResult(res gjson.Result) ldvalue.Value {
	switch res.Type {
	case gjson.True:
		return ldvalue.Bool(true)
	case gjson.False:
		return ldvalue.Bool(false)
	case gjson.Number:
		return ldvalue.Float64(res.Num)
	case gjson.String:
		return ldvalue.String(res.Str)
	case gjson.JSON:
		return ldvalue.Parse([]byte(res.Raw))
	default:
		return ldvalue.Null()
	}
}
