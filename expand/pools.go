package expand

import (
	"fmt"
	"sort"
	"strconv"
)

// FlattenPools converts configured value pools into flat string lists. Each
// pool may be a scalar, a list, or a map nested to any depth; nesting is
// walked depth first with map keys in sorted order so the flattened result
// is stable across runs.
func FlattenPools(raw map[string]any) map[string][]string {
	pools := make(map[string][]string, len(raw))
	for name, v := range raw {
		pools[name] = flattenValue(v, nil)
	}
	return pools
}

func flattenValue(v any, out []string) []string {
	switch t := v.(type) {
	case nil:
		return out
	case string:
		return append(out, t)
	case bool:
		return append(out, strconv.FormatBool(t))
	case int:
		return append(out, strconv.Itoa(t))
	case int64:
		return append(out, strconv.FormatInt(t, 10))
	case float64:
		return append(out, strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		for _, e := range t {
			out = flattenValue(e, out)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = flattenValue(t[k], out)
		}
		return out
	default:
		return append(out, fmt.Sprint(t))
	}
}
