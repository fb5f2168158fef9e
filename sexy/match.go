package sexy

import (
	"fmt"
)

// Match reports whether actual has the shape described by pattern.
//
// Atoms must be equal in type and text. Lists and arrays match item by
// item; an ellipsis item matches any run of zero or more items. The symbol
// _ matches any single datum, including a missing one. Maps match when both
// sides have the same keys (in any order) with matching values.
//
// The returned error names the path of the first mismatch.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern.IsSymbol("_") {
		return nil
	}
	if actual == nil {
		return fmt.Errorf("at %s: expected %s, got nothing", path, pattern)
	}
	if pattern.Type != actual.Type {
		return fmt.Errorf("at %s: expected %s %s, got %s %s", path, pattern.Type, pattern, actual.Type, actual)
	}

	switch pattern.Type {
	case NodeList, NodeArray:
		return matchItems(pattern.Items, actual.Items, path, 0)
	case NodeMap:
		return matchMap(pattern, actual, path)
	case NodeEllipsis:
		return nil
	default:
		if pattern.Text != actual.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
		}
		return nil
	}
}

func matchItems(patterns, actuals []*Node, path string, offset int) error {
	i := 0
	for pi, p := range patterns {
		if p.Type == NodeEllipsis {
			rest := patterns[pi+1:]
			var lastErr error
			for j := i; j <= len(actuals); j++ {
				lastErr = matchItems(rest, actuals[j:], path, offset+j)
				if lastErr == nil {
					return nil
				}
			}
			return lastErr
		}
		if i >= len(actuals) {
			return fmt.Errorf("at %s: expected item %d (%s), but there are only %d", path, offset+i, p, offset+len(actuals))
		}
		if err := match(p, actuals[i], fmt.Sprintf("%s[%d]", path, offset+i)); err != nil {
			return err
		}
		i++
	}
	if i != len(actuals) {
		return fmt.Errorf("at %s: unexpected extra item %d (%s)", path, offset+i, actuals[i])
	}
	return nil
}

func matchMap(pattern, actual *Node, path string) error {
	values := make(map[string]*Node, len(actual.Keys))
	for i, key := range actual.Keys {
		if i < len(actual.Items) {
			values[key] = actual.Items[i]
		}
	}
	for i, key := range pattern.Keys {
		if i >= len(pattern.Items) {
			break
		}
		value, ok := values[key]
		if !ok {
			return fmt.Errorf("at %s: missing key %s", path, mapKey(key))
		}
		if err := match(pattern.Items[i], value, path+"."+key); err != nil {
			return err
		}
		delete(values, key)
	}
	for _, key := range actual.Keys {
		if _, extra := values[key]; extra {
			return fmt.Errorf("at %s: unexpected key %s", path, mapKey(key))
		}
	}
	return nil
}
