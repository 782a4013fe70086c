package request

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	// queryDepth is the number of bracket segments expanded into nested
	// values; deeper segments stay in the last key verbatim.
	queryDepth = 5

	// queryArrayLimit is the largest index turned into a list position.
	// Larger indices keep the object form.
	queryArrayLimit = 20
)

// ParseQuery expands bracketed query keys into nested values:
//
//	a=1&a=2          {"a": ["1", "2"]}
//	a[b]=c           {"a": {"b": "c"}}
//	a[]=1&a[]=2      {"a": ["1", "2"]}
//	a[1]=y&a[0]=x    {"a": ["x", "y"]}
//	a[b][c]=d        {"a": {"b": {"c": "d"}}}
//
// A key that is used both as a plain value and as a parent keeps the nested
// form; the plain values are dropped.
func ParseQuery(values url.Values) map[string]any {
	root := make(map[string]any, len(values))

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := splitQueryKey(key)
		if len(path) == 0 {
			continue
		}
		for _, v := range values[key] {
			assignQuery(root, path, v)
		}
	}

	for key, v := range root {
		root[key] = compactQuery(v)
	}
	return root
}

// splitQueryKey turns "a[b][]" into ["a", "b", ""].
func splitQueryKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		if key == "" {
			return nil
		}
		return []string{key}
	}

	path := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 && rest[0] == '[' && len(path) <= queryDepth {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	if rest != "" {
		path[len(path)-1] += rest
	}
	return path
}

// appendList collects repeated and "[]" values while the tree is built.
type appendList []any

func assignQuery(node map[string]any, path []string, value string) {
	key := path[0]
	if len(path) == 1 {
		switch cur := node[key].(type) {
		case nil:
			node[key] = value
		case string:
			node[key] = appendList{cur, value}
		case appendList:
			node[key] = append(cur, value)
		}
		return
	}

	if path[1] == "" && len(path) == 2 {
		switch cur := node[key].(type) {
		case nil:
			node[key] = appendList{value}
		case string:
			node[key] = appendList{cur, value}
		case appendList:
			node[key] = append(cur, value)
		}
		return
	}

	child, ok := node[key].(map[string]any)
	if !ok {
		child = make(map[string]any)
		node[key] = child
	}
	assignQuery(child, path[1:], value)
}

// compactQuery turns append lists into slices and objects keyed by small
// indices into slices ordered by index.
func compactQuery(v any) any {
	switch n := v.(type) {
	case appendList:
		return []any(n)
	case map[string]any:
		for key, child := range n {
			n[key] = compactQuery(child)
		}
		if list, ok := indexedList(n); ok {
			return list
		}
		return n
	}
	return v
}

func indexedList(m map[string]any) ([]any, bool) {
	if len(m) == 0 {
		return nil, false
	}

	indices := make([]int, 0, len(m))
	for key := range m {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i > queryArrayLimit || strconv.Itoa(i) != key {
			return nil, false
		}
		indices = append(indices, i)
	}
	sort.Ints(indices)

	list := make([]any, 0, len(indices))
	for _, i := range indices {
		list = append(list, m[strconv.Itoa(i)])
	}
	return list, true
}
