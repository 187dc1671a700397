// Package memory holds the per-domain persistent state derived from journal
// events. Every value is immutable once published: Apply returns a new value
// sharing unchanged systems with its predecessor.
package memory

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func withEntry[K comparable, V any](m map[K]V, key K, value V) map[K]V {
	out := cloneMap(m)
	out[key] = value
	return out
}

// rekey moves the value under from to to. merge resolves a collision; its
// first argument is the value being moved.
func rekey[K comparable, V any](m map[K]V, from, to K, merge func(older, newer V) V) (map[K]V, bool) {
	moved, ok := m[from]
	if !ok || from == to {
		return m, false
	}
	out := cloneMap(m)
	delete(out, from)
	if existing, ok := out[to]; ok {
		moved = merge(moved, existing)
	}
	out[to] = moved
	return out, true
}

func keys[K comparable, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func int64Ptr(v int64) *int64 {
	return &v
}
