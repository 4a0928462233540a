package wrapper

import (
	csmap "github.com/mhmtszr/concurrent-swiss-map"
)

type ConcurrentSwissMap[K comparable, V any] struct {
	m *csmap.CsMap[K, V]
}

func CreateConcurrentSwissMap[K comparable, V any](size uint64) *ConcurrentSwissMap[K, V] {
	return &ConcurrentSwissMap[K, V]{
		m: csmap.Create[K, V](
			csmap.WithSize[K, V](size),
		),
	}
}

func (m *ConcurrentSwissMap[K, V]) Load(key K) (value V, ok bool) {
	return m.m.Load(key)
}

func (m *ConcurrentSwissMap[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

// LoadOrStore returns the existing value for key, storing create() first if absent.
// create may be called even when another goroutine wins the race; only one value is kept.
func (m *ConcurrentSwissMap[K, V]) LoadOrStore(key K, create func() V) V {
	if value, ok := m.m.Load(key); ok {
		return value
	}

	m.m.SetIfAbsent(key, create())

	value, _ := m.m.Load(key)
	return value
}

func (m *ConcurrentSwissMap[K, V]) Delete(key K) {
	m.m.Delete(key)
}

func (m *ConcurrentSwissMap[K, V]) Count() int {
	return m.m.Count()
}
