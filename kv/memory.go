package kv

import (
	"bytes"
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store used in tests and anywhere a durable
// backend is not needed.
type MemoryStore struct {
	lock *sync.Mutex

	data map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lock: &sync.Mutex{},
		data: make(map[string][]byte),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	value, found := m.data[key]
	if !found {
		return nil, ErrNotFound
	}

	return bytes.Clone(value), nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.data[key] = bytes.Clone(value)

	return nil
}

func (m *MemoryStore) CompareAndSwap(_ context.Context, key string, old []byte, value []byte) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	current, found := m.data[key]

	if old == nil {
		if found {
			return false, nil
		}
	} else {
		if !found || !bytes.Equal(current, old) {
			return false, nil
		}
	}

	m.data[key] = bytes.Clone(value)

	return true, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.data, key)

	return nil
}

func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	keys := make([]string, 0)
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
