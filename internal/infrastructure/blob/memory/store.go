package memory

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Store is an in-memory blob.Store used by tests and local dry runs.
type Store struct {
	mu       sync.RWMutex
	objects  map[string][]byte
	types    map[string]string
	putCalls int

	// FailExists, when set, is returned by Exists for matching keys to
	// exercise transport-failure paths.
	FailExists map[string]error
	// FailPut mirrors FailExists for Put.
	FailPut map[string]error
}

func NewStore() *Store {
	return &Store{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err, ok := s.FailExists[key]; ok {
		return false, err
	}
	_, ok := s.objects[key]
	return ok, nil
}

func (s *Store) Put(_ context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read put body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.putCalls++
	if err, ok := s.FailPut[key]; ok {
		return err
	}
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

// Seed stores an object without counting it as a put call.
func (s *Store) Seed(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

func (s *Store) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

func (s *Store) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.types[key]
}

func (s *Store) PutCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.putCalls
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.objects))
	for key := range s.objects {
		out = append(out, key)
	}
	return out
}
