// Package prefs хранит небольшие пользовательские настройки (например, режим UI).
package prefs

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrUnsupported - хранилище настроек недоступно в принципе.
	ErrUnsupported = errors.New("preference storage unsupported")
	// ErrNotFound - ключ ещё ни разу не записывался.
	ErrNotFound = errors.New("preference not found")
)

// Store - строковое key/value хранилище настроек.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Outcome классифицирует результат обращения к хранилищу.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeUnsupported
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnsupported:
		return "unsupported"
	default:
		return "failed"
	}
}

// Classify сопоставляет ошибку Store с Outcome.
// Всё, что не ErrNotFound и не ErrUnsupported, считается сбоем хранилища.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrUnsupported):
		return OutcomeUnsupported
	default:
		return OutcomeFailed
	}
}

// Unsupported используется там, где хранилища нет совсем.
type Unsupported struct{}

func (Unsupported) Get(context.Context, string) (string, error) { return "", ErrUnsupported }
func (Unsupported) Set(context.Context, string, string) error  { return ErrUnsupported }

// MemoryStore держит настройки в памяти процесса.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
