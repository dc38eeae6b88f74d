// Package theme держит выбранную тему истории и режим оформления (dark/light).
package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DefaultTheme - тема, с которой стартует страница.
const DefaultTheme = "Adventure"

// ErrUnknownTheme возвращается при выборе темы, которую backend не принимает.
var ErrUnknownTheme = errors.New("unknown theme")

// known - канонические имена тем в порядке показа.
var known = []string{
	"Adventure",
	"Funny",
	"Moral",
	"Mystery",
	"Romantic",
	"Historical",
	"Fairytale",
}

// Themes возвращает копию списка поддерживаемых тем.
func Themes() []string {
	out := make([]string, len(known))
	copy(out, known)
	return out
}

// Canonical возвращает каноническое имя темы без учёта регистра.
func Canonical(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, t := range known {
		if strings.EqualFold(t, name) {
			return t, true
		}
	}
	return "", false
}

// Selection - текущая выбранная тема. Меняется только явным Select.
type Selection struct {
	mu      sync.RWMutex
	current string
}

// NewSelection создает выбор с темой по умолчанию.
func NewSelection() *Selection {
	return &Selection{current: DefaultTheme}
}

func (s *Selection) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Select меняет тему. При неизвестном имени текущая тема не меняется.
func (s *Selection) Select(name string) error {
	canonical, ok := Canonical(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	s.mu.Lock()
	s.current = canonical
	s.mu.Unlock()
	return nil
}
