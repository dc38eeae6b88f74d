package theme

import (
	"context"
	"fmt"

	"storyteller/internal/prefs"
)

// UIThemeKey - ключ настройки, под которым хранится режим оформления.
const UIThemeKey = "uiTheme"

type Mode string

const (
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode: всё, кроме "dark", считается светлым режимом.
func ParseMode(value string) Mode {
	if value == string(ModeDark) {
		return ModeDark
	}
	return ModeLight
}

// Opposite возвращает противоположный режим.
func (m Mode) Opposite() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// ToggleLabel - подпись кнопки переключения для текущего режима.
func (m Mode) ToggleLabel() string {
	if m == ModeDark {
		return "☀️ Light"
	}
	return "🌙 Dark"
}

// LoadMode читает сохраненный режим. Любая ошибка хранилища даёт ModeLight;
// ошибка (кроме отсутствия ключа) возвращается только для логирования.
func LoadMode(ctx context.Context, store prefs.Store) (Mode, error) {
	value, err := store.Get(ctx, UIThemeKey)
	if err != nil {
		if prefs.Classify(err) == prefs.OutcomeNotFound {
			return ModeLight, nil
		}
		return ModeLight, fmt.Errorf("failed to load ui mode: %w", err)
	}
	return ParseMode(value), nil
}

func SaveMode(ctx context.Context, store prefs.Store, mode Mode) error {
	if err := store.Set(ctx, UIThemeKey, string(mode)); err != nil {
		return fmt.Errorf("failed to save ui mode: %w", err)
	}
	return nil
}

// Toggle переключает режим и пытается его сохранить.
// Новый режим возвращается всегда, даже если сохранить не удалось.
func Toggle(ctx context.Context, store prefs.Store, current Mode) (Mode, error) {
	next := current.Opposite()
	return next, SaveMode(ctx, store, next)
}
