// Package speech описывает распознавание речи и озвучку историй.
// Каждая возможность либо доступна, либо нет (ErrUnsupported).
package speech

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupported - на этом устройстве/конфигурации возможность отсутствует.
var ErrUnsupported = errors.New("speech capability unsupported")

// Recognizer превращает одну фразу в текст. Промежуточных результатов нет.
type Recognizer interface {
	Recognize(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer озвучивает текст. Новый Speak прерывает текущий.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
	Cancel()
}

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeUnsupported
	OutcomeCancelled
	OutcomeFailed
)

// Classify отделяет "не поддерживается" и "прервано" от настоящего сбоя.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrUnsupported):
		return OutcomeUnsupported
	case errors.Is(err, context.Canceled):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}

// Unavailable реализует оба интерфейса для окружения без речевых API.
type Unavailable struct{}

var (
	_ Recognizer  = Unavailable{}
	_ Synthesizer = Unavailable{}
)

func (Unavailable) Recognize(context.Context, io.Reader, string) (string, error) {
	return "", ErrUnsupported
}

func (Unavailable) Speak(context.Context, string) error { return ErrUnsupported }

func (Unavailable) Cancel() {}
