package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AudioSink получает готовое аудио одной фразы.
type AudioSink interface {
	Play(ctx context.Context, audio io.Reader) error
}

// FileSink пишет каждую фразу в Path, перезаписывая предыдущую.
type FileSink struct {
	Path string
}

func (s FileSink) Play(ctx context.Context, audio io.Reader) error {
	if s.Path == "" {
		return fmt.Errorf("%w: no output path for audio", ErrUnsupported)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create audio dir: %w", err)
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create audio file %s: %w", s.Path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, contextReader{ctx: ctx, r: audio}); err != nil {
		return fmt.Errorf("failed to write audio file %s: %w", s.Path, err)
	}
	return nil
}

// contextReader обрывает копирование, когда контекст отменён.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
