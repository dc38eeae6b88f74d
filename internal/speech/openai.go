package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// SpeechRate соответствует скорости чтения на странице.
	SpeechRate = 1.05
	// RecognitionLanguage - язык распознавания (ISO-639-1).
	RecognitionLanguage = "en"
)

var speechRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storyteller_speech_requests_total",
		Help: "Total number of speech recognition and synthesis requests.",
	},
	[]string{"op", "status"}, // op: recognize|speak
)

// OpenAIConfig - настройки клиента речевых API.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // пусто - api.openai.com
	Voice   string
	Timeout time.Duration
}

// OpenAI реализует Recognizer (Whisper) и Synthesizer (TTS) поверх go-openai.
type OpenAI struct {
	client *openaigo.Client
	voice  openaigo.SpeechVoice
	sink   AudioSink
	logger *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

var (
	_ Recognizer  = (*OpenAI)(nil)
	_ Synthesizer = (*OpenAI)(nil)
)

// NewOpenAI создает речевой клиент. Без ключа API возвращает ErrUnsupported,
// вызывающий код в этом случае использует Unavailable.
func NewOpenAI(cfg OpenAIConfig, sink AudioSink, logger *zap.Logger) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is not configured", ErrUnsupported)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	openaiConfig := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiConfig.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	openaiConfig.HTTPClient = &http.Client{Timeout: timeout}

	voice := openaigo.SpeechVoice(cfg.Voice)
	if voice == "" {
		voice = openaigo.VoiceAlloy
	}

	return &OpenAI{
		client: openaigo.NewClientWithConfig(openaiConfig),
		voice:  voice,
		sink:   sink,
		logger: logger.Named("OpenAISpeech"),
	}, nil
}

// Recognize отправляет одну запись в Whisper и возвращает текст целиком.
func (o *OpenAI) Recognize(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if audio == nil {
		return "", fmt.Errorf("no audio to recognize")
	}
	if filename == "" {
		filename = "speech.webm"
	}
	log := o.logger.With(zap.String("file", filename))

	resp, err := o.client.CreateTranscription(ctx, openaigo.AudioRequest{
		Model:    openaigo.Whisper1,
		Reader:   audio,
		FilePath: filename,
		Language: RecognitionLanguage,
	})
	if err != nil {
		log.Warn("Transcription request failed", zap.Error(err))
		speechRequestsTotal.WithLabelValues("recognize", "error").Inc()
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	speechRequestsTotal.WithLabelValues("recognize", "success").Inc()
	transcript := strings.TrimSpace(resp.Text)
	log.Debug("Transcription received", zap.Int("length", len(transcript)))
	return transcript, nil
}

// Speak прерывает предыдущую озвучку и запускает новую.
func (o *OpenAI) Speak(ctx context.Context, text string) error {
	if o.sink == nil {
		return fmt.Errorf("%w: no audio output configured", ErrUnsupported)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	ctx, seq := o.begin(ctx)
	defer o.finish(seq)

	o.logger.Debug("Synthesizing speech", zap.Int("textLength", len(text)), zap.Uint64("utterance", seq))
	resp, err := o.client.CreateSpeech(ctx, openaigo.CreateSpeechRequest{
		Model:          openaigo.TTSModel1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openaigo.SpeechResponseFormatMp3,
		Speed:          SpeechRate,
	})
	if err != nil {
		if ctx.Err() != nil {
			speechRequestsTotal.WithLabelValues("speak", "cancelled").Inc()
			return fmt.Errorf("speech synthesis interrupted: %w", context.Canceled)
		}
		o.logger.Warn("Speech request failed", zap.Error(err))
		speechRequestsTotal.WithLabelValues("speak", "error").Inc()
		return fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Close()

	if err := o.sink.Play(ctx, resp); err != nil {
		if ctx.Err() != nil {
			speechRequestsTotal.WithLabelValues("speak", "cancelled").Inc()
			return fmt.Errorf("speech playback interrupted: %w", context.Canceled)
		}
		speechRequestsTotal.WithLabelValues("speak", "error").Inc()
		return fmt.Errorf("speech playback failed: %w", err)
	}

	speechRequestsTotal.WithLabelValues("speak", "success").Inc()
	return nil
}

// Cancel прерывает текущую озвучку, если она идёт.
func (o *OpenAI) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *OpenAI) begin(parent context.Context) (context.Context, uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	o.seq++
	o.cancel = cancel
	return ctx, o.seq
}

// finish освобождает контекст, только если за это время не начали новую фразу.
func (o *OpenAI) finish(seq uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seq == seq && o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}
