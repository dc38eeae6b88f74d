package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"storyteller/internal/client"
	"storyteller/internal/config"
	"storyteller/internal/controller"
	"storyteller/internal/logger"
	"storyteller/internal/prefs"
	"storyteller/internal/speech"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errReported - ошибка уже показана через Alert, печатать её повторно не нужно.
var errReported = errors.New("reported")

type streams struct {
	in     io.ReadCloser
	out    io.Writer
	errOut io.Writer
}

func newStreams() streams {
	return streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

// app - общее состояние команд: конфиг, логгер, хранилище настроек.
type app struct {
	streams
	cfgFile string
	verbose bool

	cfg     *config.ClientConfig
	logger  *zap.Logger
	store   prefs.Store
	closers []func() error
}

func newRootCmd(s streams) *cobra.Command {
	a := &app{streams: s}

	root := &cobra.Command{
		Use:   "storyctl",
		Short: "Generate, save and read aloud short stories for kids",
		Long: `storyctl turns 2–5 keywords and a theme into a short story using the story
backend, saves or deletes stories, reads them aloud, and keeps the UI mode preference.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.errOut)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "storyctl.yaml", "config file path")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newGenerateCmd(a),
		newSaveCmd(a),
		newDeleteCmd(a),
		newThemeCmd(a),
		newModeCmd(a),
		newTokenCmd(a),
		newGateCmd(a),
	)
	return root
}

// setup загружает конфиг CLI, логгер и хранилище настроек.
func (a *app) setup() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.LoadClientConfig(a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logger.Level = "debug"
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = log
	a.closers = append(a.closers, func() error {
		_ = log.Sync()
		return nil
	})

	store, err := a.openStore()
	if err != nil {
		// Без хранилища продолжаем работать: режим UI просто будет светлым
		a.logger.Warn("Preference storage unavailable", zap.String("backend", cfg.Prefs.Backend), zap.Error(err))
		store = prefs.Unsupported{}
	}
	a.store = store
	return nil
}

func (a *app) openStore() (prefs.Store, error) {
	pc := a.cfg.Prefs
	switch pc.Backend {
	case config.PrefsBackendMemory:
		return prefs.NewMemoryStore(), nil
	case config.PrefsBackendFile:
		return prefs.NewFileStore(pc.File, a.logger)
	case config.PrefsBackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: pc.RedisAddr})
		a.closers = append(a.closers, rdb.Close)
		return prefs.NewRedisStore(rdb, pc.Namespace, pc.TTL, a.logger), nil
	default:
		return prefs.Unsupported{}, nil
	}
}

// newPage собирает контроллер страницы для терминала.
func (a *app) newPage(view controller.Presenter) (*controller.Page, error) {
	api, err := client.NewStoryClient(a.cfg.API.BaseURL, client.Options{
		Timeout: a.cfg.API.Timeout,
		Token:   a.cfg.API.Token,
	}, a.logger)
	if err != nil {
		return nil, err
	}

	deps := controller.Deps{API: api, View: view, Logger: a.logger}
	sc := a.cfg.Speech
	voice, err := speech.NewOpenAI(speech.OpenAIConfig{
		APIKey:  sc.OpenAIAPIKey,
		BaseURL: sc.OpenAIBaseURL,
		Voice:   sc.Voice,
	}, speech.FileSink{Path: sc.Output}, a.logger)
	if err != nil {
		a.logger.Debug("Speech disabled", zap.Error(err))
	} else {
		deps.Speaker = voice
		deps.Recognizer = voice
	}
	return controller.NewPage(deps), nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("failed to release resources: %w", errors.Join(errs...))
	}
	return nil
}
