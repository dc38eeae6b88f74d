// Package controller реализует поведение страницы генерации историй:
// ввод ключевых слов, генерация, сохранение, удаление, озвучка и голосовой ввод.
package controller

import (
	"context"
	"errors"
	"io"
	"strings"

	"storyteller/internal/client"
	"storyteller/internal/keywords"
	"storyteller/internal/speech"
	"storyteller/internal/theme"

	"go.uber.org/zap"
)

// Сообщения, которые видит пользователь.
const (
	MsgEnterWords             = "Please enter 2–5 words."
	MsgLoading                = "🪄 Creating your magical story… please wait"
	MsgGenerateFailed         = "Oops! Could not generate story. Please try again in a moment."
	MsgSaved                  = "Story saved! Find it under My Stories."
	MsgSaveFailed             = "Could not save story."
	MsgConfirmDelete          = "Delete this story?"
	MsgDeleteFailed           = "Could not delete story."
	MsgSynthesisUnsupported   = "Speech synthesis not supported on this device"
	MsgReadAloudFailed        = "Could not read the story aloud."
	MsgRecognitionUnsupported = "SpeechRecognition not supported on this device"
	MsgRecognitionFailed      = "Could not recognize speech. Please try again."
)

// StoryAPI - операции story backend, нужные странице.
type StoryAPI interface {
	Generate(ctx context.Context, words, theme string) (*client.Story, error)
	Save(ctx context.Context, req client.SaveRequest) error
	Delete(ctx context.Context, id string) error
}

var _ StoryAPI = (*client.StoryClient)(nil)

// Presenter отображает состояние страницы.
type Presenter interface {
	ShowLoading(message string)
	HideLoading()
	ClearStory()
	RenderStory(story *client.Story)
	RemoveStory(id string)
	Alert(message string)
	Confirm(message string) bool
}

// Page связывает backend, выбор темы, речь и отображение.
// Блокировок нет: повторный Generate не прерывает предыдущий.
type Page struct {
	api        StoryAPI
	selection  *theme.Selection
	speaker    speech.Synthesizer
	recognizer speech.Recognizer
	view       Presenter
	logger     *zap.Logger
}

// Deps - зависимости Page. Пустые Speaker/Recognizer заменяются на speech.Unavailable.
type Deps struct {
	API        StoryAPI
	Selection  *theme.Selection
	Speaker    speech.Synthesizer
	Recognizer speech.Recognizer
	View       Presenter
	Logger     *zap.Logger
}

func NewPage(d Deps) *Page {
	if d.Selection == nil {
		d.Selection = theme.NewSelection()
	}
	if d.Speaker == nil {
		d.Speaker = speech.Unavailable{}
	}
	if d.Recognizer == nil {
		d.Recognizer = speech.Unavailable{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Page{
		api:        d.API,
		selection:  d.Selection,
		speaker:    d.Speaker,
		recognizer: d.Recognizer,
		view:       d.View,
		logger:     d.Logger.Named("Page"),
	}
}

// Selection возвращает выбор темы, которым пользуется страница.
func (p *Page) Selection() *theme.Selection {
	return p.selection
}

// Generate нормализует ввод и запрашивает историю. Возвращает историю при успехе,
// иначе nil; все ошибки уже показаны пользователю через Alert.
func (p *Page) Generate(ctx context.Context, raw string) *client.Story {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		p.view.Alert(MsgEnterWords)
		return nil
	}

	list, err := keywords.Normalize(raw)
	if err != nil {
		p.logger.Debug("Keyword validation failed", zap.Error(err))
		p.view.Alert(err.Error())
		return nil
	}

	p.speaker.Cancel()
	p.view.ShowLoading(MsgLoading)
	p.view.ClearStory()
	defer p.view.HideLoading()

	selected := p.selection.Current()
	log := p.logger.With(zap.String("theme", selected), zap.String("keywords", list.Describe()))
	log.Info("Requesting story")

	story, err := p.api.Generate(ctx, list.String(), selected)
	if err != nil {
		log.Warn("Story generation failed", zap.Error(err))
		p.view.Alert(generateFailureMessage(err))
		return nil
	}

	p.view.RenderStory(story)
	return story
}

// generateFailureMessage: сообщение backend, если оно есть, иначе общий текст.
func generateFailureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgGenerateFailed
}

// Save сохраняет показанную историю с её темой и словами из ответа backend.
func (p *Page) Save(ctx context.Context, story *client.Story) {
	if story == nil {
		p.view.Alert(MsgSaveFailed)
		return
	}
	err := p.api.Save(ctx, client.SaveRequest{
		Content: story.Content,
		Theme:   story.Theme,
		Words:   story.Words,
	})
	if err != nil {
		p.logger.Warn("Failed to save story", zap.Error(err))
		p.view.Alert(MsgSaveFailed)
		return
	}
	p.view.Alert(MsgSaved)
}

// Delete удаляет сохранённую историю после подтверждения. Пустой id игнорируется.
func (p *Page) Delete(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if !p.view.Confirm(MsgConfirmDelete) {
		return
	}
	if err := p.api.Delete(ctx, id); err != nil {
		p.logger.Warn("Failed to delete story", zap.String("storyID", id), zap.Error(err))
		p.view.Alert(MsgDeleteFailed)
		return
	}
	p.view.RemoveStory(id)
}

// ReadAloud озвучивает текст, прерывая текущую озвучку.
func (p *Page) ReadAloud(ctx context.Context, text string) {
	p.speaker.Cancel()
	err := p.speaker.Speak(ctx, text)
	switch speech.Classify(err) {
	case speech.OutcomeOK, speech.OutcomeCancelled:
	case speech.OutcomeUnsupported:
		p.view.Alert(MsgSynthesisUnsupported)
	default:
		p.logger.Warn("Read aloud failed", zap.Error(err))
		p.view.Alert(MsgReadAloudFailed)
	}
}

// Listen распознаёт одну фразу и возвращает её как новый ввод ключевых слов.
// ok=false, если распознать не удалось.
func (p *Page) Listen(ctx context.Context, audio io.Reader, filename string) (string, bool) {
	transcript, err := p.recognizer.Recognize(ctx, audio, filename)
	switch speech.Classify(err) {
	case speech.OutcomeOK:
		return transcript, true
	case speech.OutcomeUnsupported:
		p.view.Alert(MsgRecognitionUnsupported)
	case speech.OutcomeCancelled:
	default:
		p.logger.Warn("Speech recognition failed", zap.Error(err))
		p.view.Alert(MsgRecognitionFailed)
	}
	return "", false
}
