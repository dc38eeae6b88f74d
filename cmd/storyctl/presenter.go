package main

import (
	"fmt"
	"io"

	"storyteller/internal/client"
	"storyteller/internal/controller"

	"github.com/manifoldco/promptui"
)

// terminalPresenter печатает историю в stdout, а сообщения и ход работы в stderr.
type terminalPresenter struct {
	in        io.ReadCloser
	out       io.Writer
	errOut    io.Writer
	assumeYes bool

	alerts []string
}

var _ controller.Presenter = (*terminalPresenter)(nil)

func newPresenter(s streams, assumeYes bool) *terminalPresenter {
	return &terminalPresenter{in: s.in, out: s.out, errOut: s.errOut, assumeYes: assumeYes}
}

func (p *terminalPresenter) ShowLoading(message string) { fmt.Fprintln(p.errOut, message) }

func (p *terminalPresenter) HideLoading() {}

func (p *terminalPresenter) ClearStory() {}

func (p *terminalPresenter) RenderStory(story *client.Story) {
	fmt.Fprintf(p.errOut, "Theme: %s | Words: %s\n", story.Theme, story.Words)
	fmt.Fprintln(p.out, story.Content)
}

func (p *terminalPresenter) RemoveStory(id string) {
	fmt.Fprintf(p.errOut, "Story %s deleted.\n", id)
}

func (p *terminalPresenter) Alert(message string) {
	p.alerts = append(p.alerts, message)
	fmt.Fprintln(p.errOut, message)
}

func (p *terminalPresenter) Confirm(message string) bool {
	if p.assumeYes {
		return true
	}
	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
		Stdin:     p.in,
		Stdout:    nopWriteCloser{p.errOut},
	}
	_, err := prompt.Run()
	return err == nil
}

// alerted сообщает, было ли показано сообщение msg.
func (p *terminalPresenter) alerted(msg string) bool {
	for _, a := range p.alerts {
		if a == msg {
			return true
		}
	}
	return false
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
