package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storyteller/internal/controller"

	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		themeName string
		audioFile string
		save      bool
		read      bool
	)

	cmd := &cobra.Command{
		Use:   "generate [words...]",
		Short: "Generate a story from 2–5 keywords",
		Example: `  storyctl generate dragon moon
  storyctl generate "compass, river, lantern" --theme mystery --save
  storyctl generate --audio words.wav --read`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			view := newPresenter(a.streams, false)
			page, err := a.newPage(view)
			if err != nil {
				return err
			}
			if themeName != "" {
				if err := page.Selection().Select(themeName); err != nil {
					return err
				}
			}

			raw := strings.Join(args, " ")
			if audioFile != "" {
				f, err := os.Open(audioFile)
				if err != nil {
					return fmt.Errorf("failed to open audio file: %w", err)
				}
				defer f.Close()
				transcript, ok := page.Listen(cmd.Context(), f, filepath.Base(audioFile))
				if !ok {
					return errReported
				}
				fmt.Fprintf(a.errOut, "Heard: %s\n", transcript)
				raw = transcript
			}

			story := page.Generate(cmd.Context(), raw)
			if story == nil {
				return errReported
			}

			if save {
				page.Save(cmd.Context(), story)
				if view.alerted(controller.MsgSaveFailed) {
					return errReported
				}
			}
			if read {
				before := len(view.alerts)
				page.ReadAloud(cmd.Context(), story.Content)
				if len(view.alerts) > before {
					return errReported
				}
				fmt.Fprintf(a.errOut, "Audio saved to %s\n", a.cfg.Speech.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&themeName, "theme", "t", "", "story theme (default Adventure)")
	cmd.Flags().StringVar(&audioFile, "audio", "", "recognize keywords from an audio file instead of arguments")
	cmd.Flags().BoolVar(&save, "save", false, "save the generated story")
	cmd.Flags().BoolVar(&read, "read", false, "read the story aloud (writes audio to the configured output)")
	return cmd
}
