package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"storyteller/internal/client"
	"storyteller/internal/controller"

	"github.com/spf13/cobra"
)

func newSaveCmd(a *app) *cobra.Command {
	var content, file, themeName, words string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a story to My Stories",
		Example: `  storyctl generate dragon moon > story.txt
  storyctl save --file story.txt --theme Adventure --words "dragon, moon"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "" && file == "" {
				return errors.New("either --content or --file is required")
			}
			if file != "" {
				data, err := readContent(a.in, file)
				if err != nil {
					return err
				}
				content = data
			}
			if err := a.setup(); err != nil {
				return err
			}
			view := newPresenter(a.streams, false)
			page, err := a.newPage(view)
			if err != nil {
				return err
			}

			page.Save(cmd.Context(), &client.Story{Content: content, Theme: themeName, Words: words})
			if view.alerted(controller.MsgSaveFailed) {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "story text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read story text from a file ('-' for stdin)")
	cmd.Flags().StringVarP(&themeName, "theme", "t", "Adventure", "story theme")
	cmd.Flags().StringVarP(&words, "words", "w", "", "keywords the story was generated from")
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	return cmd
}

func readContent(stdin io.Reader, file string) (string, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read story text: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
