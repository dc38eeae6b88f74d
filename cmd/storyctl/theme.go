package main

import (
	"fmt"

	"storyteller/internal/theme"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newThemeCmd(a *app) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "theme [name]",
		Short: "Pick a story theme and print its canonical name",
		Long: `Without a name an interactive list is shown. The result can be passed to
generate: storyctl generate dragon moon --theme "$(storyctl theme)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, t := range theme.Themes() {
					marker := " "
					if t == theme.DefaultTheme {
						marker = "*"
					}
					fmt.Fprintf(a.out, "%s %s\n", marker, t)
				}
				return nil
			}

			sel := theme.NewSelection()
			name := ""
			if len(args) == 1 {
				name = args[0]
			} else {
				prompt := promptui.Select{
					Label:  "Select story theme",
					Items:  theme.Themes(),
					Stdin:  a.in,
					Stdout: nopWriteCloser{a.errOut},
				}
				_, picked, err := prompt.Run()
				if err != nil {
					return fmt.Errorf("theme selection: %w", err)
				}
				name = picked
			}

			if err := sel.Select(name); err != nil {
				return err
			}
			fmt.Fprintln(a.out, sel.Current())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available themes")
	return cmd
}
