package main

import (
	"fmt"

	"storyteller/internal/theme"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "mode [dark|light|toggle]",
		Short:     "Show or change the UI mode",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			current, err := theme.LoadMode(ctx, a.store)
			if err != nil {
				a.logger.Warn("Failed to load UI mode, using light", zap.Error(err))
			}

			next := current
			if len(args) == 1 {
				var saveErr error
				switch args[0] {
				case "toggle":
					next, saveErr = theme.Toggle(ctx, a.store, current)
				default:
					next = theme.Mode(args[0])
					saveErr = theme.SaveMode(ctx, a.store, next)
				}
				// Режим меняется даже если сохранить его не удалось
				if saveErr != nil {
					a.logger.Warn("Failed to persist UI mode", zap.Error(saveErr))
					fmt.Fprintln(a.errOut, "Warning: UI mode could not be saved.")
				}
			}

			fmt.Fprintf(a.out, "%s (toggle: %s)\n", next, next.ToggleLabel())
			return nil
		},
	}
}
