package main

import (
	"storyteller/internal/controller"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			view := newPresenter(a.streams, yes)
			page, err := a.newPage(view)
			if err != nil {
				return err
			}

			page.Delete(cmd.Context(), args[0])
			if view.alerted(controller.MsgDeleteFailed) {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
