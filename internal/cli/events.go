package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent local activity (mutations performed by this client)",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			if w.events == nil {
				return errors.New("event log unavailable")
			}
			evs, err := w.events.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, evs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events")
	return cmd
}
