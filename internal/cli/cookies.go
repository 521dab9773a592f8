package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mooncookies-cli/internal/cache"
	"mooncookies-cli/internal/draft"
	"mooncookies-cli/internal/eventlog"
	"mooncookies-cli/internal/model"
	"mooncookies-cli/internal/reconcile"
)

func newCookiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Inspect and manage the cookie inventory",
	}
	cmd.AddCommand(newCookiesListCmd(app))
	cmd.AddCommand(newCookiesCreateCmd(app))
	cmd.AddCommand(newCookiesUpdateCmd(app))
	cmd.AddCommand(newCookiesDeleteCmd(app))
	return cmd
}

func newCookiesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cookies (owner expanded, newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			c := cache.New(w.log)
			c.Load(cmd.Context(), w.client)
			return writeOut(cmd, app, c.Entries())
		},
	}
}

// loadAuthed wires a logged-in reconciler over a freshly loaded cache.
func loadAuthed(cmd *cobra.Command, w *wiring) (*reconcile.Reconciler, *cache.Cache, *model.User, error) {
	connected, user := w.sessions.Bootstrap(cmd.Context())
	if !connected {
		return nil, nil, nil, errors.New("backend unreachable")
	}
	if user == nil {
		return nil, nil, nil, errors.New("not logged in (run `mooncookies login`)")
	}
	c := cache.New(w.log)
	c.Load(cmd.Context(), w.client)

	var rec reconcile.Recorder
	if w.events != nil {
		rec = eventlog.Recorder{Log: w.events, Actor: user.ID}
	}
	return reconcile.New(w.client, c, rec, w.log), c, user, nil
}

func draftFlags(cmd *cobra.Command, d *draft.Draft) {
	cmd.Flags().StringVar(&d.Name, "name", d.Name, "Cookie name")
	cmd.Flags().StringVar(&d.Description, "description", d.Description, "Description (markdown)")
	cmd.Flags().StringVar(&d.PriceInput, "price", d.PriceInput, "Price in USD (e.g. 2.50)")
	cmd.Flags().StringVar(&d.InventoryInput, "inventory", d.InventoryInput, "Units in stock")
	cmd.Flags().StringVar(&d.AttachmentPath, "photo", "", "Path to a photo to upload")
}

func statusFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "status", "", "Baking status (dough|in_the_oven|ready_for_sale)")
}

func applyStatus(d *draft.Draft, status string) error {
	if strings.TrimSpace(status) == "" {
		return nil
	}
	s := model.BakingStatus(status)
	if !s.Valid() {
		return fmt.Errorf("invalid baking status %q", status)
	}
	d.SetBakingStatus(s)
	return nil
}

func newCookiesCreateCmd(app *App) *cobra.Command {
	d := draft.New()
	var status string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Bake a new cookie (astronauts only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			r, _, user, err := loadAuthed(cmd, w)
			if err != nil {
				return err
			}
			if err := applyStatus(d, status); err != nil {
				return err
			}
			payload, err := d.Payload(user.ID)
			if err != nil {
				return err
			}
			created, err := r.SubmitCreate(cmd.Context(), user, payload)
			if errors.Is(err, reconcile.ErrNotAllowed) {
				return errors.New("only astronauts can bake cookies")
			}
			if err != nil {
				return fmt.Errorf("could not save cookie: %w", err)
			}
			return writeOut(cmd, app, created)
		},
	}
	draftFlags(cmd, d)
	statusFlag(cmd, &status)
	return cmd
}

func newCookiesUpdateCmd(app *App) *cobra.Command {
	var status string
	var name, description, price, inventory, photo string
	cmd := &cobra.Command{
		Use:   "update <cookie-id>",
		Short: "Edit a cookie you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			r, c, user, err := loadAuthed(cmd, w)
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			existing, ok := c.Find(id)
			if !ok {
				return fmt.Errorf("no such cookie: %s", id)
			}

			// Seed from the existing entity; only flags that were set
			// override fields.
			d := draft.FromCookie(existing)
			if cmd.Flags().Changed("name") {
				d.Name = name
			}
			if cmd.Flags().Changed("description") {
				d.Description = description
			}
			if cmd.Flags().Changed("price") {
				d.PriceInput = price
			}
			if cmd.Flags().Changed("inventory") {
				d.InventoryInput = inventory
			}
			if cmd.Flags().Changed("photo") {
				d.SetAttachment(photo)
			}
			if err := applyStatus(d, status); err != nil {
				return err
			}

			payload, err := d.Payload(existing.OwnerRef())
			if err != nil {
				return err
			}
			updated, err := r.SubmitUpdate(cmd.Context(), user, id, payload)
			if errors.Is(err, reconcile.ErrNotAllowed) {
				return errors.New("you can only edit cookies you own")
			}
			if err != nil {
				return fmt.Errorf("could not save cookie: %w", err)
			}
			return writeOut(cmd, app, updated)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Cookie name")
	cmd.Flags().StringVar(&description, "description", "", "Description (markdown)")
	cmd.Flags().StringVar(&price, "price", "", "Price in USD (e.g. 2.50)")
	cmd.Flags().StringVar(&inventory, "inventory", "", "Units in stock")
	cmd.Flags().StringVar(&photo, "photo", "", "Path to a photo to upload")
	statusFlag(cmd, &status)
	return cmd
}

func newCookiesDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <cookie-id>",
		Short: "Jettison a cookie you own into space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			r, _, user, err := loadAuthed(cmd, w)
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])

			// A read failure (closed stdin, no terminal) must not count as
			// a quiet decline; the command fails so scripts notice.
			var confirmReadErr error
			confirm := func(c model.Cookie) bool {
				if yes {
					return true
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Jettison %q into space? [y/N]: ", c.Name)
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && strings.TrimSpace(line) == "" {
					confirmReadErr = err
					return false
				}
				answer := strings.ToLower(strings.TrimSpace(line))
				return answer == "y" || answer == "yes"
			}

			deleted, err := r.SubmitDelete(cmd.Context(), user, id, confirm)
			if errors.Is(err, reconcile.ErrNotAllowed) {
				return errors.New("you can only delete cookies you own")
			}
			if err != nil {
				return fmt.Errorf("could not delete cookie: %w", err)
			}
			if !deleted {
				if confirmReadErr != nil {
					return fmt.Errorf("confirmation required but none could be read (%w); pass --yes to skip the prompt", confirmReadErr)
				}
				return writeOut(cmd, app, map[string]string{"status": "aborted"})
			}
			return writeOut(cmd, app, map[string]string{"status": "deleted", "id": id})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
