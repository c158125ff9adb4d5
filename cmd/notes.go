package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/model"
	"github.com/spiffcs/ghlens/internal/notes"
	"github.com/spiffcs/ghlens/internal/output"
)

// NewCmdNotes creates the notes command with subcommands.
func NewCmdNotes(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes on profiles and repositories",
		Long: `Manage free-text notes attached to a GitHub user or to one of
their repositories. Notes are shown alongside the profile view.

Subcommands:
  list   List notes for a user
  add    Add a note to a user or repository
  edit   Replace the text of a note
  rm     Delete a note`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	cmd.AddCommand(NewCmdNotesList(opts))
	cmd.AddCommand(NewCmdNotesAdd(opts))
	cmd.AddCommand(NewCmdNotesEdit(opts))
	cmd.AddCommand(NewCmdNotesRemove(opts))

	return cmd
}

// NewCmdNotesList creates the notes list subcommand.
func NewCmdNotesList(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <username>",
		Short: "List notes for a user",
		Long:  `List a user's profile and repository notes. Use --repo to show one repository only.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(opts, func(store *notes.Store, f output.Formatter) error {
				var list []model.Note
				if opts.Repo != "" {
					list = store.ListRepoNotes(args[0], opts.Repo)
				} else {
					list = store.ListAll(args[0])
				}
				return f.FormatNotes(list, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "Only show notes on this repository")
	return cmd
}

// NewCmdNotesAdd creates the notes add subcommand.
func NewCmdNotesAdd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <username> <text>",
		Short: "Add a note to a user or repository",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			text, err := noteText(args[1:])
			if err != nil {
				return err
			}
			if username == "" {
				return fmt.Errorf("username is required")
			}

			return withNotes(opts, func(store *notes.Store, f output.Formatter) error {
				var n model.Note
				if opts.Repo != "" {
					n = store.AddRepoNote(username, opts.Repo, text)
				} else {
					n = store.AddUserNote(username, text)
				}
				log.Info("note added", "id", n.ID, "user", n.Username, "repo", n.RepoName)
				return f.FormatNotes([]model.Note{n}, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "Attach the note to this repository")
	return cmd
}

// NewCmdNotesEdit creates the notes edit subcommand.
func NewCmdNotesEdit(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace the text of a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := noteText(args[1:])
			if err != nil {
				return err
			}

			return withNotes(opts, func(store *notes.Store, f output.Formatter) error {
				if !store.UpdateNote(args[0], text) {
					return fmt.Errorf("note %q not found", args[0])
				}
				n, _ := store.Find(args[0])
				return f.FormatNotes([]model.Note{n}, cmd.OutOrStdout())
			})
		},
	}
}

// NewCmdNotesRemove creates the notes rm subcommand.
func NewCmdNotesRemove(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(opts, func(store *notes.Store, f output.Formatter) error {
				if !store.DeleteNote(args[0]) {
					return fmt.Errorf("note %q not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s.\n", args[0])
				return nil
			})
		},
	}
}

// withNotes opens the configured store for the duration of fn. Unlike the
// profile view, a store that cannot be opened is an error here.
func withNotes(opts *Options, fn func(*notes.Store, output.Formatter) error) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, settings, err := loadSettings()
	if err != nil {
		return err
	}
	format, err := resolveFormat(opts, cfg)
	if err != nil {
		return err
	}

	store, closeNotes, err := openNotes(settings)
	if err != nil {
		return fmt.Errorf("failed to open notes: %w", err)
	}
	defer closeNotes()

	return fn(store, output.NewFormatter(format))
}

// noteText joins the remaining arguments so quoting is optional.
func noteText(args []string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", fmt.Errorf("note text is required")
	}
	return text, nil
}
