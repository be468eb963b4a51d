package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/plantel/internal/app"
	"github.com/five82/plantel/internal/confirm"
	"github.com/five82/plantel/internal/fault"
	"github.com/five82/plantel/internal/state"
)

// ListCmd prints the records of one resource.
func ListCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "ls <resource>",
		Aliases: []string{"list"},
		Short:   "List the records of a resource",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(g)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			stores := env.NewStores(app.StoreOptions{Context: cmd.Context()})
			defer stores.Close()

			r, err := lookup(stores, args[0])
			if err != nil {
				return err
			}
			rows, err := r.list(cmd.Context())
			if err != nil {
				return fmt.Errorf("list %s: %s", r.name, fault.UserMessage(err))
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s.\n", strings.ToLower(r.title))
				return nil
			}
			printRows(cmd.OutOrStdout(), r, rows)
			return nil
		},
	}
}

func printRows(w io.Writer, r resource, rows []row) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	titles := make([]string, 0, len(r.columns)+1)
	for _, c := range r.columns {
		titles = append(titles, strings.ToUpper(c.Title))
	}
	titles = append(titles, "STATE")
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	for _, rw := range rows {
		fmt.Fprintln(tw, strings.Join(rw.values, "\t")+"\t"+stateLabel(rw))
	}
	_ = tw.Flush()
}

func stateLabel(rw row) string {
	switch rw.state {
	case state.Synced:
		return color.New(color.FgGreen).Sprint(rw.state.String())
	case state.SyncFailed:
		return color.New(color.FgRed).Sprint(rw.state.String())
	default:
		return color.New(color.FgYellow).Sprint(rw.state.String())
	}
}

// RemoveCmd deletes one record after asking on stdin.
func RemoveCmd(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <resource> <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a record",
		Long: `Delete a record. The deletion is only sent to the server after an
explicit "y" answer, or straight away with --yes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			env, err := setup(g)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			stores := env.NewStores(app.StoreOptions{
				Context:  cmd.Context(),
				Notifier: printer(cmd.ErrOrStderr()),
			})
			defer stores.Close()

			r, err := lookup(stores, args[0])
			if err != nil {
				return err
			}
			if _, err := r.list(cmd.Context()); err != nil {
				return fmt.Errorf("list %s: %s", r.name, fault.UserMessage(err))
			}

			id := args[1]
			target, ok := r.get(id)
			if !ok {
				return fmt.Errorf("%s %s: %w", r.name, id, fault.ErrNotFound)
			}

			in := bufio.NewReader(cmd.InOrStdin())
			dialog := confirm.NewBlockingDialog(confirm.PrompterFunc(func(message string) bool {
				if yes {
					return true
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", message)
				line, _ := in.ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(line)) {
				case "y", "yes":
					return true
				}
				return false
			}))
			dialog.Message = func(string) string {
				return fmt.Sprintf("Delete %s? This cannot be undone.", target.label)
			}

			var (
				confirmed bool
				removeErr error
			)
			dialog.Request(id, func(id string) {
				confirmed = true
				removeErr = r.remove(id)
			})
			dialog.Wait()
			r.wait()

			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if removeErr != nil {
				return fmt.Errorf("delete %s: %s", target.label, fault.UserMessage(removeErr))
			}
			if after, ok := r.get(id); ok && after.state == state.SyncFailed {
				return fmt.Errorf("delete %s: %s", target.label, fault.UserMessage(after.err))
			}
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation question")
	return cmd
}
