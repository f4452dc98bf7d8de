package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/todo/internal/adapters/export"
	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/domain/entities"
)

const shortIDLen = 8

var ErrAmbiguousID = errors.New("id prefix matches more than one task")

// NewAddCommand creates the add command
func NewAddCommand(opts *Options) *cobra.Command {
	var date, clock string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			due, err := entities.ParseDueDate(date, clock, a.loc)
			if err != nil {
				return err
			}

			task, ok := a.store.Add(cmd.Context(), strings.TrimSpace(strings.Join(args, " ")), due)
			if !ok {
				return errors.New("task text must not be empty")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", shortID(task.ID), task.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "Due time (HH:MM), midnight when omitted")
	return cmd
}

// NewListCommand creates the list command
func NewListCommand(opts *Options) *cobra.Command {
	var color bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show pending and completed tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			return renderBoard(cmd.OutOrStdout(), a.presenter.Board(a.store.GetAll()), a.loc, color)
		},
	}

	cmd.Flags().BoolVar(&color, "color", false, "Colour deadlines by urgency (red overdue, yellow today, orange soon)")
	return cmd
}

// NewToggleCommand creates the toggle command
func NewToggleCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed, or pending again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := resolveID(a.store.GetAll(), args[0])
			if err != nil {
				return err
			}

			task, ok := a.store.Toggle(cmd.Context(), id)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No task matches %q, nothing changed\n", args[0])
				return nil
			}

			state := "pending"
			if task.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s is now %s\n", shortID(task.ID), task.Text, state)
			return nil
		},
	}
}

// NewEditCommand creates the edit command
func NewEditCommand(opts *Options) *cobra.Command {
	var (
		text     string
		date     string
		clock    string
		clearDue bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the text or due date of a task",
		Long: `Change the text or due date of a task.

Flags that are not given keep their current value, so
"todo edit 3f2a --time 18:00" only moves the deadline to 18:00 on the same day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks := a.store.GetAll()
			id, err := resolveID(tasks, args[0])
			if err != nil {
				return err
			}

			current, found := findTask(tasks, id)
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No task matches %q, nothing changed\n", args[0])
				return nil
			}

			newText := current.Text
			if cmd.Flags().Changed("text") {
				newText = strings.TrimSpace(text)
				if newText == "" {
					return errors.New("task text must not be empty")
				}
			}

			due, err := editedDueDate(current, cmd.Flags().Changed("date"), date, cmd.Flags().Changed("time"), clock, clearDue, a.loc)
			if err != nil {
				return err
			}

			task, ok := a.store.Update(cmd.Context(), id, newText, due)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No task matches %q, nothing changed\n", args[0])
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s  %s\n", shortID(task.ID), task.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New task text")
	cmd.Flags().StringVar(&date, "date", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "New due time (HH:MM)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("clear-due", "date")
	cmd.MarkFlagsMutuallyExclusive("clear-due", "time")
	return cmd
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand(opts *Options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks := a.store.GetAll()
			id, err := resolveID(tasks, args[0])
			if err != nil {
				return err
			}

			task, found := findTask(tasks, id)
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No task matches %q, nothing changed\n", args[0])
				return nil
			}

			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", task.Text))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
					return nil
				}
			}

			a.store.Delete(cmd.Context(), id)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s  %s\n", shortID(task.ID), task.Text)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// resolveID expands a unique id prefix. An arg matching nothing is returned as is,
// so the store treats it as the no-op it is.
func resolveID(tasks []entities.Task, arg string) (string, error) {
	if arg == "" {
		return arg, nil
	}

	var match string
	for _, t := range tasks {
		if t.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", ErrAmbiguousID, arg)
			}
			match = t.ID
		}
	}
	if match == "" {
		return arg, nil
	}
	return match, nil
}

func findTask(tasks []entities.Task, id string) (entities.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return entities.Task{}, false
}

// editedDueDate merges the edit flags with the current deadline
func editedDueDate(current entities.Task, dateSet bool, date string, timeSet bool, clock string, clearDue bool, loc *time.Location) (*int64, error) {
	if clearDue {
		return nil, nil
	}
	if !dateSet && !timeSet {
		return current.DueDate, nil
	}

	curDate, curClock := entities.FormatDueDate(current, loc)
	if !dateSet {
		date = curDate
	}
	if !timeSet {
		clock = curClock
	}
	if date == "" {
		if timeSet && clock != "" {
			return nil, fmt.Errorf("%w: a time needs a date", entities.ErrInvalidDueDate)
		}
		return nil, nil
	}
	return entities.ParseDueDate(date, clock, loc)
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func renderBoard(out io.Writer, board services.Board, loc *time.Location, color bool) error {
	if board.Empty {
		_, err := fmt.Fprintln(out, services.EmptyBoardMessage)
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	writeSection(w, "Pending", board.Pending, loc, color)
	fmt.Fprintln(w)
	writeSection(w, "Completed", board.Completed, loc, color)
	return w.Flush()
}

// ansiColors maps urgency colours to terminal escape sequences
var ansiColors = map[string]string{
	"red":    "\x1b[31m",
	"yellow": "\x1b[33m",
	"orange": "\x1b[38;5;208m",
	"gray":   "\x1b[90m",
}

const ansiReset = "\x1b[0m"

func writeSection(w io.Writer, title string, tasks []services.TaskView, loc *time.Location, color bool) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(tasks))
	for _, v := range tasks {
		mark := "[ ]"
		if v.Completed {
			mark = "[x]"
		}
		due := ""
		if v.Urgency != nil {
			due = export.DescribeUrgency(*v.Urgency, loc)
			if code, ok := ansiColors[v.Urgency.Color]; ok && color {
				due = code + due + ansiReset
			}
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", mark, shortID(v.ID), v.Text, due)
	}
}
