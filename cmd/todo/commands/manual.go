package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const userManual = `todo keeps a single list of tasks on this machine.
Everything is saved after every change, so nothing is lost between runs.

Adding a task
  todo add "Buy milk"
  todo add "Hand in report" --date 2024-05-01 --time 17:00
  A date without a time means midnight at the start of that day.

Completing a task
  todo toggle <id>
  Toggling again moves the task back to the pending list.
  Ids can be shortened to any unique prefix, as printed by "todo list".

Editing a task
  todo edit <id> --text "New text" --date 2024-05-02 --time 09:00
  todo edit <id> --clear-due

Deleting a task
  todo delete <id>
  You are asked to confirm first; pass --yes to skip the question.

Reading the list
  todo list
  Pending tasks come first, earliest deadline at the top and tasks without a
  deadline at the bottom. Completed tasks follow, newest first.
  Deadlines are labelled by urgency:
    overdue     (red)    the deadline has passed
    due today   (yellow) due within the next 24 hours
    due in N    (orange) due within the next 3 days
    due <date>  (gray)   no immediate urgency

Sync
  todo sync
  Shows what a cloud sync would look like. It is only a simulation;
  no data leaves this machine.

Serving the list over HTTP
  todo serve
  Starts a local API on 127.0.0.1:8080 by default. API docs are at /swagger/index.html.

Storage
  Tasks are stored as JSON under the key "interactive-todo-app-tasks".
  The default backend is a file in ./data; sqlite, postgres, redis and memory are
  selected with TODO_STORAGE_BACKEND or the storage.backend config key.
`

// NewManualCommand creates the manual command
func NewManualCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "manual",
		Short: "Print the user manual",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), userManual)
		},
	}
}
