package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

func newNotificationsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "notifications", Short: "Operator notifications"}

	var unreadOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			items, err := deps.API.Notifications.List(cmd.Context())
			if err != nil {
				return err
			}
			if unreadOnly {
				unread := make([]domain.Notification, 0, len(items))
				for _, n := range items {
					if !n.Read {
						unread = append(unread, n)
					}
				}
				items = unread
			}
			return e.render(cmd, items, func(w io.Writer) {
				if len(items) == 0 {
					fmt.Fprintln(w, "No notifications.")
					return
				}
				fmt.Fprintln(w, "ID\tTYPE\tTITLE\tREAD\tCREATED")
				for _, n := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Type, n.Title, yesNo(n.Read), n.CreatedAt)
				}
			})
		},
	}
	list.Flags().BoolVar(&unreadOnly, "unread", false, "only unread notifications")

	unread := &cobra.Command{
		Use:   "unread",
		Short: "Count unread notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			n, err := deps.API.Notifications.UnreadCount(cmd.Context())
			if err != nil {
				return err
			}
			return e.render(cmd, map[string]int{"count": n}, func(w io.Writer) {
				fmt.Fprintf(w, "%d unread\n", n)
			})
		},
	}

	cmd.AddCommand(list, unread)
	return cmd
}
