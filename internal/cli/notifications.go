package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"panelkit/internal/notifications"
)

func newNotificationsCmd(g *globalOptions) *cobra.Command {
	var readAll, all, watch bool
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show the notification feed",
		Long: `Show the notification feed. With --watch the first page is reloaded every
NOTIFY_POLL_SEC seconds and redrawn until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			feed := notifications.NewFeed(notifications.NewService(g.httpClient(), g.csrf(), g.csrfHeader()))
			if err := feed.Load(ctx); err != nil {
				return err
			}
			for all && feed.Snapshot().HasMore {
				if err := feed.LoadMore(ctx); err != nil {
					return err
				}
			}
			if readAll {
				if err := feed.MarkAllRead(ctx); err != nil {
					return err
				}
			}

			if watch {
				notifications.NewPoller(feed, g.cfg.Notify.PollEvery, func(s notifications.FeedState) {
					if err := renderFeed(out, s); err != nil {
						cmd.PrintErrln(err)
					}
				}).Run(ctx)
				return nil
			}
			return renderFeed(out, feed.Snapshot())
		},
	}
	cmd.Flags().BoolVar(&readAll, "read-all", false, "mark every notification as read")
	cmd.Flags().BoolVar(&all, "all", false, "follow next links until the feed is exhausted")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep polling and redraw the feed on every update")
	return cmd
}

func renderFeed(out io.Writer, s notifications.FeedState) error {
	fmt.Fprintf(out, "%d notifications, %d unread shown\n", s.Count, s.Unread)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLEVEL\tREAD\tCREATED\tCONTENT")
	for _, n := range s.Items {
		read := "no"
		if n.IsRead {
			read = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", n.ID, n.Level, read, n.DateCreation.Format(time.DateTime), n.Content)
	}
	return tw.Flush()
}
