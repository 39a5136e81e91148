package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/satyamsundaram01/moe-support-assist/session"
)

var (
	sessionsLimit int
	sessionsSince time.Duration
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List persisted support sessions",
	Long: `sessions lists the conversations stored in Postgres, most recent first.
Requires DATABASE_URL (or the DB_* variables) to point at the session store
used by chat.`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "maximum number of sessions to list")
	sessionsCmd.Flags().DurationVar(&sessionsSince, "since", 0, "only sessions updated within this window (e.g. 24h)")
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := session.NewPostgresStore(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect session store: %w", err)
	}
	defer store.Close()

	opts := session.ListOptions{Limit: sessionsLimit}
	if sessionsSince > 0 {
		opts.Since = time.Now().Add(-sessionsSince)
	}

	summaries, err := store.ListSessions(ctx, opts)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tUSER\tUPDATED\tEVENTS")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.UserID, s.Updated.Format(time.RFC3339), s.EventCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d session(s)\n", len(summaries))
	return nil
}
