package main

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/provenantdev/provenant/internal/evidence"
)

var eventsCmd = &cobra.Command{
	Use:   "events <evidence.db> [execution-id]",
	Short: "Dump the evidence trail from a SQLite evidence store",
	Long: `Prints the append-only evidence trail recorded in a SQLite store,
in append order. With an execution id only that run's events are shown.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		executionID := ""
		if len(args) > 1 {
			executionID = args[1]
		}
		return runEvents(cmd, args[0], executionID)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, dbPath, executionID string) error {
	db, err := sql.Open("sqlite", "file:"+dbPath)
	if err != nil {
		return fmt.Errorf("open evidence store: %w", err)
	}
	defer db.Close()

	store, err := evidence.NewSQLiteStore(db)
	if err != nil {
		return fmt.Errorf("open evidence store: %w", err)
	}

	events, err := store.ListEvents(cmd.Context(), executionID)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	for _, ev := range events {
		fields, err := json.Marshal(ev.Fields)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %-20s %s  %s\n",
			ev.At.Format("2006-01-02T15:04:05.000Z07:00"),
			ev.Type,
			ev.ExecutionID,
			fields,
		)
	}
	return nil
}
