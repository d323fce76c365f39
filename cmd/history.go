package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/zjrosen/atlas/internal/history"
	"github.com/zjrosen/atlas/internal/mode/shared"
)

// timeNow is replaced in tests.
var timeNow = time.Now

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent catalog searches",
	Long: `Show the most recent searches, newest first.

Examples:
  atlas history
  atlas history --service geonode --limit 10
  atlas history --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		if db == nil {
			pterm.Warning.Println("Search history is disabled (history.enabled: false).")
			return nil
		}
		defer func() { _ = db.Close() }()
		repo := db.HistoryRepository()

		if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
			n, err := repo.Clear()
			if err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			pterm.Success.Printfln("Removed %d search(es) from history", n)
			return nil
		}

		service, _ := cmd.Flags().GetString("service")
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.History.Limit
		}
		entries, err := repo.Recent(history.Filter{Service: service, Limit: limit})
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if len(entries) == 0 {
			pterm.Info.Println("No searches recorded yet.")
			return nil
		}
		renderTable(historyRows(entries, shared.FixedClock{At: timeNow()}))
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("clear", false, "delete every recorded search")
	historyCmd.Flags().String("service", "", "only show searches of this service")
	historyCmd.Flags().IntP("limit", "n", 0, "maximum number of searches (default: history.limit)")
	rootCmd.AddCommand(historyCmd)
}

// historyRows builds the table rows, header first.
func historyRows(entries []*history.Entry, clock shared.Clock) [][]string {
	rows := [][]string{{"WHEN", "SERVICE", "TEXT", "START", "MATCHED"}}
	for _, e := range entries {
		matched := strconv.Itoa(e.Matched)
		if e.Failed() {
			matched = "error: " + e.Error
		}
		text := e.Text
		if text == "" {
			text = "-"
		}
		rows = append(rows, []string{
			shared.Age(e.CreatedAt, clock),
			e.Service,
			text,
			strconv.Itoa(e.StartPosition),
			matched,
		})
	}
	return rows
}
