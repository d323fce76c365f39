package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/history"
	"github.com/zjrosen/atlas/internal/i18n"
	"github.com/zjrosen/atlas/internal/log"
	"github.com/zjrosen/atlas/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Run one catalog search and print the records",
	Long: `Search a configured catalog service without starting the TUI.

Examples:
  # Search the selected service
  atlas search lake

  # Second page of a specific service
  atlas search lake --service geonode --page 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("service", "s", "", "service to search (default: catalog.selected_service)")
	searchCmd.Flags().IntP("page", "p", 1, "1-based page to fetch")
	searchCmd.Flags().Int("page-size", 0, "records per page (default: catalog.page_size)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	registry, err := validServices()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	service, _ := cmd.Flags().GetString("service")
	if service == "" {
		service = cfg.Catalog.SelectedService
	}
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize <= 0 {
		pageSize = cfg.Catalog.PageSize
	}
	var text string
	if len(args) == 1 {
		text = args[0]
	}

	req, err := catalog.BuildSearch(registry, service, catalog.PageStart(page, pageSize), pageSize, text)
	if err != nil {
		return err
	}

	executor, _, shutdownTracing, err := newExecutor()
	if err != nil {
		return err
	}
	defer shutdownTracing()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Searching %s...", service))
	result, searchErr := executor.Search(ctx, req)
	recordHistory(req, result, searchErr)
	if searchErr != nil {
		if spinner != nil {
			spinner.Fail(i18n.Default().ErrorMessage(cfg.Catalog.Locale, search.Code(searchErr)))
		}
		return searchErr
	}

	info := catalog.Project(result, req.Options(), pageSize)
	if spinner != nil {
		spinner.Success(pageSummary(info))
	}
	if info == nil || info.Empty {
		pterm.Info.Println(i18n.T(cfg.Catalog.Locale, "catalog.noRecordsMatched", nil))
		return nil
	}
	renderTable(recordRows(result.Records))
	return nil
}

// pageSummary renders "5-8 of 42 (page 2/11)".
func pageSummary(info *catalog.PageInfo) string {
	if info == nil || info.Empty {
		return i18n.T(cfg.Catalog.Locale, "catalog.noRecordsMatched", nil)
	}
	span := i18n.T(cfg.Catalog.Locale, "catalog.pageInfo", i18n.Params{"start": info.Start, "end": info.End, "total": info.Total})
	return fmt.Sprintf("%s (page %d/%d)", span, info.ActivePage(), info.PageCount)
}

// recordRows builds the table rows, header first.
func recordRows(records []catalog.Record) [][]string {
	rows := [][]string{{"TITLE", "LAYER", "TYPE", "ABSTRACT"}}
	for _, r := range records {
		abstract := strings.Join(strings.Fields(r.Abstract), " ")
		rows = append(rows, []string{
			runewidth.Truncate(r.Title, 48, "…"),
			r.LayerName,
			strings.ToUpper(string(r.LayerType)),
			runewidth.Truncate(abstract, 60, "…"),
		})
	}
	return rows
}

// recordHistory stores the outcome when history is enabled.
func recordHistory(req catalog.SearchRequest, result *catalog.Result, searchErr error) {
	db, err := openHistory()
	if err != nil {
		log.Warn(log.CatDB, "History unavailable", "error", err)
		return
	}
	if db == nil {
		return
	}
	defer func() { _ = db.Close() }()
	entry := history.NewEntry(req, result, search.Code(searchErr), timeNow())
	if err := db.HistoryRepository().Record(entry); err != nil {
		log.Warn(log.CatDB, "Failed to record search", "error", err)
	}
}
