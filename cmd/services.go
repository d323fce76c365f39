package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/config"
	"github.com/zjrosen/atlas/internal/log"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the configured catalog services",
	Long: `List the catalog services from the config file.

The selected service is marked with *. The backgrounds pseudo-service is only
listed with --source backgroundSelector, matching the picker in the TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		policy := catalog.BackgroundPolicy{Source: source}
		options := catalog.SelectableList(policy.Visible(cfg.Catalog.Registry()))
		if len(options) == 0 {
			pterm.Info.Println("No services configured.")
			return nil
		}
		renderTable(serviceRows(options, cfg.Catalog.SelectedService))
		return nil
	},
}

func init() {
	servicesCmd.Flags().String("source", "", "context the list is shown in (backgroundSelector)")
	rootCmd.AddCommand(servicesCmd)
}

// serviceRows builds the table rows, header first.
func serviceRows(options []catalog.Option, selected string) [][]string {
	rows := [][]string{{"", "NAME", "TITLE", "TYPE", "URL", "AUTOLOAD"}}
	for _, o := range options {
		mark := ""
		if o.Value == selected {
			mark = "*"
		}
		autoload := ""
		if o.Autoload {
			autoload = "yes"
		}
		rows = append(rows, []string{mark, o.Value, o.Label, strings.ToUpper(string(o.Type)), o.URL, autoload})
	}
	return rows
}

// renderTable prints rows as a boxed table, falling back to tab separated
// lines when the table cannot be rendered.
func renderTable(rows [][]string) {
	if err := pterm.DefaultTable.WithBoxed(true).WithHasHeader().WithData(rows).Render(); err != nil {
		log.Warn(log.CatUI, "Failed to render table", "error", err)
		for _, row := range rows[1:] {
			pterm.Println(strings.Join(row, "\t"))
		}
	}
}

// validServices returns the configured registry, failing on invalid config.
func validServices() (catalog.Registry, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg.Catalog.Registry(), nil
}
