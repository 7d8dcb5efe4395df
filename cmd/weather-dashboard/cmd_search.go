package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for cities",
	Long: `Search for cities by name. Without arguments, queries are read from
standard input one per line and searched once typing pauses.`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) > 0 {
		return searchOnce(ctx, os.Stdout, strings.Join(args, " "))
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Type a city name, Ctrl-D to quit.")
	}

	var printMu sync.Mutex
	d := dashboard.NewDebouncer(dashboard.SearchDebounce)
	defer d.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := scanner.Text()
		d.Trigger(func() {
			printMu.Lock()
			defer printMu.Unlock()
			if err := searchOnce(ctx, os.Stdout, query); err != nil {
				slog.Warn("search failed", "query", query, "err", err)
			}
		})
	}
	d.Flush()
	return scanner.Err()
}

func searchOnce(ctx context.Context, w io.Writer, query string) error {
	cities, err := deps.ctrl.SearchCities(ctx, query)
	if err != nil {
		return err
	}
	if len(cities) == 0 {
		fmt.Fprintf(w, "No results for %q\n", strings.TrimSpace(query))
		return nil
	}
	for _, c := range cities {
		fmt.Fprintf(w, "%-40s %9.4f %9.4f\n", c.DisplayName, c.Lat, c.Lon)
	}
	return nil
}
