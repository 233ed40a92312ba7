package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felipepimentel/ai-news-digest/search"
	"github.com/felipepimentel/ai-news-digest/staticfeed"
	"github.com/spf13/cobra"
)

var flagFeed string

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy search the digest archive",
	Long: `Search the static feed archive. With a query argument the results are
printed once. Without one, queries are read from stdin line by line and only
the last query of a quick burst is answered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := flagFeed
		if source == "" {
			source = cfg.Feed.BaseURL
		}
		if source == "" {
			source = cfg.Feed.DataDir
		}

		session := search.NewSession(staticfeed.NewClient(source), search.Options{Threshold: cfg.Search.Threshold})
		limit := cfg.Search.Limit

		if len(args) > 0 {
			query := strings.Join(args, " ")
			printResults(cmd.OutOrStdout(), query, session.Search(cmd.Context(), query, limit))
			return nil
		}
		return interactiveSearch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), session, limit, cfg.Search.Debounce)
	},
}

func init() {
	searchCmd.Flags().StringVar(&flagFeed, "feed", "", "feed base URL or directory (default feed.base_url, then feed.data_dir)")
}

func interactiveSearch(ctx context.Context, in io.Reader, out io.Writer, session *search.Session, limit int, wait time.Duration) error {
	delivered := make(chan string, 1)
	d := search.NewDebouncer(wait, func(ctx context.Context, query string) []search.Result {
		return session.Search(ctx, query, limit)
	}, func(query string, results []search.Result) {
		printResults(out, query, results)
		select {
		case <-delivered:
		default:
		}
		delivered <- query
	})
	defer d.Stop()

	var last string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		last = scanner.Text()
		d.Trigger(last)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading queries: %w", err)
	}
	if last == "" {
		return nil
	}

	for {
		select {
		case q := <-delivered:
			if q == last {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func printResults(out io.Writer, query string, results []search.Result) {
	fmt.Fprintf(out, "%q: %d result(s)\n", query, len(results))
	for _, r := range results {
		fmt.Fprintf(out, "  %.3f  %s  [%s, %s]\n", r.Score, r.Document.Title, r.Document.SourceName, r.Document.DigestDate)
		if r.Document.URL != "" {
			fmt.Fprintf(out, "         %s\n", r.Document.URL)
		}
	}
}
