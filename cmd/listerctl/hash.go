package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	lister "github.com/goliatone/go-lister"
)

type hashOutput struct {
	Parameters lister.Parameters `json:"parameters"`
	Hash       string            `json:"hash"`
}

func hashCmd() *cobra.Command {
	var (
		configPath string
		page       int
		limit      int
		sort       string
		order      string
		search     string
		filters    []string
		quiet      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Build a coordinator and print its committed parameters and hash",
		Long: `Hash resolves a config from --config and LISTER_* variables, applies the
flag values on top and prints the committed parameters with their hash.

Filters use key=value. Values that parse as JSON are stored decoded,
anything else is stored as a string:

  listerctl hash --sort name --filter status=open --filter 'ids=[1,2]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			var logger lister.Logger
			if verbose {
				logger = lister.NewSlogLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			l, err := lister.Load(cfg, lister.WithLogger(logger))
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("page") {
				l.SetPage(page)
			}
			if flags.Changed("limit") {
				l.SetLimit(limit)
			}
			if flags.Changed("sort") {
				l.SetSort(sort)
			}
			if flags.Changed("order") {
				l.SetOrder(lister.Order(order))
			}
			if flags.Changed("search") {
				l.SetSearch(search)
			}
			for _, pair := range filters {
				key, value, err := parseFilter(pair)
				if err != nil {
					return err
				}
				l.SetFilter(key, value)
			}
			l.Apply()

			out := cmd.OutOrStdout()
			if quiet {
				fmt.Fprintln(out, l.Hash())
				return nil
			}
			payload, err := json.MarshalIndent(hashOutput{Parameters: l.Parameters(), Hash: l.Hash()}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (json, yaml or toml)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort column")
	cmd.Flags().StringVar(&order, "order", "", "Sort order, asc or desc")
	cmd.Flags().StringVar(&search, "search", "", "Search term")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as key=value, repeatable")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the hash")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log coordinator events to stderr")

	return cmd
}

func parseFilter(pair string) (string, any, error) {
	key, raw, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("filter %q must be key=value", pair)
	}
	var value any
	if json.Valid([]byte(raw)) {
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return "", nil, fmt.Errorf("filter %q: %w", key, err)
		}
		return key, value, nil
	}
	return key, raw, nil
}
