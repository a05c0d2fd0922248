package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Aakash694/EcoFinds/internal/catalog"
	"github.com/Aakash694/EcoFinds/internal/query"
	"github.com/Aakash694/EcoFinds/internal/render"
	"github.com/Aakash694/EcoFinds/shared/logging"
	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand
type app struct {
	seedFile string
	logLevel string
	asJSON   bool
	now      func() time.Time

	store *catalog.Store
}

func newRootCmd() *cobra.Command {
	return (&app{now: time.Now}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Browse the EcoFinds catalog",
		Long:          "Browse, search and extend the EcoFinds sample catalog from a terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}

	root.PersistentFlags().StringVar(&a.seedFile, "seed", "", "YAML catalog to load instead of the built-in sample")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of cards")

	root.AddCommand(
		a.listCmd(),
		a.recentCmd(),
		a.showCmd(),
		a.countsCmd(),
		a.statsCmd(),
		a.addCmd(),
	)
	return root
}

// open loads the catalog. Each invocation starts from the seed again.
func (a *app) open() error {
	logger, err := logging.New("catalogctl", a.logLevel)
	if err != nil {
		return err
	}

	var listings []models.Listing
	if a.seedFile == "" {
		listings, err = catalog.DefaultSeed()
	} else {
		listings, err = catalog.LoadSeedFile(a.seedFile)
	}
	if err != nil {
		return err
	}

	a.store = catalog.NewStore(
		catalog.WithListings(listings),
		catalog.WithLogger(logger),
		catalog.WithClock(a.now),
	)
	logger.Debug("catalog loaded", zap.Int("listings", a.store.Len()))
	return nil
}

func (a *app) listCmd() *cobra.Command {
	var raw query.RawParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings matching the filters",
		Example: `  catalogctl list --category sports
  catalogctl list --location mumbai --sort price-high
  catalogctl list --search iphone --max-price 80000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := raw.Parse()
			listings := query.NewEngine(a.store).Run(params)
			return a.printListings(cmd.OutOrStdout(), render.ListingsHeading(params.Category), listings)
		},
	}

	f := cmd.Flags()
	f.StringVar(&raw.Category, "category", "", "category filter (all disables)")
	f.StringVar(&raw.Location, "location", "", "location filter (all disables)")
	f.StringVarP(&raw.SearchTerm, "search", "q", "", "text to look for in title, description or category")
	f.StringVar(&raw.MinPrice, "min-price", "", "lowest price, inclusive")
	f.StringVar(&raw.MaxPrice, "max-price", "", "highest price, inclusive")
	f.StringVar(&raw.SortBy, "sort", string(query.SortNewest), "newest, oldest, price-low or price-high")
	return cmd
}

func (a *app) recentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show the newest listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printListings(cmd.OutOrStdout(), "Recent Listings", query.NewEngine(a.store).Recent())
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid listing id %q", args[0])
			}
			listing, err := a.store.Get(id)
			if err != nil {
				return fmt.Errorf("listing %d: %w", id, err)
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(out, listing)
			}
			fmt.Fprintln(out, render.TerminalDetail(listing, a.now()))
			return nil
		},
	}
}

func (a *app) countsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Count listings per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			counts := make([]models.CategoryCount, len(models.Categories))
			for i, c := range models.Categories {
				counts[i] = models.CategoryCount{Category: c, Count: a.store.CountByCategory(c.Name)}
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(out, counts)
			}
			for _, c := range counts {
				fmt.Fprintf(out, "%-12s %3d ads\n", c.DisplayName, c.Count)
			}
			return nil
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals per category and location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := a.store.Stats()

			out := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(out, stats)
			}
			fmt.Fprintf(out, "Total listings: %s\n", humanize.Comma(int64(stats.Total)))
			fmt.Fprintln(out, strings.Repeat("─", 24))
			for _, loc := range models.Locations {
				fmt.Fprintf(out, "%-12s %3d\n", loc, stats.Locations[loc])
			}
			return nil
		},
	}
}

// addCmd validates a listing and shows it as it would be stored. The catalog
// lives in memory, so the listing is gone when the command exits.
func (a *app) addCmd() *cobra.Command {
	var c models.Candidate

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Validate a new listing and preview it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := a.store.Add(c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(out, listing)
			}
			fmt.Fprintln(out, render.TerminalDetail(listing, a.now()))
			fmt.Fprintf(out, "%s now has %d ads\n", listing.Category, a.store.CountByCategory(listing.Category))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&c.Title, "title", "", "listing title")
	f.StringVar(&c.Description, "description", "", "listing description")
	f.StringVar(&c.Price, "price", "", "price in rupees")
	f.StringVar(&c.Category, "category", "", "one of the marketplace categories")
	f.StringVar(&c.Location, "location", "", "one of the marketplace locations")
	f.StringVar(&c.Seller, "seller", "", "seller name")
	f.StringVar(&c.Phone, "phone", "", "seller phone number")
	f.StringVar(&c.Condition, "condition", "", "item condition (default Good)")
	f.StringSliceVar(&c.Images, "image", nil, "image URL, may be repeated")
	return cmd
}

func (a *app) printListings(out io.Writer, heading string, listings []models.Listing) error {
	if a.asJSON {
		return writeJSON(out, map[string]any{"listings": listings, "total": len(listings)})
	}
	fmt.Fprintln(out, render.TerminalGrid(heading, listings, a.now()))
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
