package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/backend"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/pages"
	"github.com/halocare/halocare-admin/internal/view"
)

// ListOptions are the query flags of the list command.
type ListOptions struct {
	Search   string
	Status   string
	SortBy   string
	SortDir  string
	Page     int
	PageSize int
	DateFrom string
	DateTo   string
	Filters  map[string]string
}

// Values converts the options into list query parameters. Unset flags are left
// out so the page defaults apply.
func (o ListOptions) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(listing.KeySearch, o.Search)
	set(listing.KeyStatus, o.Status)
	set(listing.KeySortBy, o.SortBy)
	set(listing.KeySortDir, o.SortDir)
	set(listing.KeyDateFrom, o.DateFrom)
	set(listing.KeyDateTo, o.DateTo)
	if o.Page > 0 {
		v.Set(listing.KeyPage, strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		v.Set(listing.KeyPageSize, strconv.Itoa(o.PageSize))
	}
	for k, val := range o.Filters {
		set(k, val)
	}
	return v
}

// RunList fetches the named page and prints its derived view.
func RunList(ctx context.Context, w io.Writer, modules []admin.Module, name string, opts ListOptions) error {
	m, ok := pages.Find(modules, name)
	if !ok {
		names := make([]string, 0, len(modules))
		for _, m := range modules {
			names = append(names, m.Name())
		}
		sort.Strings(names)
		return fmt.Errorf("unknown page %q (one of %s)", name, strings.Join(names, ", "))
	}
	table, err := m.Table(ctx, opts.Values())
	if err != nil {
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, strings.Join(table.Headers, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	p := table.Pagination
	if p.Total == 0 {
		_, err = fmt.Fprintln(w, "no records match")
		return err
	}
	_, err = fmt.Fprintf(w, "page %d of %d, %d records (sort %s %s)\n", p.Page, p.TotalPages, p.Total, table.Query.SortBy, table.Query.SortDir)
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func newListCommand() *cobra.Command {
	var opts ListOptions
	cmd := &cobra.Command{
		Use:   "list <page>",
		Short: "Print a derived list view fetched from the booking API",
		Example: `  halocarectl list doctors --search sari --status active
  halocarectl list transactions --status pending --sort amount --dir desc
  halocarectl list doctors --filter specialty=Cardiology --filter gender=female`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			modules, err := buildModules(cfg)
			if err != nil {
				return err
			}
			return RunList(cmd.Context(), cmd.OutOrStdout(), modules, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Search, "search", "", "case-insensitive search text")
	f.StringVar(&opts.Status, "status", "", "status filter (all for no filter)")
	f.StringVar(&opts.SortBy, "sort", "", "sort key")
	f.StringVar(&opts.SortDir, "dir", "", "sort direction (asc or desc)")
	f.IntVar(&opts.Page, "page", 0, "page number")
	f.IntVar(&opts.PageSize, "page-size", 0, "rows per page")
	f.StringVar(&opts.DateFrom, "from", "", "start date YYYY-MM-DD")
	f.StringVar(&opts.DateTo, "to", "", "end date YYYY-MM-DD")
	f.StringToStringVar(&opts.Filters, "filter", nil, "page specific filter key=value")
	return cmd
}

func buildModules(cfg *Config) ([]admin.Module, error) {
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is not set")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	defaults, err := listing.LoadDefaultsFile(cfg.ListDefaultsFile)
	if err != nil {
		return nil, err
	}
	client := backend.NewClient(backend.Config{BaseURL: cfg.BackendURL, Token: cfg.BackendToken, Timeout: cfg.BackendTimeout})
	return pages.Build(pages.NewResources(client), view.NewFormatter(cfg.DisplayLocale, loc), admin.Deps{Defaults: defaults})
}
