package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"panelkit/internal/client"
	"panelkit/internal/remotelist"
)

type listOptions struct {
	filters []string
	orders  []string
	page    int
	json    bool
}

func newListCmd(g *globalOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list URL",
		Short: "Fetch one page of a collection endpoint",
		Example: `  panelctl list /api/panel/events/ --filter type=call --order -date_start --page 2
  panelctl list http://localhost:8080/api/panel/notifications/ --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := parseFilters(opts.filters)
			if err != nil {
				return err
			}
			fetcher := client.NewPageFetcher[client.Record](g.httpClient(), nil)
			ctl := remotelist.New[client.Record](fetcher, args[0],
				remotelist.WithPageSize(g.cfg.List.PageSize), remotelist.WithName("panelctl"))
			defer ctl.Close()

			state, err := drive(ctl, filters, opts.orders, opts.page)
			if err != nil {
				return err
			}
			if opts.json {
				return writeStateJSON(cmd.OutOrStdout(), state)
			}
			return writeStateTable(cmd.OutOrStdout(), state)
		},
	}
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "filter as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.orders, "order", nil, "ordering field, prefix with - for descending (repeatable)")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page to show")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the page as JSON")
	return cmd
}

type filter struct{ name, value string }

func parseFilters(raw []string) ([]filter, error) {
	out := make([]filter, 0, len(raw))
	for _, f := range raw {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid filter %q, expected name=value", f)
		}
		out = append(out, filter{name, value})
	}
	return out, nil
}

// drive applies filters, orderings and paging one operation at a time,
// waiting for each fetch before issuing the next.
func drive(ctl *remotelist.Controller[client.Record], filters []filter, orders []string, page int) (remotelist.State[client.Record], error) {
	step := func(op func()) (remotelist.State[client.Record], error) {
		op()
		ctl.Wait()
		s := ctl.Snapshot()
		if s.LastError != nil {
			return s, s.LastError
		}
		return s, nil
	}

	state, err := step(ctl.Refresh)
	if err != nil {
		return state, err
	}
	for _, f := range filters {
		if state, err = step(func() { ctl.SetFilter(f.name, &f.value) }); err != nil {
			return state, err
		}
	}
	for _, o := range orders {
		field := strings.TrimPrefix(o, "-")
		if state, err = step(func() { ctl.SetOrdering(field) }); err != nil {
			return state, err
		}
		if state.Ordering != o {
			if state, err = step(func() { ctl.SetOrdering(field) }); err != nil {
				return state, err
			}
		}
	}
	for state.CurrentPage < page && state.HasNext() {
		if state, err = step(ctl.NextPage); err != nil {
			return state, err
		}
	}
	return state, nil
}

func writeStateJSON(w io.Writer, s remotelist.State[client.Record]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"url":         s.URL,
		"page":        s.CurrentPage,
		"total_pages": s.TotalPages,
		"count":       s.TotalCount,
		"ordering":    s.Ordering,
		"next":        s.Next,
		"previous":    s.Previous,
		"results":     nonNil(s.Items),
	})
}

func nonNil(items []client.Record) []client.Record {
	if items == nil {
		return []client.Record{}
	}
	return items
}

func writeStateTable(w io.Writer, s remotelist.State[client.Record]) error {
	fmt.Fprintf(w, "Page %d of %d (%d records)\n", s.CurrentPage, s.TotalPages, s.TotalCount)
	if len(s.Items) == 0 {
		return nil
	}

	cols := columns(s.Items)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(cols, "\t")))
	for _, item := range s.Items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cell(item[c])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func columns(items []client.Record) []string {
	seen := map[string]bool{}
	var cols []string
	for _, item := range items {
		for k := range item {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	slices.Sort(cols)
	if i := slices.Index(cols, "id"); i > 0 {
		cols = append([]string{"id"}, slices.Delete(cols, i, i+1)...)
	}
	return cols
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
