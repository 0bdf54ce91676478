package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simp-lee/soundmint/internal/client"
	"github.com/simp-lee/soundmint/internal/domain"
)

type listOptions struct {
	query   string
	time    string
	page    int
	size    int
	sort    string
	status  string
	nftType string
	facets  []string
}

func newListCmd(e *env) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:       "list <users|artists|tracks|nfts|applications>",
		Short:     "Fetch one page of a dashboard listing",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"users", "artists", "tracks", "nfts", "applications"},
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, ok := client.ParseEntity(args[0])
			if !ok {
				return fmt.Errorf("unknown listing %q", args[0])
			}
			l := client.DashboardListing[json.RawMessage](e.client, entity, slog.Default())
			if err := opts.apply(l); err != nil {
				return err
			}
			if err := l.Refresh(cmd.Context()); err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), l)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.query, "query", "", "free-text filter")
	f.StringVar(&opts.time, "time", "AllTime", "time filter: Today, Week, Month, Year or AllTime")
	f.IntVar(&opts.page, "page", 1, "page number")
	f.IntVar(&opts.size, "size", domain.DefaultPageSize, "page size: 5, 10, 20 or 50")
	f.StringVar(&opts.sort, "sort", "", "sort column, with an optional :desc suffix")
	f.StringVar(&opts.status, "status", "", "application status facet")
	f.StringVar(&opts.nftType, "type", "", "NFT type facet")
	f.StringArrayVar(&opts.facets, "facet", nil, "extra facet as key=value, repeatable")
	return cmd
}

func (o *listOptions) apply(l *client.Listing[json.RawMessage]) error {
	tf, ok := domain.ParseTimeFilter(o.time)
	if !ok {
		return fmt.Errorf("unknown time filter %q", o.time)
	}
	l.SetTimeFilter(tf)
	l.SetQuery(o.query)
	l.SetPageSize(o.size)

	if o.status != "" {
		st, ok := domain.ParseApplicationStatus(o.status)
		if !ok {
			return fmt.Errorf("unknown status %q", o.status)
		}
		l.SetStatus(st)
	}
	if o.nftType != "" {
		t, ok := domain.ParseNftType(o.nftType)
		if !ok {
			return fmt.Errorf("unknown type %q", o.nftType)
		}
		l.SetType(t)
	}

	facets := map[string][]string{}
	for _, kv := range o.facets {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return fmt.Errorf("facet %q must be key=value", kv)
		}
		facets[key] = append(facets[key], val)
	}
	for key, vals := range facets {
		l.SetFacet(key, vals...)
	}

	if o.sort != "" {
		column, dir, _ := strings.Cut(o.sort, ":")
		l.ToggleSort(column)
		if domain.ParseSortDirection(dir) == domain.SortDesc {
			l.ToggleSort(column)
		}
	}
	l.GoTo(o.page)
	return nil
}

func printPage(w io.Writer, l *client.Listing[json.RawMessage]) error {
	page := l.Page()
	for _, row := range page.Data {
		if _, err := fmt.Fprintln(w, string(row)); err != nil {
			return err
		}
	}
	p := l.Pager()
	_, err := fmt.Fprintf(w, "page %d of %d, items %d-%d of %d\n",
		page.PageNumber, page.TotalPages, p.StartItem, p.EndItem, page.TotalCount)
	return err
}
