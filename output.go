package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"backoffice-console/models"
	"backoffice-console/utils"
)

// table prints aligned columns; with --json the raw value is printed instead.
func (a *app) table(raw any, header []string, rows [][]string) error {
	if a.jsonOutput {
		return a.printJSON(raw)
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fields prints label/value pairs, one per line.
func (a *app) fields(raw any, pairs ...string) error {
	if a.jsonOutput {
		return a.printJSON(raw)
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(tw, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	return tw.Flush()
}

func pageFooter[T any](w io.Writer, p models.Page[T]) {
	if p.Total == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	var pages []string
	for _, n := range utils.PageWindow(p.CurrentPage, p.LastPage, 1) {
		switch {
		case n == utils.Ellipsis:
			pages = append(pages, "...")
		case n == p.CurrentPage:
			pages = append(pages, fmt.Sprintf("[%d]", n))
		default:
			pages = append(pages, fmt.Sprint(n))
		}
	}
	fmt.Fprintf(w, "\n%d total  page %s\n", p.Total, strings.Join(pages, " "))
}

// listTable prints one page of rows followed by the pagination bar.
func listTable[T any](a *app, p models.Page[T], header []string, row func(T) []string) error {
	if a.jsonOutput {
		return a.printJSON(p)
	}
	rows := make([][]string, 0, len(p.Data))
	for _, item := range p.Data {
		rows = append(rows, row(item))
	}
	if err := a.table(nil, header, rows); err != nil {
		return err
	}
	pageFooter(a.out, p)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return utils.FormatDateTime(t)
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return dateTime(*t)
}

func naira(amount float64) string {
	return utils.FormatAmount(amount, "₦")
}
