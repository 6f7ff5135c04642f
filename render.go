package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"lending-library/library"
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Column widths for catalog and roster listings.
const (
	titleWidth  = 30
	authorWidth = 25
	nameWidth   = 30
)

func newListing(header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)
	return tw
}

func printBooks(out io.Writer, mgr *library.LibraryManager, books []library.Item) {
	if len(books) == 0 {
		fmt.Fprintln(out, "No books in library.")
		return
	}
	tw := newListing(table.Row{"Title", "Author", "Available", "Waitlist"})
	for _, b := range books {
		tw.AppendRow(table.Row{
			truncateString(b.Title, titleWidth),
			truncateString(b.Author, authorWidth),
			yesNo(b.Available),
			mgr.WaitlistNames(b.Waitlist),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Available", Align: text.AlignCenter, AlignHeader: text.AlignLeft},
	})
	fmt.Fprintln(out, tw.Render())
}

func printMembers(out io.Writer, members []library.Member) {
	if len(members) == 0 {
		fmt.Fprintln(out, "No members registered.")
		return
	}
	tw := newListing(table.Row{"ID", "Name"})
	for _, m := range members {
		tw.AppendRow(table.Row{m.ID, truncateString(m.Name, nameWidth)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	fmt.Fprintln(out, tw.Render())
}

// printNotices writes everything the core published since the last call.
func printNotices(out io.Writer, mgr *library.LibraryManager) {
	for _, n := range mgr.Notices().Drain() {
		fmt.Fprintln(out, n.Message)
	}
}

func truncateString(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	// No room for an ellipsis.
	if maxLength < 3 {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-3]) + "..."
}
