package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/brogergvhs/baotang/internal/providers"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	headingStyle = color.New(color.FgCyan, color.Bold)
	labelStyle   = color.New(color.FgHiBlack)
)

var stdout io.Writer = os.Stdout

func printTable(headers []string, rows [][]string) error {
	table := tablewriter.NewTable(stdout)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Alignment.Global = tw.AlignLeft
		cfg.Row.Alignment.Global = tw.AlignLeft
		cfg.Header.Padding.Global = tw.Padding{Left: " ", Right: " "}
		cfg.Row.Padding.Global = tw.Padding{Left: " ", Right: " "}
	})

	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}

	return table.Render()
}

func printHeading(format string, args ...any) {
	_, _ = headingStyle.Fprintf(stdout, format+"\n", args...)
}

func printField(label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(stdout, "%s %s\n", labelStyle.Sprintf("%-12s", label+":"), value)
}

func printTiles(tiles []providers.Tile) error {
	rows := make([][]string, 0, len(tiles))
	for i, t := range tiles {
		rows = append(rows, []string{strconv.Itoa(i + 1), t.Title, t.Subtitle, t.ID})
	}

	return printTable([]string{"#", "Title", "Latest", "ID"}, rows)
}

func printPaged(res *providers.PagedResult) error {
	if err := printTiles(res.Results); err != nil {
		return err
	}

	if res.Metadata != nil {
		_, _ = fmt.Fprintf(stdout, "\nNext page: --page %d\n", res.Metadata.Page)
	}

	return nil
}

func joinTags(sections []providers.TagSection) string {
	var labels []string
	for _, s := range sections {
		for _, t := range s.Tags {
			labels = append(labels, t.Label)
		}
	}

	return strings.Join(labels, ", ")
}
