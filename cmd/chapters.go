package cmd

import (
	"fmt"
	"strconv"

	"github.com/brogergvhs/baotang/internal/chapters"

	"github.com/spf13/cobra"
)

var flagAscending bool

func init() {
	chaptersCmd := &cobra.Command{
		Use:   "chapters <mangaId>",
		Short: "List the chapters of a manga",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			raw, err := s.source.FetchChapters(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			all := chapters.Wrap(raw)
			if flagAscending {
				chapters.SortAscending(all)
			}

			rows := make([][]string, 0, len(all))
			for i, ch := range all {
				updated := ""
				if !ch.Time.IsZero() {
					updated = ch.Time.Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), ch.Label(), ch.Name, updated, ch.ID})
			}

			return printTable([]string{"#", "Chapter", "Name", "Updated", "ID"}, rows)
		},
	}
	chaptersCmd.Flags().BoolVar(&flagAscending, "asc", false, "sort by chapter number, lowest first")

	pagesCmd := &cobra.Command{
		Use:   "pages <mangaId> <chapterId>",
		Short: "List the page image URLs of a chapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			details, err := s.source.FetchChapterDetails(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			s.log.Debugf("%d pages in %s\n", len(details.Pages), details.ID)
			for _, p := range details.Pages {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(chaptersCmd, pagesCmd)
}
