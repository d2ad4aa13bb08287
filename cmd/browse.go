package cmd

import (
	"fmt"

	"github.com/brogergvhs/baotang/internal/providers"

	"github.com/spf13/cobra"
)

var (
	flagMorePage   int
	flagSearchPage int
	flagTitle      string
	flagTags       []string
)

// pageMeta returns nil when --page was not given, so the source starts at
// its first page.
func pageMeta(cmd *cobra.Command, page int) *providers.PageMetadata {
	if !cmd.Flags().Changed("page") {
		return nil
	}
	return &providers.PageMetadata{Page: page}
}

// sectionTracker tells placeholders from filled sections. Every home section
// is emitted twice, and the second emission is final even when it is empty.
type sectionTracker struct {
	announced map[string]bool
}

func newSectionTracker() *sectionTracker {
	return &sectionTracker{announced: map[string]bool{}}
}

func (t *sectionTracker) filled(sec providers.HomeSection) bool {
	if t.announced[sec.ID] {
		return true
	}
	t.announced[sec.ID] = true
	return false
}

func init() {
	homeCmd := &cobra.Command{
		Use:   "home",
		Short: "Show the home page sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			var printErr error
			tracker := newSectionTracker()
			err = s.source.FetchHomeSections(cmd.Context(), func(sec providers.HomeSection) {
				if !tracker.filled(sec) {
					s.log.Debugf("section %s announced\n", sec.ID)
					return
				}

				fmt.Println()
				printHeading("%s  (more: baotang more %s)", sec.Title, sec.ID)
				if err := printTiles(sec.Items); err != nil && printErr == nil {
					printErr = err
				}
			})
			if err != nil {
				return err
			}

			return printErr
		},
	}

	moreCmd := &cobra.Command{
		Use:   "more <sectionId>",
		Short: "Page through a home section (hot, new_updated, new_added)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			res, err := s.source.FetchMoreItems(cmd.Context(), args[0], pageMeta(cmd, flagMorePage))
			if err != nil {
				return err
			}

			return printPaged(res)
		},
	}
	moreCmd.Flags().IntVar(&flagMorePage, "page", 0, "page to fetch (first page when unset)")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search by title, or list a genre by tag id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagTitle == "" && len(flagTags) == 0 {
				return fmt.Errorf("either --title or --tag is required")
			}

			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			res, err := s.source.Search(cmd.Context(), providers.SearchRequest{
				Title:        flagTitle,
				IncludedTags: flagTags,
			}, pageMeta(cmd, flagSearchPage))
			if err != nil {
				return err
			}

			return printPaged(res)
		},
	}
	searchCmd.Flags().StringVar(&flagTitle, "title", "", "title to search for")
	searchCmd.Flags().StringSliceVar(&flagTags, "tag", nil, "genre tag id (see `baotang tags`)")
	searchCmd.Flags().IntVar(&flagSearchPage, "page", 0, "page to fetch (first page when unset)")

	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List the genre tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			sections, err := s.source.FetchTags(cmd.Context())
			if err != nil {
				return err
			}

			for _, sec := range sections {
				printHeading("%s", sec.Label)
				rows := make([][]string, 0, len(sec.Tags))
				for _, t := range sec.Tags {
					rows = append(rows, []string{t.ID, t.Label})
				}
				if err := printTable([]string{"ID", "Label"}, rows); err != nil {
					return err
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(homeCmd, moreCmd, searchCmd, tagsCmd)
}
