package cmd

import (
	"fmt"
	"strings"

	"github.com/brogergvhs/baotang/internal/providers"

	"github.com/spf13/cobra"
)

func init() {
	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show the source descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			info := s.source.Info()
			printHeading("%s %s", info.Name, info.Version)
			printField("Author", info.Author)
			printField("Author site", info.AuthorWebsite)
			printField("Website", info.WebsiteBaseURL)
			printField("Description", info.Description)
			printField("Rating", string(info.ContentRating))
			printField("Icon", info.Icon)

			var tags []string
			for _, t := range info.SourceTags {
				tags = append(tags, fmt.Sprintf("%s (%s)", t.Text, t.Type))
			}
			printField("Tags", strings.Join(tags, ", "))
			return nil
		},
	}

	shareCmd := &cobra.Command{
		Use:   "share <mangaId>",
		Short: "Print the shareable URL of a manga",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			fmt.Println(s.source.ShareURL(args[0]))
			return nil
		},
	}

	detailsCmd := &cobra.Command{
		Use:   "details <mangaId>",
		Short: "Show the details of a manga",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(baseOptions())
			if err != nil {
				return err
			}

			m, err := s.source.FetchMangaDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printManga(m)
			return nil
		},
	}

	rootCmd.AddCommand(infoCmd, shareCmd, detailsCmd)
}

func printManga(m *providers.Manga) {
	printHeading("%s", strings.Join(m.Titles, " / "))
	printField("ID", m.ID)
	printField("Author", m.Author)
	printField("Artist", m.Artist)
	printField("Status", m.Status.String())
	printField("Cover", m.Image)
	printField("Genres", joinTags(m.Tags))
	if m.Hentai {
		printField("Hentai", "yes")
	}

	if m.Description != "" {
		fmt.Println()
		fmt.Println(m.Description)
	}
}
