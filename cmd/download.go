package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/brogergvhs/baotang/internal/chapters"
	"github.com/brogergvhs/baotang/internal/downloader"
	"github.com/brogergvhs/baotang/internal/ui"
	"github.com/brogergvhs/baotang/internal/util"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	// selection
	flagChapter string
	flagRange   string
	flagList    string

	// runtime
	flagOutput         string
	flagImageWorkers   int
	flagChapterWorkers int
	flagKeepFolders    bool
	flagDryRun         bool
	flagSkipBroken     bool
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download <mangaId>",
		Short: "Download manga chapters and produce CBZ files. Uses the defaults from the selected config, overwritten by CLI flags",
		Args:  cobra.ExactArgs(1),
		RunE:  runDownload,
	}

	// selection
	downloadCmd.Flags().StringVar(&flagChapter, "chapter", "", "download a single chapter by number, or by position when no number matches (e.g. 5 or 28.5)")
	downloadCmd.Flags().StringVar(&flagRange, "range", "", "download chapters numbered within a range (e.g. 5-12, 20- or -3)")
	downloadCmd.Flags().StringVar(&flagList, "list", "", "download specific chapter numbers (e.g. 1,3,5.5)")

	// runtime
	downloadCmd.Flags().StringVar(&flagOutput, "output", "", "output folder for CBZ files")
	downloadCmd.Flags().IntVar(&flagImageWorkers, "image-workers", 5, "parallel image downloads per chapter")
	downloadCmd.Flags().IntVar(&flagChapterWorkers, "chapter-workers", 2, "parallel chapter downloads")
	downloadCmd.Flags().BoolVar(&flagKeepFolders, "keep-folders", false, "keep temporary folders")
	downloadCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show what would be downloaded, don’t download")
	downloadCmd.Flags().BoolVar(&flagSkipBroken, "skip-broken", false, "skip failed images instead of failing the whole chapter")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	opts := baseOptions()
	opts.Output = flagOutput
	opts.KeepFolders = flagKeepFolders
	opts.SkipBroken = flagSkipBroken
	if cmd.Flags().Changed("image-workers") {
		opts.ImageWorkers = flagImageWorkers
	}
	if cmd.Flags().Changed("chapter-workers") {
		opts.ChapterWorkers = flagChapterWorkers
	}

	s, err := newSession(opts)
	if err != nil {
		return err
	}
	cfg := s.cfg

	if cfg.Debug {
		fmt.Println("Full config:")
		cfg.Print()
		fmt.Println()
	}

	ctx := cmd.Context()
	mangaID := args[0]

	raw, err := s.source.FetchChapters(ctx, mangaID)
	if err != nil {
		return err
	}

	all := chapters.Wrap(raw)
	chapters.SortAscending(all)

	sel := chapters.Selection{Chapter: flagChapter, Range: flagRange, List: flagList}

	var selected []chapters.Chapter
	if sel.Empty() {
		fmt.Printf("Found %d chapters on the site.\n\n", len(all))
		selected, err = pickChapters(all)
	} else {
		selected, err = chapters.Select(all, sel)
	}
	if err != nil {
		return err
	}

	if len(selected) == 0 {
		return fmt.Errorf("no chapters selected")
	}

	if flagDryRun {
		fmt.Printf("Dry-run: %d chapters selected.\n\n", len(selected))
		rows := make([][]string, 0, len(selected))
		for i, ch := range selected {
			rows = append(rows, []string{strconv.Itoa(i + 1), ch.Label(), ch.OutputCBZPath(cfg.Output), ch.ID})
		}
		return printTable([]string{"#", "Chapter", "Output", "ID"}, rows)
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}

	stats, elapsed := downloadChapters(ctx, s, mangaID, selected)

	if ctx.Err() != nil {
		removed, err := util.CleanupUnfinishedTempFolders(cfg.Output)
		if err != nil {
			s.log.Warnf("cleanup: %v\n", err)
		}
		for _, r := range removed {
			s.log.Debugf("removed %s\n", r)
		}
		if util.RemoveIfEmpty(cfg.Output) {
			s.log.Debugf("removed empty output folder %s\n", cfg.Output)
		}
	}

	fmt.Println()
	fmt.Println("Download Summary:")
	fmt.Printf("Chapters: %d/%d\n", stats.Chapters.Load(), len(selected))
	fmt.Printf("Pages:    %d\n", stats.Pages.Load())
	if failed := stats.FailedPages.Load(); failed > 0 {
		fmt.Printf("Skipped:  %d\n", failed)
	}
	fmt.Printf("Data:     %s\n", util.Human(stats.Bytes.Load()))
	fmt.Printf("Time:     %s\n", elapsed.Round(time.Second))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	if stats.Chapters.Load() < int64(len(selected)) {
		return fmt.Errorf("%d chapters failed", int64(len(selected))-stats.Chapters.Load())
	}

	fmt.Println("\nAll done.")
	return nil
}

func downloadChapters(ctx context.Context, s *session, mangaID string, selected []chapters.Chapter) (*ui.Stats, time.Duration) {
	cfg := s.cfg

	pm := ui.NewProgressManager()
	stats := &ui.Stats{}
	dl := downloader.New(s.client, s.log, cfg.SkipBroken)
	start := time.Now()

	sem := make(chan struct{}, max(1, cfg.ChapterWorkers))
	var wg sync.WaitGroup

	for _, ch := range selected {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := downloadChapter(ctx, s, dl, pm, stats, mangaID, ch); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Errorf("Chapter %s failed: %v\n", ch.Label(), err)
			}
		}()
	}
	wg.Wait()
	pm.Wait()

	return stats, time.Since(start)
}

func downloadChapter(
	ctx context.Context,
	s *session,
	dl *downloader.Downloader,
	pm *ui.ProgressManager,
	stats *ui.Stats,
	mangaID string,
	ch chapters.Chapter,
) error {
	cfg := s.cfg
	handle := pm.Register("Ch." + ch.Label())

	details, err := s.source.FetchChapterDetails(ctx, mangaID, ch.ID)
	if err != nil {
		handle.Abort()
		return err
	}
	if len(details.Pages) == 0 {
		handle.Abort()
		return fmt.Errorf("no pages found")
	}

	tmpFolder := filepath.Join(cfg.Output, ch.FolderName()+"_tmp")

	res, err := dl.DownloadPages(ctx, details.Pages, tmpFolder, max(1, cfg.ImageWorkers), handle)
	if err != nil {
		util.CleanupFolder(tmpFolder)
		return err
	}

	if err := util.CreateCBZ(res.Files, ch.OutputCBZPath(cfg.Output)); err != nil {
		util.CleanupFolder(tmpFolder)
		return err
	}

	if !cfg.KeepFolders {
		util.CleanupFolder(tmpFolder)
	}

	stats.Chapters.Add(1)
	stats.Pages.Add(int64(len(res.Files)))
	stats.FailedPages.Add(int64(res.Failed))
	stats.Bytes.Add(res.Bytes)
	return nil
}

// pickChapters asks which chapters to fetch when no selection flag was given.
func pickChapters(all []chapters.Chapter) ([]chapters.Chapter, error) {
	items := make([]string, 0, len(all)+1)
	items = append(items, fmt.Sprintf("All chapters (%d)", len(all)))
	for _, ch := range all {
		label := "Ch." + ch.Label()
		if ch.Name != "" {
			label += "  " + ch.Name
		}
		items = append(items, label)
	}

	prompt := promptui.Select{
		Label: "Select chapters",
		Items: items,
		Size:  15,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled")
	}

	if idx == 0 {
		return all, nil
	}
	return []chapters.Chapter{all[idx-1]}, nil
}
