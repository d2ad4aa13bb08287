package downloader

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/brogergvhs/baotang/internal/ui"
)

// Progress receives page counters while a chapter downloads.
type Progress interface {
	Update(done, total int, bytes int64)
	MarkDone()
}

type Downloader struct {
	client     *http.Client
	log        *ui.Logger
	skipBroken bool
	attempts   int
	backoff    time.Duration
}

func New(c *http.Client, log *ui.Logger, skipBroken bool) *Downloader {
	if log == nil {
		log = ui.Discard()
	}

	return &Downloader{
		client:     c,
		log:        log,
		skipBroken: skipBroken,
		attempts:   3,
		backoff:    time.Second,
	}
}

type Result struct {
	Files  []string
	Bytes  int64
	Failed int
}

type chapterState struct {
	mu    sync.Mutex
	done  int
	total int
	bytes int64
	ph    Progress
}

func (cs *chapterState) addBytes(n int64) {
	cs.mu.Lock()
	cs.bytes += n
	cs.ph.Update(cs.done, cs.total, cs.bytes)
	cs.mu.Unlock()
}

func (cs *chapterState) pageDone() {
	cs.mu.Lock()
	cs.done++
	cs.ph.Update(cs.done, cs.total, cs.bytes)
	cs.mu.Unlock()
}

// DownloadPages fetches every page into folder as page_001.ext, page_002.ext...
// Failed pages are retried; if some still fail the call errors unless the
// downloader was built with skipBroken.
func (d *Downloader) DownloadPages(
	ctx context.Context,
	pages []string,
	folder string,
	workers int,
	ph Progress,
) (Result, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return Result{}, err
	}

	total := len(pages)
	workers = max(1, min(workers, total))

	cs := &chapterState{total: total, ph: ph}
	ph.Update(0, total, 0)

	files := make([]string, total)
	var (
		errMu sync.Mutex
		errs  []error
	)

	jobs := make(chan int)
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				out := filepath.Join(folder, fmt.Sprintf("page_%03d%s", i+1, pageExt(pages[i])))

				if err := d.downloadWithRetry(ctx, pages[i], out, cs.addBytes); err != nil {
					d.log.Debugf("page %d of %s failed: %v\n", i+1, folder, err)
					errMu.Lock()
					errs = append(errs, fmt.Errorf("page %d: %w", i+1, err))
					errMu.Unlock()
				} else {
					files[i] = out
				}

				cs.pageDone()
			}
		}()
	}

	var ctxErr error
feed:
	for i := range pages {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}

		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()
	ph.MarkDone()

	res := Result{Bytes: cs.bytes, Failed: len(errs)}
	for _, f := range files {
		if f != "" {
			res.Files = append(res.Files, f)
		}
	}

	if ctxErr != nil {
		return res, ctxErr
	}

	if len(errs) > 0 && !d.skipBroken {
		return res, fmt.Errorf("failed %d/%d pages (use --skip-broken to continue): %w", len(errs), total, errs[0])
	}

	return res, nil
}

func pageExt(raw string) string {
	ext := ""
	if u, err := url.Parse(raw); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}

	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif":
		return ext
	default:
		return ".jpg"
	}
}

// downloadWithRetry reports bytes as they arrive and takes back the bytes of
// every failed attempt, so only successful transfers stay counted.
func (d *Downloader) downloadWithRetry(ctx context.Context, u, output string, progress func(int64)) error {
	var err error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		var got int64
		err = d.download(ctx, u, output, func(n int64) {
			got += n
			progress(n)
		})
		if err == nil {
			return nil
		}
		if got > 0 {
			progress(-got)
		}
		if attempt == d.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * d.backoff):
		}
	}

	return err
}

func (d *Downloader) download(ctx context.Context, u, output string, progress func(int64)) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, _ := mime.ParseMediaType(ct); !strings.HasPrefix(mt, "image/") {
			return fmt.Errorf("unexpected MIME: %s", ct)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(f, &countingReader{r: resp.Body, progress: progress})
	return err
}

type countingReader struct {
	r        io.Reader
	progress func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.progress != nil {
		c.progress(int64(n))
	}

	return n, err
}
