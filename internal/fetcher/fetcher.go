// Package fetcher downloads queued attachment files to local disk.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// Options configures a Fetcher.
type Options struct {
	Dir              string
	Timeout          time.Duration
	RatePerSecond    float64
	Burst            int
	MaxDownloadBytes int64
	UserAgent        string
}

// Fetcher claims queued attachments, downloads them and records the
// resulting file path. Downloads happen outside any database
// transaction so a slow remote host never holds the store.
type Fetcher struct {
	store     *records.Store
	client    *http.Client
	limiter   *rate.Limiter
	dir       string
	maxBytes  int64
	userAgent string
}

// New creates a Fetcher writing files under opts.Dir.
func New(store *records.Store, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 4
	}
	if opts.MaxDownloadBytes <= 0 {
		opts.MaxDownloadBytes = 32 << 20
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "genealogy-memory/1.0"
	}

	return &Fetcher{
		store: store,
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		dir:       opts.Dir,
		maxBytes:  opts.MaxDownloadBytes,
		userAgent: opts.UserAgent,
	}
}

// Result reports the outcome for one queued attachment.
type Result struct {
	AttachmentID string `json:"attachment_id"`
	URL          string `json:"url,omitempty"`
	SavedPath    string `json:"saved_path,omitempty"`
	Skipped      bool   `json:"skipped,omitempty"`
	Error        string `json:"error,omitempty"`
}

// FetchQueued downloads every queued attachment for a person. One
// failed download never aborts the batch; failures are reported
// per attachment and the claim is released so a later call can retry.
func (f *Fetcher) FetchQueued(ctx context.Context, personID string) ([]Result, error) {
	queue, err := f.store.ListFetchQueue(personID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachments dir: %w", err)
	}

	results := make([]Result, 0, len(queue))
	for _, att := range queue {
		res := Result{AttachmentID: att.ID}
		if att.DownloadURL != nil {
			res.URL = *att.DownloadURL
		}

		claimed, err := f.store.ClaimAttachment(att.ID)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		if !claimed {
			res.Skipped = true
			results = append(results, res)
			continue
		}

		path, fileType, err := f.download(ctx, att.ID, res.URL)
		if err != nil {
			res.Error = fmt.Errorf("%w: %v", records.ErrFetchFailed, err).Error()
			if relErr := f.store.ReleaseAttachmentClaim(att.ID); relErr != nil {
				res.Error += "; release claim: " + relErr.Error()
			}
			results = append(results, res)
			continue
		}

		if err := f.store.MarkAttachmentFetched(att.ID, path, fileType); err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		res.SavedPath = path
		results = append(results, res)
	}

	return results, nil
}

// download retrieves one URL to <dir>/<attachment id>.bin.
func (f *Fetcher) download(ctx context.Context, attachmentID, rawURL string) (string, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	path := filepath.Join(f.dir, attachmentID+".bin")
	out, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}

	_, err = io.Copy(out, io.LimitReader(resp.Body, f.maxBytes))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("write body: %w", err)
	}

	return path, fileTypeFor(resp.Header.Get("Content-Type")), nil
}

func fileTypeFor(contentType string) string {
	ct := strings.TrimSpace(contentType)
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ct == "" {
		return "binary"
	}
	return ct
}
