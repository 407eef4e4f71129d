package widget

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Executor retrieves files. The primary path reads the whole payload into a
// staged temp file and publishes it under the caller-controlled filename; on
// transport failure it falls back to a single direct streaming fetch saved
// under the URL-derived name, losing the custom filename.
type Executor struct {
	client  *http.Client
	destDir string
	// cleanupDelay is how long the staged temp copy lives after publish.
	cleanupDelay time.Duration
}

// NewExecutor creates a transfer executor saving into destDir
func NewExecutor(destDir string) *Executor {
	jar, _ := cookiejar.New(nil)
	return &Executor{
		client:       &http.Client{Jar: jar},
		destDir:      destDir,
		cleanupDelay: time.Second,
	}
}

// Download implements Transfer. A response with a failure status aborts
// silently without the fallback; only transport-level failures fall back.
// There is no retry policy, a single attempt each way.
func (x *Executor) Download(ctx context.Context, fileURL, filename string) error {
	err := x.blobDownload(ctx, fileURL, filename)
	if err == nil {
		return nil
	}
	return x.fallbackDownload(ctx, fileURL)
}

func (x *Executor) blobDownload(ctx context.Context, fileURL, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Silent abort, no fallback. Known gap carried over from the
		// shipped behavior.
		return nil
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	staged, err := os.CreateTemp(x.destDir, ".dl-*")
	if err != nil {
		return fmt.Errorf("stage temp file: %w", err)
	}
	stagedPath := staged.Name()
	if _, err := staged.Write(blob); err != nil {
		staged.Close()
		os.Remove(stagedPath)
		return fmt.Errorf("write staged file: %w", err)
	}
	if err := staged.Close(); err != nil {
		os.Remove(stagedPath)
		return fmt.Errorf("close staged file: %w", err)
	}

	final := filepath.Join(x.destDir, sanitizeLocalName(filename))
	if err := copyFile(stagedPath, final); err != nil {
		os.Remove(stagedPath)
		return fmt.Errorf("publish download: %w", err)
	}

	time.AfterFunc(x.cleanupDelay, func() { os.Remove(stagedPath) })
	return nil
}

// fallbackDownload streams straight to disk under the URL-derived name
func (x *Executor) fallbackDownload(ctx context.Context, fileURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("build fallback request: %w", err)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("fallback fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fallback fetch returned %d", resp.StatusCode)
	}

	final := filepath.Join(x.destDir, urlBaseName(fileURL))
	out, err := os.Create(final)
	if err != nil {
		return fmt.Errorf("create fallback file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("stream fallback file: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// urlBaseName derives a local filename from the URL path
func urlBaseName(fileURL string) string {
	if u, err := url.Parse(fileURL); err == nil {
		if base := filepath.Base(u.Path); base != "." && base != "/" && base != "" {
			return sanitizeLocalName(base)
		}
	}
	return "download"
}

// sanitizeLocalName strips path components from a filename
func sanitizeLocalName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base("/" + name)
	if name == "/" || name == "." || name == "" {
		return "download"
	}
	return name
}
