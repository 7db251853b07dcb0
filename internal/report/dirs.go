// Package report owns the run's output directory: the download folders the
// browser saves into and the per-scenario results file.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// DownloadsDirName is the folder under the report directory that holds one
// download folder per browser.
const DownloadsDirName = "downloads"

// Layout resolves paths under the report directory.
type Layout struct {
	fs   afero.Fs
	root string
}

// NewLayout returns the layout rooted at root on fs. A relative root is made
// absolute so the browser saves downloads where VerifyFileDownloaded looks.
func NewLayout(fs afero.Fs, root string) *Layout {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Layout{fs: fs, root: root}
}

// Root is the report directory itself.
func (l *Layout) Root() string { return l.root }

// DownloadsDir is <root>/downloads.
func (l *Layout) DownloadsDir() string {
	return filepath.Join(l.root, DownloadsDirName)
}

// BrowserDownloadsDir is the folder browser saves downloads into.
func (l *Layout) BrowserDownloadsDir(browser string) string {
	return filepath.Join(l.DownloadsDir(), browser)
}

// Prepare creates the downloads folder and one folder per browser. Existing
// folders and their contents are left alone.
func (l *Layout) Prepare(browsers ...string) error {
	dirs := []string{l.DownloadsDir()}
	for _, b := range browsers {
		dirs = append(dirs, l.BrowserDownloadsDir(b))
	}
	for _, dir := range dirs {
		if err := l.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}
	return nil
}
