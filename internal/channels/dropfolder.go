package channels

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/fieldgate/loa-worker/internal/messages"
	"github.com/fieldgate/loa-worker/pkg/formatting"
)

const (
	defaultMaxFileSize  = "25MB"
	validationParallism = 4
)

// DropFolderConfig holds drop-folder channel parameters.
type DropFolderConfig struct {
	Dir         string `toml:"dir"`
	MaxFileSize string `toml:"max_file_size"`
}

// DropFolder is a channel ingesting scanned PDF documents from a
// local directory. Each PDF is validated and page-counted on
// connect; a sidecar <name>.pdf.txt file, when present, supplies the
// extracted text body.
type DropFolder struct {
	dir         string
	maxFileSize int64
	files       []pdfFile
	connected   bool
	logger      *slog.Logger
}

type pdfFile struct {
	name      string
	path      string
	sizeBytes int64
	pageCount int
	modTime   time.Time
}

// NewDropFolder creates a drop-folder channel for the configured
// directory.
func NewDropFolder(cfg *DropFolderConfig, logger *slog.Logger) (*DropFolder, error) {
	maxSize := cfg.MaxFileSize
	if maxSize == "" {
		maxSize = defaultMaxFileSize
	}

	limit, err := formatting.ParseBytes(maxSize)
	if err != nil {
		return nil, fmt.Errorf("invalid max_file_size: %w", err)
	}

	return &DropFolder{
		dir:         cfg.Dir,
		maxFileSize: limit,
		logger:      logger.With("system", "channels", "channel", "dropfolder"),
	}, nil
}

// Connect scans the directory and validates each PDF concurrently.
// Oversized or structurally invalid files are logged and skipped.
func (c *DropFolder) Connect(ctx context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read drop folder: %w", err)
	}

	candidates := make([]pdfFile, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.Size() > c.maxFileSize {
			c.logger.Warn(
				"skipping oversized file",
				"file", entry.Name(),
				"size", formatting.FormatBytes(info.Size(), 1),
				"limit", formatting.FormatBytes(c.maxFileSize, 1),
			)
			continue
		}

		candidates = append(candidates, pdfFile{
			name:      entry.Name(),
			path:      filepath.Join(c.dir, entry.Name()),
			sizeBytes: info.Size(),
			modTime:   info.ModTime(),
		})
	}

	valid := make([]pdfFile, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(validationParallism)

	for i, candidate := range candidates {
		g.Go(func() error {
			if err := api.ValidateFile(candidate.path, nil); err != nil {
				c.logger.Warn("skipping invalid pdf", "file", candidate.name, "error", err)
				return nil
			}

			pages, err := api.PageCountFile(candidate.path)
			if err != nil {
				c.logger.Warn("page count failed", "file", candidate.name, "error", err)
				return nil
			}

			candidate.pageCount = pages
			valid[i] = candidate
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	c.files = slices.DeleteFunc(valid, func(f pdfFile) bool {
		return f.name == ""
	})
	c.connected = true

	c.logger.Info("drop folder scanned", "dir", c.dir, "files", len(c.files))
	return nil
}

func (c *DropFolder) Disconnect() error {
	c.files = nil
	c.connected = false
	return nil
}

func (c *DropFolder) Messages(opts FetchOptions) iter.Seq2[*messages.Message, error] {
	return func(yield func(*messages.Message, error) bool) {
		if !c.connected {
			yield(nil, ErrNotConnected)
			return
		}

		count := 0
		yielding := opts.Since == ""

		for _, file := range c.files {
			if !yielding {
				if file.name == opts.Since {
					yielding = true
				}
				continue
			}

			if opts.Limit > 0 && count >= opts.Limit {
				return
			}

			if !yield(c.buildMessage(file), nil) {
				return
			}
			count++
		}
	}
}

func (c *DropFolder) buildMessage(file pdfFile) *messages.Message {
	pages := file.pageCount

	return &messages.Message{
		ID:     "doc_" + strings.TrimSuffix(file.name, filepath.Ext(file.name)),
		Source: messages.SourceDocument,
		Content: &messages.DocumentContent{
			Filename:    file.name,
			ContentType: "application/pdf",
			Body:        c.sidecarText(file),
			PageCount:   &pages,
		},
		ReceivedAt: file.modTime,
		Status:     messages.StatusPending,
		Metadata: map[string]any{
			"size_bytes": file.sizeBytes,
			"path":       file.path,
		},
	}
}

// sidecarText reads OCR output stored alongside the PDF.
func (c *DropFolder) sidecarText(file pdfFile) string {
	data, err := os.ReadFile(file.path + ".txt")
	if err != nil {
		return ""
	}
	return string(data)
}
