package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/asfc-labs/docchat/internal/logger"
)

// settleDelay is how long a file must be quiet before it is ingested.
// Editors and downloads write PDFs in several bursts.
const settleDelay = 2 * time.Second

var watchIngestExisting bool

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new PDF files",
	Long: `Watch a directory and ingest every PDF that is created or modified in
it. A file is ingested once it has stopped changing for a couple of
seconds. Re-saving a file replaces its previous version.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchIngestExisting, "existing", false, "also ingest PDFs already present in the directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ingestService == nil {
		return fmt.Errorf("ingest service not available")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchIngestExisting {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if !entry.IsDir() && isPDF(entry.Name()) {
				if err := uploadOne(cmd, filepath.Join(dir, entry.Name())); err != nil {
					logger.Error("ingest %s: %v", entry.Name(), err)
				}
			}
		}
	}

	cmd.Printf("Watching %s for PDF files. Press Ctrl+C to stop.\n", dir)

	// Pending files settle before ingestion; a new event resets the timer.
	var mu sync.Mutex
	timers := map[string]*time.Timer{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !isPDF(event.Name) {
				continue
			}
			path := event.Name
			mu.Lock()
			if timer, exists := timers[path]; exists {
				timer.Stop()
			}
			timers[path] = time.AfterFunc(settleDelay, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				if err := uploadOne(cmd, path); err != nil {
					logger.Error("ingest %s: %v", filepath.Base(path), err)
				}
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: %v", err)
		}
	}
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
