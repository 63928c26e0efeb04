package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/famlink/internal/adapters/driven/library"
	"github.com/custodia-labs/famlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/famlink/internal/adapters/driving/ipc"
	mcpserver "github.com/custodia-labs/famlink/internal/adapters/driving/mcp"
	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/services"
	"github.com/custodia-labs/famlink/internal/logger"
	"github.com/custodia-labs/famlink/internal/protocol"
)

var (
	workerMode    string
	workerLibrary string
	workerWatch   bool
)

// The worker's protocol stream. Tests swap these for pipes.
var (
	workerStdin  io.Reader = os.Stdin
	workerStdout io.Writer = os.Stdout
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a worker that answers queries on stdio",
	Long: `Runs the worker side of famlink. The worker keeps the family catalogue
in memory and answers one query per line on stdin with one response per
line on stdout. Logs go to stderr only.

Modes:
  ipc  line-delimited JSON queries (used by the famlink host commands)
  mcp  Model Context Protocol over stdio, for AI assistants

The worker stops when stdin closes or on SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&workerMode, "mode", "", "ipc or mcp (default worker.mode)")
	workerCmd.Flags().StringVar(&workerLibrary, "library", "", "glob of seed files to import at start (default worker.library)")
	workerCmd.Flags().BoolVar(&workerWatch, "watch", false, "re-import seed files when they change (default worker.watch)")
	rootCmd.AddCommand(workerCmd)
}

// workerRuntime is the in-process catalogue a worker serves.
type workerRuntime struct {
	store   *memory.FamilyStore
	search  *services.SearchService
	library *services.LibraryService
}

func newWorkerRuntime(s *domain.Settings) *workerRuntime {
	store := memory.NewFamilyStore(memory.WithShards(s.Store.Shards))
	return &workerRuntime{
		store:   store,
		search:  services.NewSearchService(store, s.Search.MaxResults),
		library: services.NewLibraryService(store, services.WithImportPoolSize(s.Import.PoolSize)),
	}
}

// importSeeds loads pattern and imports every family it yields.
func (w *workerRuntime) importSeeds(ctx context.Context, pattern string) error {
	seed, err := library.Load(pattern)
	if err != nil {
		return fmt.Errorf("loading library: %w", err)
	}

	report, err := w.library.Import(ctx, seed.Families)
	if err != nil {
		return fmt.Errorf("importing library: %w", err)
	}
	for _, msg := range report.Errors {
		logger.Warn("seed rejected: %s", msg)
	}
	logger.Info("imported %d families from %d files (%d rejected)", report.Imported, len(seed.Files), report.Rejected)
	return nil
}

func runWorker(cmd *cobra.Command, _ []string) error {
	mode := settings.Worker.Mode
	if cmd.Flags().Changed("mode") {
		mode = domain.WorkerMode(workerMode)
	}
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown worker mode %q", domain.ErrInvalidInput, mode)
	}

	pattern := settings.Worker.Library
	if cmd.Flags().Changed("library") {
		pattern = workerLibrary
	}
	watch := settings.Worker.Watch
	if cmd.Flags().Changed("watch") {
		watch = workerWatch
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.SetPrefix(fmt.Sprintf("%s %d", mode, os.Getpid()))
	logger.Section("Worker")
	logger.Debug("starting, library %q, watch %t", pattern, watch)

	rt := newWorkerRuntime(settings)
	if pattern != "" {
		if err := rt.importSeeds(ctx, pattern); err != nil {
			return err
		}
		if watch {
			watcher := library.NewWatcher(pattern, library.DefaultDebounce, func(ctx context.Context) error {
				return rt.importSeeds(ctx, pattern)
			})
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("watching library: %w", err)
			}
		}
	}

	switch mode {
	case domain.WorkerModeMCP:
		return rt.serveMCP(ctx)
	default:
		return rt.serveIPC(ctx)
	}
}

func (w *workerRuntime) serveIPC(ctx context.Context) error {
	dispatcher, err := ipc.NewDispatcher(&ipc.Ports{
		Search:  w.search,
		Library: w.library,
		Store:   w.store,
	}, settings.Access)
	if err != nil {
		return err
	}

	server := ipc.NewServer(protocol.NewChannel(workerStdin, workerStdout), dispatcher)
	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("ipc server: %w", err)
	}
	logger.Debug("worker %d stopped", os.Getpid())
	return nil
}

func (w *workerRuntime) serveMCP(ctx context.Context) error {
	server, err := mcpserver.NewServer(&mcpserver.Ports{
		Search:  w.search,
		Library: w.library,
	}, mcpserver.WithVersion(version))
	if err != nil {
		return err
	}
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
