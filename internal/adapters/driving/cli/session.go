package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/famlink/internal/adapters/driven/process"
	"github.com/custodia-labs/famlink/internal/adapters/driven/worker"
	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
)

// session is what the host commands need from a running worker.
type session interface {
	driving.FamilySearchService
	driving.FamilyReader

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// openSession starts a worker for one command. Tests replace it with an
// in-process session.
var openSession = launchSession

// hostLibrary is the --library flag shared by the host commands.
var hostLibrary string

func addLibraryFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&hostLibrary, "library", "", "glob of seed files the worker imports (default worker.library)")
}

func libraryPattern(cmd *cobra.Command) string {
	if cmd.Flags().Changed("library") {
		return hostLibrary
	}
	return settings.Worker.Library
}

// workerArgs builds the worker command line, forwarding the host's
// global flags.
func workerArgs(library string) []string {
	args := []string{"worker", "--mode", domain.WorkerModeIPC.String()}
	if library != "" {
		args = append(args, "--library", library)
	}
	if configDir != "" {
		args = append(args, "--config", configDir)
	}
	if verbose {
		args = append(args, "--verbose")
	}
	return args
}

func launchSession(ctx context.Context, library string) (session, error) {
	supervisor := process.NewSupervisor(process.WithGrace(settings.Worker.StopGrace))
	return worker.Launch(ctx, supervisor, worker.LaunchOptions{
		Executable: settings.Worker.Executable,
		Args:       workerArgs(library),
		Sender:     os.Getenv("USER"),
	})
}

// withSession opens a session for cmd, runs fn, and always closes it.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, libraryPattern(cmd))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(ctx, s)
}
