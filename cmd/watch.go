package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	trek "github.com/TFMV/trek/internal/visit"
	"github.com/spf13/cobra"
)

var (
	// Watch command options
	watchRecursive bool
	watchWorkers   int
)

// printingVisitor reports every entry the watcher hands it.
type printingVisitor struct{}

func (printingVisitor) VisitFile(path string, meta trek.Metadata) {
	fmt.Printf("FILE %s (dev=%d ino=%d)\n", path, meta.Dev, meta.Ino)
}

func (printingVisitor) VisitNonFile(path string, meta trek.Metadata) {
	fmt.Printf("%s %s\n", meta.Type, path)
}

func (printingVisitor) EnterDir(path string, meta trek.Metadata) bool {
	fmt.Printf("DIR  %s\n", path)
	return true
}

func (printingVisitor) ExitDir(string, trek.Metadata) {}

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path ...]",
	Short: "Watch for newly created filesystem entries",
	Long: `Watch the given paths and report entries created while watching.

Examples:
  trek watch /path/to/watch
  trek watch --recursive /path/one /path/two`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			paths = []string{wd}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %d path(s) for new entries...\n", len(paths))
		fmt.Println("Press Ctrl+C to exit.")

		return trek.WatchPaths(ctx, paths, printingVisitor{}, trek.WatchOptions{
			Recursive:  watchRecursive,
			NumWorkers: watchWorkers,
			LogLevel:   logLevel(),
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	// Define flags for the watch command
	watchCmd.Flags().BoolVar(&watchRecursive, "recursive", false, "Watch subdirectories recursively")
	watchCmd.Flags().IntVar(&watchWorkers, "workers", trek.DefaultWorkers, "Workers for the initial registration walk")
}
