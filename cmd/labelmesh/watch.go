package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/labelmesh/utils"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchOpts     renderOptions
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [script]",
	Short: "Render the script again every time it is saved",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	addRenderFlags(watchCmd, &watchOpts)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Delay between the last write and the render")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	path := args[0]
	w := cmd.OutOrStdout()

	var mu sync.Mutex
	rerender := func(string) {
		mu.Lock()
		defer mu.Unlock()

		start := time.Now()
		s, regions, err := render(path, watchOpts, logger)
		if err != nil {
			logger.Error("render failed", zap.String("script", path), zap.Error(err))
			fmt.Fprintf(w, "%s %v\n", aurora.Red("✗"), err)
			return
		}
		fmt.Fprintf(w, "%s %s: %d triangles, %d regions in %s\n", aurora.Green("✓"), path,
			len(s.mesh.Triangles()), len(regions), utils.FormatTime(time.Since(start)))
		printStats(w, s.stats)
	}

	watcher, err := utils.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Watch([]string{path}, rerender); err != nil {
		return err
	}
	watcher.Start()

	rerender(path)
	fmt.Fprintf(w, "Watching %s, press Ctrl+C to stop\n", aurora.Cyan(path))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
