// Command navinject adds the collapsible mobile navigation panel to static
// HTML pages, in place or from a fetched URL.
//
// Usage examples:
//
//	navinject -w public/                      # every .html under public/, in place
//	navinject index.html > index.out.html     # single file to stdout
//	navinject --url https://example.com/ --out home.html
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poku-e/a1scrap/internal/logging"
	"github.com/poku-e/a1scrap/internal/navinject"
)

var (
	inPlace    bool
	pageURL    string
	outPath    string
	breakpoint int
	timeout    time.Duration
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "navinject [file|dir]...",
	Short:        "Inject the mobile navigation panel into HTML pages",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		var err error
		logger, _, err = logging.New(logging.Options{Level: level, Format: "console"})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVarP(&inPlace, "write", "w", false, "Rewrite files in place")
	rootCmd.Flags().StringVar(&pageURL, "url", "", "Fetch this page instead of reading files")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file for --url or a single input (default stdout)")
	rootCmd.Flags().IntVar(&breakpoint, "breakpoint", navinject.DefaultBreakpoint, "Viewport width in px above which the panel is hidden")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall timeout for --url")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inj, err := navinject.New(navinject.Options{Breakpoint: breakpoint})
	if err != nil {
		return err
	}

	if pageURL != "" {
		if len(args) > 0 {
			return errors.New("give either --url or files, not both")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		src, err := fetch(ctx, httpClient(25*time.Second), pageURL)
		if err != nil {
			return err
		}
		out, changed, err := inj.InjectHTML(src)
		if err != nil {
			return err
		}
		logger.Info("fetched", zap.String("url", pageURL), zap.Bool("changed", changed))
		return emit(cmd, out)
	}

	if len(args) == 0 {
		return errors.New("no input: pass files or directories, or --url")
	}
	if !inPlace {
		if len(args) != 1 {
			return errors.New("without -w exactly one file can be written to stdout or --out")
		}
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		out, _, err := inj.InjectHTML(src)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return emit(cmd, out)
	}

	var total, changed int
	for _, a := range args {
		n, c, err := injectTree(inj, a)
		total += n
		changed += c
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "OK: %d pages, %d changed\n", total, changed)
	return nil
}

func emit(cmd *cobra.Command, b []byte) error {
	if outPath == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	return writeAtomic(outPath, b)
}
