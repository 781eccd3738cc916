package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/patchbaygo/internal/launcher"
)

// main starts the patchbay binary that sits next to this launcher. It exits
// with the child's exit code.
func main() {
	prependDir := flag.String("prepend-path", "", "Extra directory to place at the very front of the child's PATH.")
	hold := flag.Bool("hold", false, "Wait for Enter after the application exits, keeping output visible.")
	flag.Parse()

	dir, err := launcher.SelfDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := launcher.Run(ctx, dir, launcher.Options{
		PrependDir: *prependDir,
		Hold:       *hold,
		HoldInput:  os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
