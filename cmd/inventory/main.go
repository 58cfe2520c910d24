package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rogerio-castellano/inventory-cli/internal/cli"
	"github.com/rogerio-castellano/inventory-cli/internal/shell"
)

func main() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go cli.FarewellOnInterrupt(sigs, os.Stdout, os.Exit)

	if err := cli.NewRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		shell.Farewell(os.Stdout)
		os.Exit(1)
	}
}
