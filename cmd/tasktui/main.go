package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/task-tracker/client"
	"github.com/example/task-tracker/client/viewmodel"
	"github.com/example/task-tracker/tui"
)

func main() {
	configPath := flag.String("config", tui.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := tui.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	api := client.New(cfg.ServerURL)
	vm := viewmodel.NewWithLimit(api, cfg.WindowSize)

	p := tea.NewProgram(tui.New(vm), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
