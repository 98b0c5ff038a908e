package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/near-eth-transfer/pkg/app"
	"github.com/chainsafe/near-eth-transfer/pkg/app/watcher"
	"github.com/chainsafe/near-eth-transfer/pkg/config"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = watcher.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Transfer watcher failed: %v\n", err)
		os.Exit(1)
	}
}
