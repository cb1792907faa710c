package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrescamacho/factorysim-go/internal/adapters/cli"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/config"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/pidfile"
)

func main() {
	configFlag := flag.String("config", "", "Path to config.yaml (default: search ., ./configs, /etc/factorysim)")
	flag.Parse()

	fmt.Println("factorysim session server")
	fmt.Println("=========================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Server.PIDFile)
	pf := pidfile.New(cfg.Server.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ready := make(chan string, 1)
	go func() {
		if addr, ok := <-ready; ok {
			fmt.Printf("\n✓ Listening on ws://%s/ws\n", addr)
			fmt.Println("Press Ctrl+C to stop")
		}
	}()

	if err := cli.Serve(ctx, cfg, ready); err != nil {
		// log.Fatalf would skip the deferred PID file release
		log.Printf("Fatal error: %v", err)
		stop()
		_ = pf.Release()
		os.Exit(1)
	}
	fmt.Println("\nServer stopped")
}
