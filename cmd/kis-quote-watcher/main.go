// kis-quote-watcher subscribes to the realtime execution stream for one
// or more symbols and prints every tick until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/kis/ws"
	"github.com/openkis/gokis/pkg/config"
	"github.com/openkis/gokis/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to environment)")
	flag.Parse()

	symbols := flag.Args()
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "usage: kis-quote-watcher [-config file] SYMBOL...")
		os.Exit(2)
	}

	if err := run(*configPath, symbols); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string, symbols []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logger); err != nil {
		return err
	}

	api, err := client.New(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt := ws.NewClient(api, nil, nil)
	if err := rt.Start(ctx); err != nil {
		return err
	}
	defer rt.Stop()

	if err := rt.Subscribe(symbols...); err != nil {
		return err
	}
	logger.Infof("watching %d symbols", rt.SubscriptionCount())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sig:
			return nil
		case err := <-rt.Errors():
			logger.Warnf("realtime: %v", err)
		case tick := <-rt.Prices():
			fmt.Printf("%s  %s  %s (%s %s)  vol=%s\n",
				tick.Time.Format("15:04:05"), tick.Symbol,
				tick.Price, tick.Sign, tick.Change, tick.AccVolume)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}
