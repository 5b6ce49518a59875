// kis-daily-orders prints an account's daily order ledger for a date
// range, split-querying the archive endpoint when the range reaches past
// three months.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openkis/gokis/kis/account"
	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/kis/types"
	"github.com/openkis/gokis/pkg/config"
	"github.com/openkis/gokis/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to environment)")
		startFlag  = flag.String("start", "", "range start, YYYY-MM-DD (defaults to 30 days back)")
		endFlag    = flag.String("end", "", "range end, YYYY-MM-DD (defaults to today)")
		sideFlag   = flag.String("side", "", "filter side: buy or sell")
	)
	flag.Parse()

	if err := run(*configPath, *startFlag, *endFlag, *sideFlag); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, startFlag, endFlag, sideFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logger); err != nil {
		return err
	}

	var start, end time.Time
	if startFlag != "" {
		if start, err = parseDate(startFlag); err != nil {
			return err
		}
	}
	if endFlag != "" {
		if end, err = parseDate(endFlag); err != nil {
			return err
		}
	}

	var side types.OrderType
	switch sideFlag {
	case "":
	case "buy":
		side = types.OrderBuy
	case "sell":
		side = types.OrderSell
	default:
		return fmt.Errorf("unknown side %q", sideFlag)
	}

	c, err := client.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	orders, err := account.DailyOrders(ctx, c, types.AccountNumber{}, start, end, side)
	if err != nil {
		return err
	}
	fmt.Println(orders)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, types.TimezoneKST())
}
