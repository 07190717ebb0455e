package rates

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/money-is-time/internal/common"
)

func RatesAction(c *cli.Context) error {
	if c.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: mit rates <BASE> [--to CODE,...]")
		os.Exit(1)
	}

	logger := common.NewLogger(c)
	svc, err := common.Setup(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer svc.Close()

	base := strings.ToUpper(c.Args().First())
	snap := svc.Rates.Snapshot(c.Context, base)
	if snap.Failed {
		logger.Error("no rates available", "base", base)
		os.Exit(2)
	}

	codes := c.StringSlice("to")
	if len(codes) == 0 {
		for code := range snap.Rates {
			codes = append(codes, code)
		}
		sort.Strings(codes)
	}

	fmt.Printf("Base: %s (fetched %s)\n", base, humanize.RelTime(snap.FetchedAt, time.Now(), "ago", "from now"))
	fmt.Println(strings.Repeat("-", 32))
	for _, code := range codes {
		code = strings.ToUpper(code)
		rate, err := svc.Rates.Rate(c.Context, base, code)
		if err != nil {
			fmt.Printf("%-6s %s\n", code, "unavailable")
			continue
		}
		fmt.Printf("%-6s %s\n", code, humanize.FormatFloat("#,###.######", rate))
	}
	return nil
}
