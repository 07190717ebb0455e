package history

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/money-is-time/internal/common"
)

func HistoryAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	svc, err := common.Setup(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer svc.Close()

	scans, err := svc.DB.ListScans(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	if len(scans) == 0 {
		fmt.Println("No scans found")
		return nil
	}

	fmt.Printf("%-6s %-16s %-8s %-10s %-30s\n", "ID", "When", "Matches", "Annotated", "Domain")
	fmt.Println(strings.Repeat("-", 76))
	for _, s := range scans {
		domain := s.Domain
		if domain == "" {
			domain = "(local file)"
		}
		fmt.Printf("%-6d %-16s %-8d %-10d %-30s\n",
			s.ScanID,
			humanize.RelTime(s.ScannedAt, time.Now(), "ago", "from now"),
			s.Matches,
			s.Annotated,
			domain,
		)
	}
	fmt.Printf("\nTotal: %d scans\n", len(scans))

	if c.Bool("details") {
		for _, s := range scans {
			anns, err := svc.DB.GetAnnotations(s.ScanID)
			if err != nil {
				return fmt.Errorf("failed to get annotations: %w", err)
			}
			if len(anns) == 0 {
				continue
			}
			fmt.Printf("\nScan %d:\n", s.ScanID)
			for _, a := range anns {
				fmt.Printf("  %-14s %s -> %.2f %s  [%s]\n", a.AmountRaw, a.Currency, a.Converted, a.TargetCurrency, a.Label)
			}
		}
	}
	return nil
}
