package settings

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/money-is-time/internal/common"
	"github.com/dtnitsch/money-is-time/pkg/duration"
	settingspkg "github.com/dtnitsch/money-is-time/pkg/settings"
)

type settingsView struct {
	Salary       float64  `yaml:"salary"`
	SalaryType   string   `yaml:"salaryType"`
	Currency     string   `yaml:"currency"`
	HoursPerDay  float64  `yaml:"hoursPerDay"`
	DaysPerMonth float64  `yaml:"daysPerMonth"`
	Enabled      bool     `yaml:"enabled"`
	Language     string   `yaml:"language"`
	Blacklist    []string `yaml:"blacklist"`
	HourlyWage   string   `yaml:"hourlyWage"`
}

func ShowAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	svc, err := common.Setup(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer svc.Close()

	s, err := svc.Settings.Settings(c.Context)
	if err != nil {
		logger.Error("failed to load settings", "error", err)
		os.Exit(2)
	}

	domains := s.Domains()
	sort.Strings(domains)
	view := settingsView{
		Salary:       s.Salary.Salary,
		SalaryType:   string(s.Salary.SalaryType),
		Currency:     s.Salary.Currency,
		HoursPerDay:  s.Salary.HoursPerDay,
		DaysPerMonth: s.Salary.DaysPerMonth,
		Enabled:      s.Enabled,
		Language:     s.Language,
		Blacklist:    domains,
	}
	if wage, err := duration.HourlyWage(s.Salary); err == nil {
		view.HourlyWage = fmt.Sprintf("%.2f %s", wage, s.Salary.Currency)
	} else {
		view.HourlyWage = "not configured"
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return enc.Close()
}

func SetAction(c *cli.Context) error {
	if c.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: mit settings set <key> <value>\nKeys: %s\n", strings.Join(settingspkg.Keys, ", "))
		os.Exit(1)
	}

	logger := common.NewLogger(c)
	svc, err := common.Setup(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer svc.Close()

	key, value := c.Args().Get(0), c.Args().Get(1)
	if err := svc.Settings.Set(key, value); err != nil {
		if errors.Is(err, settingspkg.ErrUnknownKey) {
			fmt.Fprintf(os.Stderr, "Error: %v\nKeys: %s\n", err, strings.Join(settingspkg.Keys, ", "))
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Setting saved", "key", key)
	return nil
}

func ExcludeAction(c *cli.Context) error {
	return toggleDomain(c, true)
}

func IncludeAction(c *cli.Context) error {
	return toggleDomain(c, false)
}

func toggleDomain(c *cli.Context, exclude bool) error {
	if c.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one domain is required")
		os.Exit(1)
	}

	logger := common.NewLogger(c)
	svc, err := common.Setup(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer svc.Close()

	domain := strings.ToLower(strings.TrimSpace(c.Args().First()))
	if _, host, err := common.ParseURL(domain); err == nil {
		domain = host
	}

	if exclude {
		err = svc.Settings.Exclude(c.Context, domain)
	} else {
		err = svc.Settings.Include(c.Context, domain)
	}
	if err != nil {
		logger.Error("failed to update blacklist", "domain", domain, "error", err)
		os.Exit(2)
	}

	logger.Info("Blacklist updated", "domain", domain, "excluded", exclude)
	return nil
}
