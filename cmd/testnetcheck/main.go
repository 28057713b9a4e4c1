package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"binance-trade/internal/config"
	"binance-trade/internal/exchange/binance"
)

type checkStatus string

const (
	statusPass checkStatus = "PASS"
	statusFail checkStatus = "FAIL"
)

type checkResult struct {
	Name       string      `json:"name"`
	Status     checkStatus `json:"status"`
	DurationMs int64       `json:"duration_ms"`
	Detail     string      `json:"detail,omitempty"`
	Error      string      `json:"error,omitempty"`
	ErrorKind  string      `json:"error_kind,omitempty"`
}

type report struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Mode       config.Mode   `json:"mode"`
	BaseURL    string        `json:"base_url"`
	Symbol     string        `json:"symbol"`
	Checks     []checkResult `json:"checks"`
}

func (r report) failed() bool {
	for _, c := range r.Checks {
		if c.Status == statusFail {
			return true
		}
	}
	return false
}

func main() {
	var (
		configPath   string
		envPath      string
		timeoutSec   int
		outJSONPath  string
		allowLiveRun bool
		checkFlag    string
	)
	flag.StringVar(&configPath, "config", "config/config.yaml", "config yaml path")
	flag.StringVar(&envPath, "env", ".env", "optional dotenv file with BINANCE_API_KEY / BINANCE_API_SECRET")
	flag.IntVar(&timeoutSec, "timeout-sec", 60, "total timeout seconds")
	flag.StringVar(&outJSONPath, "out-json", "", "optional output report path")
	flag.BoolVar(&allowLiveRun, "allow-live", false, "allow running checks when mode=live")
	flag.StringVar(&checkFlag, "check", "default", "checks to run: default | all | comma list (account,orders,test_order,trades,wallet,user_stream,lifecycle)")
	flag.Parse()

	if err := loadEnvFile(envPath); err != nil {
		fatal(err.Error())
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err.Error())
	}
	config.InitLogger(cfg.Log.Level, cfg.Log.Format)
	logger := config.NewLogger("testnetcheck")

	if cfg.Mode == config.ModeLive && !allowLiveRun {
		fatal("mode=live blocked by default; set -allow-live=true to continue")
	}
	checks, err := parseCheckFlag(checkFlag)
	if err != nil {
		fatal(err.Error())
	}
	if timeoutSec < 10 {
		timeoutSec = 10
	}

	client, err := binance.NewClient(cfg.Exchange)
	if err != nil {
		fatal(err.Error())
	}
	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("base_url", client.BaseURL()).
		Str("symbol", cfg.Check.Symbol).
		Msg("starting checks")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	chk := &checker{client: client, cfg: cfg.Check, now: time.Now}
	r := report{
		StartedAt: time.Now().UTC(),
		Mode:      cfg.Mode,
		BaseURL:   client.BaseURL(),
		Symbol:    cfg.Check.Symbol,
	}
	runChecks(ctx, os.Stdout, &r, chk, checks)
	if err := chk.cleanup(); err != nil {
		logger.Error().Err(err).Msg("lifecycle order cleanup failed")
	}
	r.FinishedAt = time.Now().UTC()
	printSummary(os.Stdout, r)

	if outJSONPath != "" {
		if err := writeReport(outJSONPath, r); err != nil {
			fatal(err.Error())
		}
		fmt.Printf("report written: %s\n", outJSONPath)
	}
	if r.failed() {
		os.Exit(1)
	}
}

func runChecks(ctx context.Context, out io.Writer, r *report, chk *checker, checks selectedChecks) {
	run := func(name string, fn func(context.Context) (string, error)) {
		start := time.Now()
		detail, err := fn(ctx)
		cr := checkResult{
			Name:       name,
			DurationMs: time.Since(start).Milliseconds(),
			Detail:     detail,
		}
		if err != nil {
			cr.Status = statusFail
			cr.Error = err.Error()
			cr.ErrorKind = errorKind(err)
		} else {
			cr.Status = statusPass
		}
		r.Checks = append(r.Checks, cr)
		if cr.Status == statusPass {
			fmt.Fprintf(out, "[PASS] %s (%dms)", name, cr.DurationMs)
			if cr.Detail != "" {
				fmt.Fprintf(out, " - %s", cr.Detail)
			}
			fmt.Fprintln(out)
		} else {
			fmt.Fprintf(out, "[FAIL] %s (%dms) - %s\n", name, cr.DurationMs, cr.Error)
		}
	}

	if checks.account {
		run("account", chk.checkAccount)
	}
	if checks.orders {
		run("orders", chk.checkOrders)
	}
	if checks.testOrder {
		run("test_order", chk.checkTestOrder)
	}
	if checks.trades {
		run("trades", chk.checkTrades)
	}
	if checks.wallet {
		run("wallet", chk.checkWallet)
	}
	if checks.userStream {
		run("user_stream", chk.checkUserStream)
	}
	if checks.lifecycle {
		run("order_lifecycle_place_query_cancel", chk.checkLifecycle)
	}
}

func errorKind(err error) string {
	switch {
	case binance.IsConfigError(err):
		return "config"
	case binance.IsTransportError(err):
		return "transport"
	}
	if apiErr, ok := binance.AsAPIError(err); ok {
		return fmt.Sprintf("api(%d)", apiErr.Code)
	}
	return "other"
}

func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func printSummary(out io.Writer, r report) {
	pass := 0
	fail := 0
	for _, c := range r.Checks {
		if c.Status == statusPass {
			pass++
		} else {
			fail++
		}
	}
	fmt.Fprintf(out, "\nsummary mode=%s symbol=%s pass=%d fail=%d duration=%s\n",
		r.Mode,
		r.Symbol,
		pass,
		fail,
		r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
	)
}

func writeReport(path string, r report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(msg))
	os.Exit(1)
}
