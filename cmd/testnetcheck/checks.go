package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"binance-trade/internal/config"
	"binance-trade/internal/core"
	"binance-trade/internal/exchange/binance"
)

// tradingClient is the part of *binance.Client the checks exercise.
type tradingClient interface {
	Account(ctx context.Context, req binance.AccountRequest) (binance.AccountInfo, error)
	OpenOrders(ctx context.Context, req binance.OpenOrdersRequest) ([]binance.Order, error)
	AllOrders(ctx context.Context, req binance.AllOrdersRequest) ([]binance.Order, error)
	TestNewOrder(ctx context.Context, req binance.NewOrderRequest) (map[string]any, error)
	NewOrder(ctx context.Context, req binance.NewOrderRequest) (binance.NewOrderResult, error)
	OrderStatus(ctx context.Context, q binance.OrderQuery) (binance.Order, error)
	CancelOrder(ctx context.Context, req binance.CancelOrderRequest) (binance.CancelledOrder, error)
	MyTrades(ctx context.Context, req binance.MyTradesRequest) ([]binance.Trade, error)
	DepositAddress(ctx context.Context, req binance.DepositAddressRequest) (binance.DepositAddress, error)
	DepositHistory(ctx context.Context, req binance.HistoryRequest) (binance.DepositList, error)
	WithdrawHistory(ctx context.Context, req binance.HistoryRequest) (binance.WithdrawList, error)
	StartUserDataStream(ctx context.Context) (binance.ListenKey, error)
	KeepAliveUserDataStream(ctx context.Context, listenKey string) (map[string]any, error)
	CloseUserDataStream(ctx context.Context, listenKey string) (map[string]any, error)
}

type selectedChecks struct {
	account    bool
	orders     bool
	testOrder  bool
	trades     bool
	wallet     bool
	userStream bool
	lifecycle  bool
}

func (s selectedChecks) empty() bool {
	return !(s.account || s.orders || s.testOrder || s.trades || s.wallet || s.userStream || s.lifecycle)
}

func parseCheckFlag(raw string) (selectedChecks, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "default" {
		return selectedChecks{
			account:    true,
			orders:     true,
			testOrder:  true,
			trades:     true,
			userStream: true,
		}, nil
	}
	if raw == "all" {
		return selectedChecks{
			account:    true,
			orders:     true,
			testOrder:  true,
			trades:     true,
			wallet:     true,
			userStream: true,
			lifecycle:  true,
		}, nil
	}

	var out selectedChecks
	for _, p := range strings.Split(raw, ",") {
		name := strings.TrimSpace(p)
		switch name {
		case "":
			continue
		case "account":
			out.account = true
		case "orders", "open_orders", "all_orders":
			out.orders = true
		case "test_order", "order_test":
			out.testOrder = true
		case "trades", "my_trades":
			out.trades = true
		case "wallet":
			out.wallet = true
		case "user_stream", "stream", "listen_key":
			out.userStream = true
		case "lifecycle", "order_lifecycle":
			out.lifecycle = true
		default:
			return selectedChecks{}, fmt.Errorf("unknown check: %s", name)
		}
	}
	if out.empty() {
		return selectedChecks{}, errors.New("no checks selected")
	}
	return out, nil
}

type checker struct {
	client tradingClient
	cfg    config.CheckConfig
	now    func() time.Time

	// placed is the lifecycle order still to clean up, if any.
	placed *binance.NewOrderResult
}

func (c *checker) checkAccount(ctx context.Context) (string, error) {
	acct, err := c.client.Account(ctx, binance.AccountRequest{})
	if err != nil {
		return "", err
	}
	detail := fmt.Sprintf("canTrade=%t balances=%d", acct.CanTrade, len(acct.Balances))
	if bal, ok := acct.Balance(c.cfg.Asset); ok {
		detail += fmt.Sprintf(" %s free=%s locked=%s", bal.Asset, bal.Free, bal.Locked)
	}
	return detail, nil
}

func (c *checker) checkOrders(ctx context.Context) (string, error) {
	bySymbol, err := c.client.OpenOrders(ctx, binance.OpenOrdersRequest{Symbol: c.cfg.Symbol})
	if err != nil {
		return "", fmt.Errorf("open orders %s: %w", c.cfg.Symbol, err)
	}
	everywhere, err := c.client.OpenOrders(ctx, binance.OpenOrdersRequest{})
	if err != nil {
		return "", fmt.Errorf("open orders (all symbols): %w", err)
	}
	if len(everywhere) < len(bySymbol) {
		return "", fmt.Errorf("open orders across symbols=%d fewer than for %s=%d", len(everywhere), c.cfg.Symbol, len(bySymbol))
	}
	history, err := c.client.AllOrders(ctx, binance.AllOrdersRequest{Symbol: c.cfg.Symbol, Limit: 10})
	if err != nil {
		return "", fmt.Errorf("all orders: %w", err)
	}
	return fmt.Sprintf("open(%s)=%d open(all)=%d recent=%d", c.cfg.Symbol, len(bySymbol), len(everywhere), len(history)), nil
}

func (c *checker) limitOrder(price decimal.Decimal) binance.NewOrderRequest {
	return binance.NewOrderRequest{
		Symbol:      c.cfg.Symbol,
		Side:        core.Buy,
		Type:        core.Limit,
		TimeInForce: core.GTC,
		Quantity:    c.cfg.Qty.Decimal,
		Price:       price,
	}
}

func (c *checker) checkTestOrder(ctx context.Context) (string, error) {
	if !c.cfg.Price.IsSet() || !c.cfg.Qty.IsSet() {
		return "", errors.New("check.price and check.qty are required for test_order")
	}
	order := c.limitOrder(c.cfg.Price.Decimal)
	if _, err := c.client.TestNewOrder(ctx, order); err != nil {
		return "", err
	}
	return fmt.Sprintf("accepted %s %s %s@%s", order.Side, order.Symbol, core.FormatDecimal(order.Quantity), core.FormatDecimal(order.Price)), nil
}

func (c *checker) checkTrades(ctx context.Context) (string, error) {
	trades, err := c.client.MyTrades(ctx, binance.MyTradesRequest{Symbol: c.cfg.Symbol, Limit: 10})
	if err != nil {
		return "", err
	}
	if len(trades) == 0 {
		return "trades=0", nil
	}
	last := trades[len(trades)-1]
	return fmt.Sprintf("trades=%d last=%s@%s", len(trades), last.Qty, last.Price), nil
}

func (c *checker) checkWallet(ctx context.Context) (string, error) {
	addr, err := c.client.DepositAddress(ctx, binance.DepositAddressRequest{Asset: c.cfg.Asset})
	if err != nil {
		return "", fmt.Errorf("deposit address: %w", err)
	}
	since := c.now().Add(-30 * 24 * time.Hour)
	deposits, err := c.client.DepositHistory(ctx, binance.HistoryRequest{Asset: c.cfg.Asset, StartTime: since})
	if err != nil {
		return "", fmt.Errorf("deposit history: %w", err)
	}
	withdrawals, err := c.client.WithdrawHistory(ctx, binance.HistoryRequest{Asset: c.cfg.Asset, StartTime: since})
	if err != nil {
		return "", fmt.Errorf("withdraw history: %w", err)
	}
	return fmt.Sprintf("address=%t deposits=%d withdrawals=%d", addr.Address != "", len(deposits.Deposits), len(withdrawals.Withdrawals)), nil
}

func (c *checker) checkUserStream(ctx context.Context) (string, error) {
	key, err := c.client.StartUserDataStream(ctx)
	if err != nil {
		return "", fmt.Errorf("start: %w", err)
	}
	if _, err := c.client.KeepAliveUserDataStream(ctx, key.ListenKey); err != nil {
		_, _ = c.client.CloseUserDataStream(context.Background(), key.ListenKey)
		return "", fmt.Errorf("keepalive: %w", err)
	}
	if _, err := c.client.CloseUserDataStream(ctx, key.ListenKey); err != nil {
		return "", fmt.Errorf("close: %w", err)
	}
	return fmt.Sprintf("listenKey=%d chars start/keepalive/close ok", len(key.ListenKey)), nil
}

// lifecyclePrice is half the configured reference price, rounded down to the tick.
func lifecyclePrice(cfg config.CheckConfig) (decimal.Decimal, error) {
	if !cfg.Price.IsSet() {
		return decimal.Zero, errors.New("check.price is required for lifecycle")
	}
	price := cfg.Price.Mul(decimal.RequireFromString("0.5"))
	if cfg.PriceTick.IsSet() {
		price = core.RoundDown(price, cfg.PriceTick.Decimal)
	}
	if price.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, errors.New("calculated order price <= 0")
	}
	return price, nil
}

func (c *checker) checkLifecycle(ctx context.Context) (string, error) {
	price, err := lifecyclePrice(c.cfg)
	if err != nil {
		return "", err
	}
	if !c.cfg.Qty.IsSet() {
		return "", errors.New("check.qty is required for lifecycle")
	}
	order := c.limitOrder(price)
	order.NewClientOrderID = "tnc-" + strconv.FormatInt(c.now().UnixMilli(), 10)

	placed, err := c.client.NewOrder(ctx, order)
	if err != nil {
		return "", err
	}
	if placed.OrderID == 0 {
		return "", errors.New("empty order id")
	}
	c.placed = &placed

	query, err := c.client.OrderStatus(ctx, binance.OrderQuery{Symbol: c.cfg.Symbol, OrderID: placed.OrderID})
	if err != nil {
		return "", err
	}
	if !query.Status.Valid() {
		return "", fmt.Errorf("order %d has unknown status %q", placed.OrderID, query.Status)
	}
	open, err := c.client.OpenOrders(ctx, binance.OpenOrdersRequest{Symbol: c.cfg.Symbol})
	if err != nil {
		return "", err
	}
	foundInOpen := false
	for _, ord := range open {
		if ord.OrderID == placed.OrderID {
			foundInOpen = true
			break
		}
	}

	status := query.Status
	if status.Active() {
		if _, err := c.client.CancelOrder(ctx, binance.CancelOrderRequest{Symbol: c.cfg.Symbol, OrderID: placed.OrderID}); err != nil {
			return "", fmt.Errorf("cancel order failed: %w", err)
		}
		c.placed = nil
		if after, err := c.client.OrderStatus(ctx, binance.OrderQuery{Symbol: c.cfg.Symbol, OrigClientOrderID: placed.ClientOrderID}); err == nil {
			status = after.Status
		}
	} else {
		c.placed = nil
	}

	return fmt.Sprintf("id=%d clientId=%s qty=%s price=%s status=%s foundInOpen=%t",
		placed.OrderID, placed.ClientOrderID, core.FormatDecimal(order.Quantity), core.FormatDecimal(price), status, foundInOpen), nil
}

// cleanup cancels a lifecycle order that a failed check left behind.
func (c *checker) cleanup() error {
	if c.placed == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	_, err := c.client.CancelOrder(ctx, binance.CancelOrderRequest{Symbol: c.cfg.Symbol, OrderID: c.placed.OrderID})
	if err != nil && !errors.Is(err, core.ErrOrderNotFound) {
		return err
	}
	c.placed = nil
	return nil
}
