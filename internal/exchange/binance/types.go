package binance

import (
	"time"

	"github.com/shopspring/decimal"

	"binance-trade/internal/core"
)

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type wapiStatus struct {
	Success *bool  `json:"success"`
	Msg     string `json:"msg"`
}

// NewOrderRequest carries the fields of POST /api/v3/order. Price, StopPrice
// and IcebergQty are omitted when zero.
type NewOrderRequest struct {
	Symbol           string
	Side             core.Side
	Type             core.OrderType
	TimeInForce      core.TimeInForce
	Quantity         decimal.Decimal
	Price            decimal.Decimal
	NewClientOrderID string
	StopPrice        decimal.Decimal
	IcebergQty       decimal.Decimal
	RecvWindow       time.Duration
}

// OrderQuery identifies an order by OrderID or OrigClientOrderID. The exchange
// requires one of them.
type OrderQuery struct {
	Symbol            string
	OrderID           int64
	OrigClientOrderID string
	RecvWindow        time.Duration
}

type CancelOrderRequest struct {
	Symbol            string
	OrderID           int64
	OrigClientOrderID string
	NewClientOrderID  string
	RecvWindow        time.Duration
}

// OpenOrdersRequest with an empty Symbol lists open orders for every symbol.
type OpenOrdersRequest struct {
	Symbol     string
	RecvWindow time.Duration
}

// AllOrdersRequest returns orders with id >= OrderID when set, otherwise the
// most recent ones.
type AllOrdersRequest struct {
	Symbol     string
	OrderID    int64
	Limit      int
	RecvWindow time.Duration
}

type AccountRequest struct {
	RecvWindow time.Duration
}

// MyTradesRequest Limit defaults to 500 on the exchange side, max 500.
type MyTradesRequest struct {
	Symbol     string
	Limit      int
	FromID     int64
	RecvWindow time.Duration
}

type WithdrawRequest struct {
	Asset      string
	Address    string
	AddressTag string
	Amount     decimal.Decimal
	Name       string
	RecvWindow time.Duration
}

type HistoryRequest struct {
	Asset      string
	StartTime  time.Time
	EndTime    time.Time
	RecvWindow time.Duration
}

type DepositAddressRequest struct {
	Asset      string
	RecvWindow time.Duration
}

type NewOrderResult struct {
	Symbol             string           `json:"symbol"`
	OrderID            int64            `json:"orderId"`
	ClientOrderID      string           `json:"clientOrderId"`
	TransactTime       int64            `json:"transactTime"`
	Price              decimal.Decimal  `json:"price"`
	OrigQty            decimal.Decimal  `json:"origQty"`
	ExecutedQty        decimal.Decimal  `json:"executedQty"`
	CumulativeQuoteQty decimal.Decimal  `json:"cummulativeQuoteQty"`
	Status             core.OrderStatus `json:"status"`
	TimeInForce        core.TimeInForce `json:"timeInForce"`
	Type               core.OrderType   `json:"type"`
	Side               core.Side        `json:"side"`
}

type Order struct {
	Symbol             string           `json:"symbol"`
	OrderID            int64            `json:"orderId"`
	ClientOrderID      string           `json:"clientOrderId"`
	Price              decimal.Decimal  `json:"price"`
	OrigQty            decimal.Decimal  `json:"origQty"`
	ExecutedQty        decimal.Decimal  `json:"executedQty"`
	CumulativeQuoteQty decimal.Decimal  `json:"cummulativeQuoteQty"`
	Status             core.OrderStatus `json:"status"`
	TimeInForce        core.TimeInForce `json:"timeInForce"`
	Type               core.OrderType   `json:"type"`
	Side               core.Side        `json:"side"`
	StopPrice          decimal.Decimal  `json:"stopPrice"`
	IcebergQty         decimal.Decimal  `json:"icebergQty"`
	Time               int64            `json:"time"`
	UpdateTime         int64            `json:"updateTime"`
	IsWorking          bool             `json:"isWorking"`
}

func (o Order) CreatedAt() time.Time {
	if o.Time <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(o.Time)
}

// RemainingQty is the part of the order that has not executed yet.
func (o Order) RemainingQty() decimal.Decimal {
	if o.ExecutedQty.Cmp(o.OrigQty) >= 0 {
		return decimal.Zero
	}
	return o.OrigQty.Sub(o.ExecutedQty)
}

type CancelledOrder struct {
	Symbol            string `json:"symbol"`
	OrigClientOrderID string `json:"origClientOrderId"`
	OrderID           int64  `json:"orderId"`
	ClientOrderID     string `json:"clientOrderId"`
}

type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

func (b Balance) Total() decimal.Decimal {
	return b.Free.Add(b.Locked)
}

type AccountInfo struct {
	MakerCommission  int       `json:"makerCommission"`
	TakerCommission  int       `json:"takerCommission"`
	BuyerCommission  int       `json:"buyerCommission"`
	SellerCommission int       `json:"sellerCommission"`
	CanTrade         bool      `json:"canTrade"`
	CanWithdraw      bool      `json:"canWithdraw"`
	CanDeposit       bool      `json:"canDeposit"`
	UpdateTime       int64     `json:"updateTime"`
	Balances         []Balance `json:"balances"`
}

func (a AccountInfo) Balance(asset string) (Balance, bool) {
	for _, b := range a.Balances {
		if b.Asset == asset {
			return b, true
		}
	}
	return Balance{}, false
}

type Trade struct {
	ID              int64           `json:"id"`
	Symbol          string          `json:"symbol"`
	OrderID         int64           `json:"orderId"`
	Price           decimal.Decimal `json:"price"`
	Qty             decimal.Decimal `json:"qty"`
	Commission      decimal.Decimal `json:"commission"`
	CommissionAsset string          `json:"commissionAsset"`
	Time            int64           `json:"time"`
	IsBuyer         bool            `json:"isBuyer"`
	IsMaker         bool            `json:"isMaker"`
	IsBestMatch     bool            `json:"isBestMatch"`
}

type WithdrawResult struct {
	Msg     string `json:"msg"`
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// Deposit status: 0 pending, 1 success.
type Deposit struct {
	InsertTime int64           `json:"insertTime"`
	Amount     decimal.Decimal `json:"amount"`
	Asset      string          `json:"asset"`
	Address    string          `json:"address"`
	AddressTag string          `json:"addressTag"`
	TxID       string          `json:"txId"`
	Status     int             `json:"status"`
}

type DepositList struct {
	Deposits []Deposit `json:"depositList"`
	Success  bool      `json:"success"`
}

// Withdrawal status: 0 email sent, 1 cancelled, 2 awaiting approval,
// 3 rejected, 4 processing, 5 failure, 6 completed.
type Withdrawal struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Address    string          `json:"address"`
	AddressTag string          `json:"addressTag"`
	Asset      string          `json:"asset"`
	TxID       string          `json:"txId"`
	ApplyTime  int64           `json:"applyTime"`
	Status     int             `json:"status"`
}

type WithdrawList struct {
	Withdrawals []Withdrawal `json:"withdrawList"`
	Success     bool         `json:"success"`
}

type DepositAddress struct {
	Address    string `json:"address"`
	Success    bool   `json:"success"`
	AddressTag string `json:"addressTag"`
	Asset      string `json:"asset"`
}

type ListenKey struct {
	ListenKey string `json:"listenKey"`
}
