package core

type Side string

type OrderType string

type TimeInForce string

type OrderStatus string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

const (
	Limit           OrderType = "LIMIT"
	Market          OrderType = "MARKET"
	StopLoss        OrderType = "STOP_LOSS"
	StopLossLimit   OrderType = "STOP_LOSS_LIMIT"
	TakeProfit      OrderType = "TAKE_PROFIT"
	TakeProfitLimit OrderType = "TAKE_PROFIT_LIMIT"
	LimitMaker      OrderType = "LIMIT_MAKER"
)

const (
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

const (
	OrderNew             OrderStatus = "NEW"
	OrderPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderFilled          OrderStatus = "FILLED"
	OrderCanceled        OrderStatus = "CANCELED"
	OrderPendingCancel   OrderStatus = "PENDING_CANCEL"
	OrderRejected        OrderStatus = "REJECTED"
	OrderExpired         OrderStatus = "EXPIRED"
)

func (s Side) Valid() bool {
	switch s {
	case Buy, Sell:
		return true
	}
	return false
}

func (t OrderType) Valid() bool {
	switch t {
	case Limit, Market, StopLoss, StopLossLimit, TakeProfit, TakeProfitLimit, LimitMaker:
		return true
	}
	return false
}

func (t TimeInForce) Valid() bool {
	switch t {
	case GTC, IOC, FOK:
		return true
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderNew, OrderPartiallyFilled, OrderFilled, OrderCanceled, OrderPendingCancel, OrderRejected, OrderExpired:
		return true
	}
	return false
}

// Active reports whether an order in this status can still trade or be canceled.
func (s OrderStatus) Active() bool {
	return s == OrderNew || s == OrderPartiallyFilled
}
