package binance

import "context"

func (r NewOrderRequest) args() args {
	return args{
		"symbol":           r.Symbol,
		"side":             r.Side,
		"type":             r.Type,
		"timeInForce":      r.TimeInForce,
		"quantity":         r.Quantity,
		"price":            r.Price,
		"newClientOrderId": r.NewClientOrderID,
		"stopPrice":        r.StopPrice,
		"icebergQty":       r.IcebergQty,
		paramRecvWindow:    r.RecvWindow,
	}
}

func (q OrderQuery) args() args {
	return args{
		"symbol":            q.Symbol,
		"orderId":           q.OrderID,
		"origClientOrderId": q.OrigClientOrderID,
		paramRecvWindow:     q.RecvWindow,
	}
}

func (r CancelOrderRequest) args() args {
	return args{
		"symbol":            r.Symbol,
		"orderId":           r.OrderID,
		"origClientOrderId": r.OrigClientOrderID,
		"newClientOrderId":  r.NewClientOrderID,
		paramRecvWindow:     r.RecvWindow,
	}
}

func (r OpenOrdersRequest) args() args {
	return args{
		"symbol":        r.Symbol,
		paramRecvWindow: r.RecvWindow,
	}
}

func (r AllOrdersRequest) args() args {
	return args{
		"symbol":        r.Symbol,
		"orderId":       r.OrderID,
		"limit":         r.Limit,
		paramRecvWindow: r.RecvWindow,
	}
}

// NewOrder sends an order into the matching engine.
func (c *Client) NewOrder(ctx context.Context, req NewOrderRequest) (NewOrderResult, error) {
	var out NewOrderResult
	if err := c.execute(ctx, EndpointNewOrder, req.args(), &out); err != nil {
		return NewOrderResult{}, err
	}
	return out, nil
}

// TestNewOrder validates an order and its signature without sending it to the
// matching engine. The response shape is not fixed, so it is passed through.
func (c *Client) TestNewOrder(ctx context.Context, req NewOrderRequest) (map[string]any, error) {
	out := map[string]any{}
	if err := c.execute(ctx, EndpointTestNewOrder, req.args(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderStatus looks an order up by OrderID or OrigClientOrderID.
func (c *Client) OrderStatus(ctx context.Context, q OrderQuery) (Order, error) {
	var out Order
	if err := c.execute(ctx, EndpointOrderStatus, q.args(), &out); err != nil {
		return Order{}, err
	}
	return out, nil
}

func (c *Client) CancelOrder(ctx context.Context, req CancelOrderRequest) (CancelledOrder, error) {
	var out CancelledOrder
	if err := c.execute(ctx, EndpointCancelOrder, req.args(), &out); err != nil {
		return CancelledOrder{}, err
	}
	return out, nil
}

// OpenOrders lists open orders for req.Symbol, or for every symbol when it is
// empty.
func (c *Client) OpenOrders(ctx context.Context, req OpenOrdersRequest) ([]Order, error) {
	var out []Order
	if err := c.execute(ctx, EndpointOpenOrders, req.args(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllOrders lists active, canceled and filled orders.
func (c *Client) AllOrders(ctx context.Context, req AllOrdersRequest) ([]Order, error) {
	var out []Order
	if err := c.execute(ctx, EndpointAllOrders, req.args(), &out); err != nil {
		return nil, err
	}
	return out, nil
}
