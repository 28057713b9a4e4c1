package binance

import "context"

func (r MyTradesRequest) args() args {
	return args{
		"symbol":        r.Symbol,
		"limit":         r.Limit,
		"fromId":        r.FromID,
		paramRecvWindow: r.RecvWindow,
	}
}

func (c *Client) Account(ctx context.Context, req AccountRequest) (AccountInfo, error) {
	var out AccountInfo
	if err := c.execute(ctx, EndpointAccount, args{paramRecvWindow: req.RecvWindow}, &out); err != nil {
		return AccountInfo{}, err
	}
	return out, nil
}

// MyTrades lists account trades for one symbol, most recent first unless
// FromID is set.
func (c *Client) MyTrades(ctx context.Context, req MyTradesRequest) ([]Trade, error) {
	var out []Trade
	if err := c.execute(ctx, EndpointMyTrades, req.args(), &out); err != nil {
		return nil, err
	}
	return out, nil
}
