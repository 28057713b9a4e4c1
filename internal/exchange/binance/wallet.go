package binance

import "context"

func (r WithdrawRequest) args() args {
	return args{
		"asset":         r.Asset,
		"address":       r.Address,
		"addressTag":    r.AddressTag,
		"amount":        r.Amount,
		"name":          r.Name,
		paramRecvWindow: r.RecvWindow,
	}
}

func (r HistoryRequest) args() args {
	return args{
		"asset":         r.Asset,
		"startTime":     r.StartTime,
		"endTime":       r.EndTime,
		paramRecvWindow: r.RecvWindow,
	}
}

// Withdraw submits a withdrawal. A "success": false answer is returned as an
// APIError.
func (c *Client) Withdraw(ctx context.Context, req WithdrawRequest) (WithdrawResult, error) {
	var out WithdrawResult
	if err := c.execute(ctx, EndpointWithdraw, req.args(), &out); err != nil {
		return WithdrawResult{}, err
	}
	return out, nil
}

func (c *Client) DepositHistory(ctx context.Context, req HistoryRequest) (DepositList, error) {
	var out DepositList
	if err := c.execute(ctx, EndpointDepositHistory, req.args(), &out); err != nil {
		return DepositList{}, err
	}
	return out, nil
}

func (c *Client) WithdrawHistory(ctx context.Context, req HistoryRequest) (WithdrawList, error) {
	var out WithdrawList
	if err := c.execute(ctx, EndpointWithdrawHistory, req.args(), &out); err != nil {
		return WithdrawList{}, err
	}
	return out, nil
}

func (c *Client) DepositAddress(ctx context.Context, req DepositAddressRequest) (DepositAddress, error) {
	var out DepositAddress
	in := args{"asset": req.Asset, paramRecvWindow: req.RecvWindow}
	if err := c.execute(ctx, EndpointDepositAddress, in, &out); err != nil {
		return DepositAddress{}, err
	}
	return out, nil
}
