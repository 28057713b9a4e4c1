package binance

import (
	"context"
	"errors"
	"time"
)

// DefaultListenKeyKeepalive stays well inside the 60 minute listen key expiry.
const DefaultListenKeyKeepalive = 30 * time.Minute

// StartUserDataStream opens a user data stream. The call carries only the API
// key header and is never signed.
func (c *Client) StartUserDataStream(ctx context.Context) (ListenKey, error) {
	var out ListenKey
	if err := c.execute(ctx, EndpointStartUserDataStream, nil, &out); err != nil {
		return ListenKey{}, err
	}
	if out.ListenKey == "" {
		return ListenKey{}, &TransportError{Op: EndpointStartUserDataStream.Name, Err: errors.New("empty listen key")}
	}
	return out, nil
}

func (c *Client) KeepAliveUserDataStream(ctx context.Context, listenKey string) (map[string]any, error) {
	out := map[string]any{}
	if err := c.execute(ctx, EndpointKeepAliveUserDataStream, args{paramListenKey: listenKey}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CloseUserDataStream(ctx context.Context, listenKey string) (map[string]any, error) {
	out := map[string]any{}
	if err := c.execute(ctx, EndpointCloseUserDataStream, args{paramListenKey: listenKey}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// KeepListenKeyAlive pings listenKey every interval until ctx is done. A
// non-positive interval uses the client's configured keepalive. The first
// failed ping is returned as is; the caller decides whether to retry.
func (c *Client) KeepListenKeyAlive(ctx context.Context, listenKey string, interval time.Duration) error {
	if interval <= 0 {
		interval = c.keepalive
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := c.KeepAliveUserDataStream(ctx, listenKey); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Warn().Err(err).Msg("listen key keepalive failed")
				return err
			}
			c.logger.Debug().Msg("listen key kept alive")
		}
	}
}
