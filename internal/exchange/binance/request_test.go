package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binance-trade/internal/core"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newTestClient(secret string, recvWindowMs int64, nowMs int64) *Client {
	return NewClientWithOptions(Options{
		APIKey:       "test-key",
		APISecret:    secret,
		RestBaseURL:  "http://unused.local",
		RecvWindowMs: recvWindowMs,
		Now:          fixedClock(nowMs),
	})
}

func hmacHex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func exampleOrder() NewOrderRequest {
	return NewOrderRequest{
		Symbol:      "BTCUSDT",
		Side:        core.Buy,
		Type:        core.Limit,
		TimeInForce: core.GTC,
		Quantity:    decimal.RequireFromString("0.001"),
		Price:       decimal.RequireFromString("50000.00"),
	}
}

func TestBuildRequestExampleOrderPayload(t *testing.T) {
	c := newTestClient("s3cr3t", 5000, 1700000000000)

	req, err := c.buildRequest(EndpointNewOrder, exampleOrder().args())
	require.NoError(t, err)

	want := "symbol=BTCUSDT&side=BUY&type=LIMIT&timeInForce=GTC&quantity=0.001&price=50000&recvWindow=5000&timestamp=1700000000000"
	assert.Equal(t, want, req.Body)
	assert.Empty(t, req.Query)
	assert.Equal(t, want, req.Payload())
	assert.Equal(t, hmacHex("s3cr3t", want), req.Signature)
	assert.Equal(t, "/api/v3/order?signature="+req.Signature, req.URL())
	assert.Equal(t, "test-key", req.Header.Get(headerAPIKey))
	assert.Equal(t, formContentType, req.Header.Get("Content-Type"))
	assert.Equal(t, http.MethodPost, req.Method)
}

func TestBuildRequestMatchesPublishedSignatureVector(t *testing.T) {
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	c := newTestClient(secret, 5000, 1499827319559)

	req, err := c.buildRequest(EndpointNewOrder, NewOrderRequest{
		Symbol:      "LTCBTC",
		Side:        core.Buy,
		Type:        core.Limit,
		TimeInForce: core.GTC,
		Quantity:    decimal.NewFromInt(1),
		Price:       decimal.RequireFromString("0.1"),
	}.args())
	require.NoError(t, err)

	assert.Equal(t, "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559", req.Payload())
	assert.Equal(t, "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71", req.Signature)
}

func TestBuildRequestSignatureDeterministicAndSensitive(t *testing.T) {
	c := newTestClient("s3cr3t", 5000, 1700000000000)

	first, err := c.buildRequest(EndpointNewOrder, exampleOrder().args())
	require.NoError(t, err)
	second, err := c.buildRequest(EndpointNewOrder, exampleOrder().args())
	require.NoError(t, err)
	assert.Equal(t, first.Signature, second.Signature)
	assert.Equal(t, first.Body, second.Body)

	mutations := map[string]func(*NewOrderRequest){
		"quantity": func(r *NewOrderRequest) { r.Quantity = decimal.RequireFromString("0.002") },
		"price":    func(r *NewOrderRequest) { r.Price = decimal.RequireFromString("50000.01") },
		"side":     func(r *NewOrderRequest) { r.Side = core.Sell },
		"symbol":   func(r *NewOrderRequest) { r.Symbol = "ETHUSDT" },
		"tif":      func(r *NewOrderRequest) { r.TimeInForce = core.IOC },
		"window":   func(r *NewOrderRequest) { r.RecvWindow = 6 * time.Second },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			order := exampleOrder()
			mutate(&order)
			got, err := c.buildRequest(EndpointNewOrder, order.args())
			require.NoError(t, err)
			assert.NotEqual(t, first.Signature, got.Signature)
		})
	}

	later := newTestClient("s3cr3t", 5000, 1700000000001)
	got, err := later.buildRequest(EndpointNewOrder, exampleOrder().args())
	require.NoError(t, err)
	assert.NotEqual(t, first.Signature, got.Signature, "timestamp must be covered")

	other := newTestClient("other", 5000, 1700000000000)
	got, err = other.buildRequest(EndpointNewOrder, exampleOrder().args())
	require.NoError(t, err)
	assert.NotEqual(t, first.Signature, got.Signature, "secret must be covered")
}

func TestBuildRequestOptionalOrderFields(t *testing.T) {
	c := newTestClient("s", 0, 1700000000000)
	order := exampleOrder()
	order.Type = core.StopLossLimit
	order.NewClientOrderID = "my id/1"
	order.StopPrice = decimal.RequireFromString("49000.5")
	order.IcebergQty = decimal.RequireFromString("0.00000001")

	req, err := c.buildRequest(EndpointTestNewOrder, order.args())
	require.NoError(t, err)
	assert.Equal(t,
		"symbol=BTCUSDT&side=BUY&type=STOP_LOSS_LIMIT&timeInForce=GTC&quantity=0.001&price=50000&newClientOrderId=my+id%2F1&stopPrice=49000.5&icebergQty=0.00000001&timestamp=1700000000000",
		req.Body)
	assert.Equal(t, "/api/v3/order/test?signature="+hmacHex("s", req.Body), req.URL())

	values, err := url.ParseQuery(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "my id/1", values.Get("newClientOrderId"))
}

func TestBuildRequestOpenOrdersSymbolIsOnlyDifference(t *testing.T) {
	c := newTestClient("s3cr3t", 5000, 1700000000000)

	all, err := c.buildRequest(EndpointOpenOrders, OpenOrdersRequest{}.args())
	require.NoError(t, err)
	one, err := c.buildRequest(EndpointOpenOrders, OpenOrdersRequest{Symbol: "BTCUSDT"}.args())
	require.NoError(t, err)

	assert.Equal(t, "recvWindow=5000&timestamp=1700000000000", all.Query)
	assert.Equal(t, "symbol=BTCUSDT&"+all.Query, one.Query)
	assert.Equal(t, all.Method, one.Method)
	assert.Equal(t, all.Path, one.Path)
	assert.Equal(t, all.Header, one.Header)
	assert.Empty(t, all.Body)
	assert.Empty(t, one.Body)
}

func TestBuildRequestQueryEndpointsSignQueryString(t *testing.T) {
	c := newTestClient("s3cr3t", 0, 1700000000000)

	cases := []struct {
		name  string
		ep    Endpoint
		in    args
		query string
	}{
		{
			name:  "order status by id",
			ep:    EndpointOrderStatus,
			in:    OrderQuery{Symbol: "BTCUSDT", OrderID: 42}.args(),
			query: "symbol=BTCUSDT&orderId=42&timestamp=1700000000000",
		},
		{
			name:  "order status by client id",
			ep:    EndpointOrderStatus,
			in:    OrderQuery{Symbol: "BTCUSDT", OrigClientOrderID: "cid-1"}.args(),
			query: "symbol=BTCUSDT&origClientOrderId=cid-1&timestamp=1700000000000",
		},
		{
			name:  "cancel order",
			ep:    EndpointCancelOrder,
			in:    CancelOrderRequest{Symbol: "BTCUSDT", OrderID: 7, NewClientOrderID: "cxl-1", RecvWindow: 2 * time.Second}.args(),
			query: "symbol=BTCUSDT&orderId=7&newClientOrderId=cxl-1&recvWindow=2000&timestamp=1700000000000",
		},
		{
			name:  "all orders",
			ep:    EndpointAllOrders,
			in:    AllOrdersRequest{Symbol: "BTCUSDT", OrderID: 100, Limit: 50}.args(),
			query: "symbol=BTCUSDT&orderId=100&limit=50&timestamp=1700000000000",
		},
		{
			name:  "account",
			ep:    EndpointAccount,
			in:    args{},
			query: "timestamp=1700000000000",
		},
		{
			name:  "my trades",
			ep:    EndpointMyTrades,
			in:    MyTradesRequest{Symbol: "BTCUSDT", Limit: 500, FromID: 9}.args(),
			query: "symbol=BTCUSDT&limit=500&fromId=9&timestamp=1700000000000",
		},
		{
			name: "deposit history",
			ep:   EndpointDepositHistory,
			in: HistoryRequest{
				Asset:     "BTC",
				StartTime: time.UnixMilli(1600000000000),
				EndTime:   time.UnixMilli(1600000100000),
			}.args(),
			query: "asset=BTC&startTime=1600000000000&endTime=1600000100000&timestamp=1700000000000",
		},
		{
			name:  "withdraw history",
			ep:    EndpointWithdrawHistory,
			in:    HistoryRequest{}.args(),
			query: "timestamp=1700000000000",
		},
		{
			name:  "deposit address",
			ep:    EndpointDepositAddress,
			in:    args{"asset": "ETH"},
			query: "asset=ETH&timestamp=1700000000000",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := c.buildRequest(tc.ep, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.query, req.Query)
			assert.Empty(t, req.Body)
			assert.Equal(t, hmacHex("s3cr3t", tc.query), req.Signature)
			assert.Equal(t, tc.ep.Path+"?"+tc.query+"&signature="+req.Signature, req.URL())
			assert.True(t, strings.HasSuffix(req.URL(), "&signature="+req.Signature))
		})
	}
}

func TestBuildRequestWithdrawUsesFormBody(t *testing.T) {
	c := newTestClient("s3cr3t", 5000, 1700000000000)
	req, err := c.buildRequest(EndpointWithdraw, WithdrawRequest{
		Asset:      "XRP",
		Address:    "rEb8TK3gBgk5auZkwc6sHnwrGVJH8DuaLh",
		AddressTag: "12345",
		Amount:     decimal.RequireFromString("25.50"),
		Name:       "cold wallet",
	}.args())
	require.NoError(t, err)
	assert.Equal(t,
		"asset=XRP&address=rEb8TK3gBgk5auZkwc6sHnwrGVJH8DuaLh&addressTag=12345&amount=25.5&name=cold+wallet&recvWindow=5000&timestamp=1700000000000",
		req.Body)
	assert.Equal(t, hmacHex("s3cr3t", req.Body), req.Signature)
	assert.Equal(t, "/wapi/v3/withdraw.html?signature="+req.Signature, req.URL())
}

func TestBuildRequestUserStreamIsUnsigned(t *testing.T) {
	c := newTestClient("s3cr3t", 5000, 1700000000000)

	start, err := c.buildRequest(EndpointStartUserDataStream, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, start.Method)
	assert.Equal(t, "/api/v1/userDataStream", start.URL())
	assert.Empty(t, start.Signature)
	assert.Empty(t, start.Query)
	assert.Empty(t, start.Body)
	assert.NotContains(t, start.URL(), "signature")
	assert.NotContains(t, start.URL(), "timestamp")
	assert.Equal(t, "test-key", start.Header.Get(headerAPIKey))

	for _, ep := range []Endpoint{EndpointKeepAliveUserDataStream, EndpointCloseUserDataStream} {
		req, err := c.buildRequest(ep, args{paramListenKey: "pqia91ma19a5s61cv6a81va65sdf19v8a65a1a5s61cv6a81va65sdf19v8a65a1"})
		require.NoError(t, err)
		assert.Equal(t, ep.Method, req.Method)
		assert.Equal(t, "/api/v1/userDataStream?listenKey=pqia91ma19a5s61cv6a81va65sdf19v8a65a1a5s61cv6a81va65sdf19v8a65a1", req.URL())
		assert.Empty(t, req.Signature)
		assert.Equal(t, "test-key", req.Header.Get(headerAPIKey))
	}
}

func TestBuildRequestEscapesListenKey(t *testing.T) {
	c := newTestClient("s", 0, 1)
	req, err := c.buildRequest(EndpointKeepAliveUserDataStream, args{paramListenKey: "a+b&c"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/userDataStream?listenKey=a%2Bb%26c", req.URL())
}

func TestBuildRequestMissingSecretFailsLocally(t *testing.T) {
	c := newTestClient("", 5000, 1700000000000)
	_, err := c.buildRequest(EndpointAccount, args{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSecret))
	assert.True(t, IsConfigError(err))
	assert.False(t, IsTransportError(err))

	_, err = c.buildRequest(EndpointStartUserDataStream, nil)
	assert.NoError(t, err, "unsigned calls do not need the secret")
}

func TestBuildRequestMissingAPIKey(t *testing.T) {
	c := NewClientWithOptions(Options{APISecret: "s"})
	_, err := c.buildRequest(EndpointStartUserDataStream, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestBuildRequestRequiredAndInvalidParams(t *testing.T) {
	c := newTestClient("s", 0, 1700000000000)

	order := exampleOrder()
	order.Quantity = decimal.Zero
	_, err := c.buildRequest(EndpointNewOrder, order.args())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingParam))
	assert.Contains(t, err.Error(), "quantity")

	order = exampleOrder()
	order.Side = core.Side("buy")
	_, err = c.buildRequest(EndpointNewOrder, order.args())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParam))

	_, err = c.buildRequest(EndpointMyTrades, MyTradesRequest{}.args())
	assert.True(t, errors.Is(err, ErrMissingParam))

	_, err = c.buildRequest(EndpointKeepAliveUserDataStream, args{paramListenKey: ""})
	assert.True(t, errors.Is(err, ErrMissingParam))

	_, err = c.buildRequest(EndpointAllOrders, args{"symbol": 12})
	assert.True(t, errors.Is(err, ErrInvalidParam))
}

func TestBuildRequestDoesNotMutateArgs(t *testing.T) {
	c := newTestClient("s", 5000, 1700000000000)
	in := args{"symbol": "BTCUSDT"}
	_, err := c.buildRequest(EndpointOpenOrders, in)
	require.NoError(t, err)
	assert.Len(t, in, 1)
}

func TestEndpointCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, ep := range Endpoints {
		assert.False(t, seen[ep.Name], "duplicate endpoint %s", ep.Name)
		seen[ep.Name] = true
		assert.True(t, strings.HasPrefix(ep.Path, "/api/v3/") || strings.HasPrefix(ep.Path, "/wapi/v3/") || strings.HasPrefix(ep.Path, "/api/v1/userDataStream"), ep.Path)
		if ep.Auth != AuthSigned {
			assert.True(t, strings.HasPrefix(ep.Path, "/api/v1/userDataStream"), "%s must be signed", ep.Name)
			continue
		}
		n := len(ep.Params)
		require.GreaterOrEqual(t, n, 2)
		assert.Equal(t, paramRecvWindow, ep.Params[n-2].Name)
		assert.Equal(t, paramTimestamp, ep.Params[n-1].Name)
		assert.True(t, ep.Params[n-1].Required)
		if ep.Method == http.MethodPost {
			assert.Equal(t, InForm, ep.In, ep.Name)
		} else {
			assert.Equal(t, InQuery, ep.In, ep.Name)
		}
	}
	assert.Len(t, Endpoints, 15)
}

func TestParamsEncodeKeepsOrder(t *testing.T) {
	var p Params
	p.Set("z", "1")
	p.Set("a", "2 3")
	p.Set("m", "x&y=z")
	p.Set("z", "4")
	assert.Equal(t, "z=4&a=2+3&m=x%26y%3Dz", p.Encode())
	p.Set("a", "")
	assert.Equal(t, "z=4&a=&m=x%26y%3Dz", p.Encode())
	assert.Empty(t, Params{}.Encode())
}

func TestFormatParam(t *testing.T) {
	cases := []struct {
		spec ParamSpec
		in   any
		out  string
		ok   bool
	}{
		{spec: ParamSpec{Name: "q", Kind: KindDecimal}, in: decimal.RequireFromString("0.00000001"), out: "0.00000001", ok: true},
		{spec: ParamSpec{Name: "q", Kind: KindDecimal}, in: decimal.RequireFromString("100"), out: "100", ok: true},
		{spec: ParamSpec{Name: "q", Kind: KindDecimal}, in: decimal.New(1, 3), out: "1000", ok: true},
		{spec: ParamSpec{Name: "q", Kind: KindDecimal}, in: decimal.Zero, ok: false},
		{spec: ParamSpec{Name: "e", Kind: KindEnum}, in: core.Sell, out: "SELL", ok: true},
		{spec: ParamSpec{Name: "e", Kind: KindEnum}, in: core.FOK, out: "FOK", ok: true},
		{spec: ParamSpec{Name: "e", Kind: KindEnum}, in: core.LimitMaker, out: "LIMIT_MAKER", ok: true},
		{spec: ParamSpec{Name: "i", Kind: KindInt}, in: int64(0), ok: false},
		{spec: ParamSpec{Name: "i", Kind: KindInt}, in: 0, ok: false},
		{spec: ParamSpec{Name: "i", Kind: KindInt}, in: 12, out: "12", ok: true},
		{spec: ParamSpec{Name: "i", Kind: KindInt}, in: int64(-3), out: "-3", ok: true},
		{spec: ParamSpec{Name: "t", Kind: KindTimestamp}, in: time.UnixMilli(1700000000123), out: "1700000000123", ok: true},
		{spec: ParamSpec{Name: "t", Kind: KindTimestamp}, in: time.Time{}, ok: false},
		{spec: ParamSpec{Name: "t", Kind: KindTimestamp}, in: int64(0), ok: false},
		{spec: ParamSpec{Name: "t", Kind: KindTimestamp}, in: int64(1700000000123), out: "1700000000123", ok: true},
		{spec: ParamSpec{Name: "d", Kind: KindDuration}, in: 1500 * time.Millisecond, out: "1500", ok: true},
		{spec: ParamSpec{Name: "d", Kind: KindDuration}, in: time.Duration(0), ok: false},
		{spec: ParamSpec{Name: "d", Kind: KindDuration}, in: 500 * time.Microsecond, ok: false},
		{spec: ParamSpec{Name: "s", Kind: KindString}, in: nil, ok: false},
	}
	for _, tc := range cases {
		out, ok, err := formatParam(tc.spec, tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.out, out, "%v", tc.in)
	}
}
