package binance

import (
	"net/http"
	"strings"
)

type AuthType int

const (
	AuthNone AuthType = iota
	AuthAPIKey
	AuthSigned
)

func (a AuthType) String() string {
	switch a {
	case AuthAPIKey:
		return "api_key"
	case AuthSigned:
		return "signed"
	default:
		return "none"
	}
}

// Location is where a parameter travels on the wire.
type Location int

const (
	InQuery Location = iota
	InForm
	InPath
)

type ParamKind int

const (
	KindString ParamKind = iota
	KindInt
	KindDecimal
	KindEnum
	KindTimestamp
	KindDuration
)

type ParamSpec struct {
	Name     string
	Kind     ParamKind
	Required bool
}

// Endpoint describes one REST operation. Params are serialized in the order
// listed, which is also the order the signature covers.
type Endpoint struct {
	Name   string
	Method string
	Path   string
	Auth   AuthType
	In     Location
	Params []ParamSpec
}

const (
	paramRecvWindow = "recvWindow"
	paramTimestamp  = "timestamp"
	paramSignature  = "signature"
	paramListenKey  = "listenKey"

	headerAPIKey = "X-MBX-APIKEY"
)

func required(name string, kind ParamKind) ParamSpec {
	return ParamSpec{Name: name, Kind: kind, Required: true}
}

func optional(name string, kind ParamKind) ParamSpec {
	return ParamSpec{Name: name, Kind: kind}
}

// signedTail is appended to every signed endpoint.
var signedTail = []ParamSpec{
	optional(paramRecvWindow, KindDuration),
	required(paramTimestamp, KindTimestamp),
}

func withSignedTail(params ...ParamSpec) []ParamSpec {
	out := make([]ParamSpec, 0, len(params)+len(signedTail))
	out = append(out, params...)
	return append(out, signedTail...)
}

var orderParams = withSignedTail(
	required("symbol", KindString),
	required("side", KindEnum),
	required("type", KindEnum),
	required("timeInForce", KindEnum),
	required("quantity", KindDecimal),
	optional("price", KindDecimal),
	optional("newClientOrderId", KindString),
	optional("stopPrice", KindDecimal),
	optional("icebergQty", KindDecimal),
)

var historyParams = withSignedTail(
	optional("asset", KindString),
	optional("startTime", KindTimestamp),
	optional("endTime", KindTimestamp),
)

var (
	EndpointNewOrder = Endpoint{
		Name:   "newOrder",
		Method: http.MethodPost,
		Path:   "/api/v3/order",
		Auth:   AuthSigned,
		In:     InForm,
		Params: orderParams,
	}
	EndpointTestNewOrder = Endpoint{
		Name:   "testNewOrder",
		Method: http.MethodPost,
		Path:   "/api/v3/order/test",
		Auth:   AuthSigned,
		In:     InForm,
		Params: orderParams,
	}
	// Either orderId or origClientOrderId must be sent; the exchange enforces it.
	EndpointOrderStatus = Endpoint{
		Name:   "orderStatus",
		Method: http.MethodGet,
		Path:   "/api/v3/order",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: withSignedTail(
			required("symbol", KindString),
			optional("orderId", KindInt),
			optional("origClientOrderId", KindString),
		),
	}
	EndpointCancelOrder = Endpoint{
		Name:   "cancelOrder",
		Method: http.MethodDelete,
		Path:   "/api/v3/order",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: withSignedTail(
			required("symbol", KindString),
			optional("orderId", KindInt),
			optional("origClientOrderId", KindString),
			optional("newClientOrderId", KindString),
		),
	}
	// Without symbol the exchange returns open orders across all symbols.
	EndpointOpenOrders = Endpoint{
		Name:   "openOrders",
		Method: http.MethodGet,
		Path:   "/api/v3/openOrders",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: withSignedTail(
			optional("symbol", KindString),
		),
	}
	EndpointAllOrders = Endpoint{
		Name:   "allOrders",
		Method: http.MethodGet,
		Path:   "/api/v3/allOrders",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: withSignedTail(
			required("symbol", KindString),
			optional("orderId", KindInt),
			optional("limit", KindInt),
		),
	}
	EndpointAccount = Endpoint{
		Name:   "account",
		Method: http.MethodGet,
		Path:   "/api/v3/account",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: withSignedTail(),
	}
	EndpointMyTrades = Endpoint{
		Name:   "myTrades",
		Method: http.MethodGet,
		Path:   "/api/v3/myTrades",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: withSignedTail(
			required("symbol", KindString),
			optional("limit", KindInt),
			optional("fromId", KindInt),
		),
	}
	EndpointWithdraw = Endpoint{
		Name:   "withdraw",
		Method: http.MethodPost,
		Path:   "/wapi/v3/withdraw.html",
		Auth:   AuthSigned,
		In:     InForm,
		Params: withSignedTail(
			required("asset", KindString),
			required("address", KindString),
			optional("addressTag", KindString),
			required("amount", KindDecimal),
			optional("name", KindString),
		),
	}
	EndpointDepositHistory = Endpoint{
		Name:   "depositHistory",
		Method: http.MethodGet,
		Path:   "/wapi/v3/depositHistory.html",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: historyParams,
	}
	EndpointWithdrawHistory = Endpoint{
		Name:   "withdrawHistory",
		Method: http.MethodGet,
		Path:   "/wapi/v3/withdrawHistory.html",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: historyParams,
	}
	EndpointDepositAddress = Endpoint{
		Name:   "depositAddress",
		Method: http.MethodGet,
		Path:   "/wapi/v3/depositAddress.html",
		Auth:   AuthSigned,
		In:     InQuery,
		Params: withSignedTail(
			required("asset", KindString),
		),
	}
	EndpointStartUserDataStream = Endpoint{
		Name:   "startUserDataStream",
		Method: http.MethodPost,
		Path:   "/api/v1/userDataStream",
		Auth:   AuthAPIKey,
	}
	EndpointKeepAliveUserDataStream = Endpoint{
		Name:   "keepAliveUserDataStream",
		Method: http.MethodPut,
		Path:   "/api/v1/userDataStream?listenKey={listenKey}",
		Auth:   AuthAPIKey,
		In:     InPath,
		Params: []ParamSpec{required(paramListenKey, KindString)},
	}
	EndpointCloseUserDataStream = Endpoint{
		Name:   "closeUserDataStream",
		Method: http.MethodDelete,
		Path:   "/api/v1/userDataStream?listenKey={listenKey}",
		Auth:   AuthAPIKey,
		In:     InPath,
		Params: []ParamSpec{required(paramListenKey, KindString)},
	}
)

// Endpoints lists every operation the client can issue.
var Endpoints = []Endpoint{
	EndpointNewOrder,
	EndpointTestNewOrder,
	EndpointOrderStatus,
	EndpointCancelOrder,
	EndpointOpenOrders,
	EndpointAllOrders,
	EndpointAccount,
	EndpointMyTrades,
	EndpointWithdraw,
	EndpointDepositHistory,
	EndpointWithdrawHistory,
	EndpointDepositAddress,
	EndpointStartUserDataStream,
	EndpointKeepAliveUserDataStream,
	EndpointCloseUserDataStream,
}

func (e Endpoint) isWAPI() bool {
	return strings.HasPrefix(e.Path, "/wapi/")
}
