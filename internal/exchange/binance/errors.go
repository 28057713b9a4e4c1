package binance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"binance-trade/internal/core"
)

const (
	apiCodeTimestampOutside = -1021
	apiCodeInvalidSignature = -1022
	apiCodeBadSymbol        = -1121
	apiCodeNewOrderRejected = -2010
	apiCodeCancelRejected   = -2011
	apiCodeOrderNotFound    = -2013
)

var (
	// ErrMissingSecret means no secret or private key was configured, so nothing can be signed.
	ErrMissingSecret = errors.New("api secret required for signed request")
	// ErrMissingAPIKey means the X-MBX-APIKEY header cannot be set.
	ErrMissingAPIKey = errors.New("api key required")
	// ErrMissingParam means a required parameter was absent when the request was built.
	ErrMissingParam = errors.New("missing required parameter")
	// ErrInvalidParam means a parameter value cannot be serialized to an exchange token.
	ErrInvalidParam = errors.New("invalid parameter")
)

// APIError is returned when the exchange answered and rejected the request.
type APIError struct {
	Status int
	Code   int
	Msg    string
}

func (e APIError) Error() string {
	if e.Code == 0 {
		return "binance http error " + strconv.Itoa(e.Status) + ": " + e.Msg
	}
	return "binance api error " + strconv.Itoa(e.Code) + ": " + e.Msg
}

// TransportError is returned when the exchange could not be reached or the
// exchange's answer could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "binance transport error (" + e.Op + "): " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ConfigError is a local failure raised before any network I/O.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return "binance config error (" + e.Op + "): " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

var apiErrorMessageKinds = map[string]error{
	"duplicate order sent.":                                  core.ErrDuplicateOrder,
	"account has insufficient balance for requested action.": core.ErrInsufficientBalance,
	"balance is insufficient.":                               core.ErrInsufficientBalance,
	"unknown order sent.":                                    core.ErrOrderNotFound,
	"order does not exist.":                                  core.ErrOrderNotFound,
	"order was canceled or expired.":                         core.ErrOrderExpired,
	"invalid symbol.":                                        core.ErrUnknownSymbol,
}

func parseAPIError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Msg != "" {
		return classifyAPIError(APIError{Status: status, Code: apiErr.Code, Msg: apiErr.Msg})
	}
	return APIError{Status: status, Msg: strings.TrimSpace(string(body))}
}

// parseWAPIFailure detects wapi responses that report failure inside an HTTP
// 200 body via "success": false.
func parseWAPIFailure(status int, body []byte) error {
	var res wapiStatus
	if err := json.Unmarshal(body, &res); err != nil {
		return nil
	}
	if res.Success == nil || *res.Success {
		return nil
	}
	msg := res.Msg
	if msg == "" {
		msg = "request unsuccessful"
	}
	return classifyAPIError(APIError{Status: status, Msg: msg})
}

func classifyAPIError(apiErr APIError) error {
	kinds := classifyAPIErrorKinds(apiErr)
	if len(kinds) == 0 {
		return apiErr
	}
	errChain := make([]error, 0, 1+len(kinds))
	errChain = append(errChain, apiErr)
	errChain = append(errChain, kinds...)
	return errors.Join(errChain...)
}

func classifyAPIErrorKinds(apiErr APIError) []error {
	kinds := make([]error, 0, 2)
	normalizedMsg := normalizeAPIErrorMsg(apiErr.Msg)

	switch apiErr.Code {
	case apiCodeTimestampOutside:
		kinds = appendErrorKind(kinds, core.ErrTimestampOutsideRecvWindow)
	case apiCodeInvalidSignature:
		kinds = appendErrorKind(kinds, core.ErrInvalidSignature)
	case apiCodeBadSymbol:
		kinds = appendErrorKind(kinds, core.ErrUnknownSymbol)
	case apiCodeOrderNotFound, apiCodeCancelRejected:
		kinds = appendErrorKind(kinds, core.ErrOrderNotFound)
	case apiCodeNewOrderRejected:
		if kind, ok := apiErrorMessageKinds[normalizedMsg]; ok {
			kinds = appendErrorKind(kinds, kind)
		} else {
			kinds = appendErrorKind(kinds, core.ErrOrderRejected)
		}
	}

	if kind, ok := apiErrorMessageKinds[normalizedMsg]; ok {
		kinds = appendErrorKind(kinds, kind)
	}

	return kinds
}

func appendErrorKind(kinds []error, kind error) []error {
	if kind == nil {
		return kinds
	}
	for _, existing := range kinds {
		if existing == kind {
			return kinds
		}
	}
	return append(kinds, kind)
}

func normalizeAPIErrorMsg(msg string) string {
	return strings.ToLower(strings.TrimSpace(msg))
}

func AsAPIError(err error) (APIError, bool) {
	if err == nil {
		return APIError{}, false
	}
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		return APIError{}, false
	}
	return apiErr, true
}

func IsAPIErrorCode(err error, codes ...int) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	for _, code := range codes {
		if apiErr.Code == code {
			return true
		}
	}
	return false
}

func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

func IsConfigError(err error) bool {
	var cErr *ConfigError
	return errors.As(err, &cErr)
}

func configError(op string, err error) error {
	return &ConfigError{Op: op, Err: err}
}

func missingParam(ep Endpoint, name string) error {
	return configError(ep.Name, fmt.Errorf("%w: %s", ErrMissingParam, name))
}
