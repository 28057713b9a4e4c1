package binance

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

const formContentType = "application/x-www-form-urlencoded"

// args maps parameter names to raw values; buildRequest formats them in the
// endpoint's declared order.
type args map[string]any

// preparedRequest is everything that goes on the wire for one call.
type preparedRequest struct {
	Endpoint  Endpoint
	Method    string
	Path      string
	Query     string
	Body      string
	Signature string
	Header    http.Header
}

// Payload is the exact byte sequence covered by the signature: the query
// string (without signature) followed by the form body.
func (r preparedRequest) Payload() string {
	return r.Query + r.Body
}

// URL returns the path plus query string. The signature is always the last
// query parameter.
func (r preparedRequest) URL() string {
	q := r.Query
	if r.Signature != "" {
		if q != "" {
			q += "&"
		}
		q += paramSignature + "=" + url.QueryEscape(r.Signature)
	}
	if q == "" {
		return r.Path
	}
	sep := "?"
	if strings.Contains(r.Path, "?") {
		sep = "&"
	}
	return r.Path + sep + q
}

func (c *Client) buildRequest(ep Endpoint, in args) (preparedRequest, error) {
	req := preparedRequest{
		Endpoint: ep,
		Method:   ep.Method,
		Path:     ep.Path,
		Header:   http.Header{},
	}
	if ep.Auth != AuthNone {
		if c.creds.APIKey == "" {
			return preparedRequest{}, configError(ep.Name, ErrMissingAPIKey)
		}
		req.Header.Set(headerAPIKey, c.creds.APIKey)
	}

	values := make(args, len(in)+2)
	for k, v := range in {
		values[k] = v
	}
	if ep.Auth == AuthSigned {
		if c.signer == nil {
			return preparedRequest{}, configError(ep.Name, ErrMissingSecret)
		}
		values[paramTimestamp] = c.now()
		if d, _ := values[paramRecvWindow].(time.Duration); d <= 0 {
			values[paramRecvWindow] = c.recvWindow
		}
	}

	var params Params
	for _, spec := range ep.Params {
		v, ok, err := formatParam(spec, values[spec.Name])
		if err != nil {
			return preparedRequest{}, configError(ep.Name, err)
		}
		if !ok {
			if spec.Required {
				return preparedRequest{}, missingParam(ep, spec.Name)
			}
			continue
		}
		if ep.In == InPath {
			req.Path = strings.ReplaceAll(req.Path, "{"+spec.Name+"}", url.QueryEscape(v))
			continue
		}
		params.Set(spec.Name, v)
	}

	switch ep.In {
	case InForm:
		req.Body = params.Encode()
		req.Header.Set("Content-Type", formContentType)
	case InQuery:
		req.Query = params.Encode()
	}

	if ep.Auth == AuthSigned {
		sig, err := c.signer.Sign(req.Payload())
		if err != nil {
			return preparedRequest{}, configError(ep.Name, err)
		}
		req.Signature = sig
	}
	return req, nil
}
