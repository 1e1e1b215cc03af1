package driver

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const maxErrorBodySize = 1024

// RequestConfigFunc lets callers adjust an API request before it is sent.
type RequestConfigFunc func(req *APIRequest)

// APIRequest is a small builder around an outbound provider API call.
type APIRequest struct {
	client *http.Client
	url    string
	header http.Header
	query  url.Values
}

func NewAPIRequest(client *http.Client, url string) *APIRequest {
	if client == nil {
		client = http.DefaultClient
	}

	return &APIRequest{
		client: client,
		url:    url,
		header: http.Header{},
		query:  make(map[string][]string),
	}
}

func (r *APIRequest) Header(name string, value string) *APIRequest {
	r.header.Set(name, value)
	return r
}

func (r *APIRequest) Param(name string, value string) *APIRequest {
	r.query.Set(name, value)
	return r
}

func (r *APIRequest) Bearer(token string) *APIRequest {
	return r.Header("Authorization", "Bearer "+token)
}

func (r *APIRequest) URL() string {
	return r.url
}

func (r *APIRequest) Get(ctx context.Context) (*APIResponse, error) {
	return r.do(ctx, http.MethodGet)
}

func (r *APIRequest) do(ctx context.Context, method string) (*APIResponse, error) {
	u, err := url.Parse(r.url)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if len(r.query) > 0 {
		query := u.Query()
		for name, values := range r.query {
			query[name] = values
		}
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req.Header = r.header.Clone()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
		return nil, errors.WithStack(&StatusError{
			URL:        r.url,
			StatusCode: res.StatusCode,
			Body:       string(body),
		})
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	response := &APIResponse{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		raw:        raw,
	}

	if err := response.decode(); err != nil {
		return nil, errors.WithStack(err)
	}

	return response, nil
}

type APIResponse struct {
	StatusCode int
	Header     http.Header

	raw  []byte
	body any
}

// Body returns the decoded JSON object when the response advertised a JSON
// content type, and a string otherwise. A JSON encoded string is returned
// unquoted, to be parsed by DecodeObject.
func (r *APIResponse) Body() any {
	if r.body != nil {
		return r.body
	}

	return string(r.raw)
}

func (r *APIResponse) Raw() []byte {
	return r.raw
}

func (r *APIResponse) decode() error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !isJSONMediaType(mediaType) {
		return nil
	}

	var value any
	if err := json.Unmarshal(r.raw, &value); err != nil {
		return errors.Wrap(err, "could not decode json response")
	}

	switch typ := value.(type) {
	case map[string]any:
		r.body = typ
	case string:
		r.body = typ
	}

	return nil
}

func isJSONMediaType(mediaType string) bool {
	if mediaType == "application/json" {
		return true
	}

	// e.g. application/problem+json
	return strings.HasSuffix(mediaType, "+json")
}

// DecodeObject turns an API body, either already parsed or still a raw JSON
// string, into an object.
func DecodeObject(body any) (map[string]any, error) {
	switch typ := body.(type) {
	case map[string]any:
		return typ, nil
	case string:
		var data map[string]any
		if err := json.Unmarshal([]byte(typ), &data); err != nil {
			return nil, errors.WithStack(err)
		}
		return data, nil
	case []byte:
		return DecodeObject(string(typ))
	default:
		return nil, errors.Errorf("unexpected body type '%T'", body)
	}
}
