package core

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/inovacc/patchtracker/internal/common"
	"github.com/inovacc/patchtracker/internal/model"
)

// Response codes of the tracking server
const (
	CodeSuccess       = "2001"
	CodeDeleteNothing = "6005"
)

const trackingResource = "tracking"

// DeleteOutcome distinguishes the two successful delete answers
type DeleteOutcome int

const (
	DeleteOutcomeDeleted DeleteOutcome = iota // at least one tracking record was removed
	DeleteOutcomeNothing                      // no tracking record matched
)

// TrackingClient talks to the patch tracking server at https://{server}
type TrackingClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// TrackingClientOptions configures the tracking client
type TrackingClientOptions struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// serverResponse is the envelope every tracking server answer uses
type serverResponse struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// NewInsecureHTTPClient returns a client that does not verify server certificates,
// which is how the tracking server is always contacted.
func NewInsecureHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // tracking server certificates are not verified
	}

	return &http.Client{Transport: transport}
}

// NewTrackingClient creates a client for the tracking server at host[:port] server
func NewTrackingClient(server string, opts TrackingClientOptions) (*TrackingClient, error) {
	if server == "" {
		return nil, &ValidationError{Message: "server is required"}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = NewInsecureHTTPClient()
	}

	return &TrackingClient{
		httpClient: httpClient,
		baseURL:    "https://" + server,
		logger:     loggerOrDefault(opts.Logger),
	}, nil
}

// BaseURL returns the server's root URL
func (c *TrackingClient) BaseURL() string {
	return c.baseURL
}

// Probe checks that the tracking server is reachable. 200 and 404 both count as up.
func (c *TrackingClient) Probe(ctx context.Context) error {
	c.logger.Debug("probing tracking server", slog.String("url", common.SanitizeURL(c.baseURL)))

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return &ExistenceCheckError{Message: fmt.Sprintf("Error: invalid server %s: %v", c.baseURL, err), Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ExistenceCheckError{
			Message: fmt.Sprintf("Error: Cannot connect to %s, please make sure patch-tracking service is running.",
				c.baseURL),
			Err: err,
		}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	return &ExistenceCheckError{Message: fmt.Sprintf("Unexpected Error: %s", string(body))}
}

// Create registers a tracking record
func (c *TrackingClient) Create(ctx context.Context, creds model.Credentials, req model.TrackingRequest) error {
	payload := model.TrackingPayload{
		VersionControl: req.VersionControl,
		SCMRepo:        req.SCMRepo,
		SCMBranch:      req.SCMBranch,
		Repo:           req.Repo,
		Branch:         req.Branch,
		Enabled:        EnabledBool(req.Enabled),
	}

	status, body, err := c.do(ctx, http.MethodPost, trackingResource, nil, payload, &creds)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return &AuthenticationError{StatusCode: status}
	}

	if status == http.StatusOK {
		if resp, ok := decodeResponse(body); ok && resp.Code == CodeSuccess {
			return nil
		}
	}

	c.logger.Warn("unexpected tracking server answer",
		slog.Int("status", status),
		slog.String("body", string(body)),
	)

	return &ServerProtocolError{StatusCode: status, Code: responseCode(body), Body: string(body)}
}

// Delete removes tracking for a repo, or for one of its branches when req.Branch is set
func (c *TrackingClient) Delete(ctx context.Context, creds model.Credentials, req model.DeleteRequest) (DeleteOutcome, error) {
	query := url.Values{}
	query.Set(model.FieldRepo, req.Repo)

	if req.Branch != "" {
		query.Set(model.FieldBranch, req.Branch)
	}

	status, body, err := c.do(ctx, http.MethodDelete, trackingResource, query, nil, &creds)
	if err != nil {
		return DeleteOutcomeNothing, err
	}

	if status == http.StatusOK {
		if resp, ok := decodeResponse(body); ok {
			switch resp.Code {
			case CodeSuccess:
				return DeleteOutcomeDeleted, nil
			case CodeDeleteNothing:
				return DeleteOutcomeNothing, nil
			}
		}
	}

	return DeleteOutcomeNothing, &ServerProtocolError{
		StatusCode: status,
		Code:       responseCode(body),
		Body:       string(body),
		Message:    fmt.Sprintf("Tracking delete failed. Error: %s", string(body)),
	}
}

// Query lists the records of a table, filtered by repo and branch
func (c *TrackingClient) Query(ctx context.Context, req model.QueryRequest) (model.QueryResult, error) {
	if err := CheckTable(req.Table); err != nil {
		return model.QueryResult{}, err
	}

	query := url.Values{}
	if req.Repo != "" {
		query.Set(model.FieldRepo, req.Repo)
	}

	if req.Branch != "" {
		query.Set(model.FieldBranch, req.Branch)
	}

	status, body, err := c.do(ctx, http.MethodGet, string(req.Table), query, nil, nil)
	if err != nil {
		return model.QueryResult{}, err
	}

	resp, ok := decodeResponse(body)
	if status != http.StatusOK || !ok || resp.Code != CodeSuccess {
		return model.QueryResult{}, &ServerProtocolError{StatusCode: status, Code: resp.Code, Body: string(body)}
	}

	result, err := decodeRecords(resp.Data)
	if err != nil {
		return model.QueryResult{}, &ServerProtocolError{
			StatusCode: status,
			Code:       resp.Code,
			Body:       string(body),
			Message:    fmt.Sprintf("failed to decode %s data: %v", req.Table, err),
		}
	}

	return result, nil
}

// do performs a request against the tracking server and returns the raw answer.
// Transport failures become ConnectivityError.
func (c *TrackingClient) do(ctx context.Context, method, resource string, query url.Values, body any, creds *model.Credentials) (int, []byte, error) {
	endpoint := c.baseURL + "/" + resource
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	c.logger.Debug("making tracking server request",
		slog.String("method", method),
		slog.String("url", common.SanitizeURL(endpoint)),
	)

	var bodyReader io.Reader

	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return 0, nil, &ConnectivityError{Err: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if creds != nil {
		req.SetBasicAuth(creds.User, creds.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &ConnectivityError{Err: err}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &ConnectivityError{Err: err}
	}

	c.logger.Debug("tracking server answered",
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(respBody)),
	)

	return resp.StatusCode, respBody, nil
}

func decodeResponse(body []byte) (serverResponse, bool) {
	var resp serverResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return serverResponse{}, false
	}

	return resp, true
}

func responseCode(body []byte) string {
	resp, _ := decodeResponse(body)
	return resp.Code
}

func decodeRecords(data json.RawMessage) (model.QueryResult, error) {
	result := model.QueryResult{Columns: []string{}, Records: []model.Record{}}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return result, nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	if err := dec.Decode(&result.Records); err != nil {
		return model.QueryResult{}, err
	}

	if result.Records == nil {
		result.Records = []model.Record{}
	}

	columns, err := recordKeys(trimmed)
	if err != nil {
		return model.QueryResult{}, err
	}

	result.Columns = columns

	return result, nil
}

// recordKeys walks a JSON array of objects and returns their keys in first-seen order.
// Maps lose the order, so the keys are read from the token stream.
func recordKeys(data string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(data))

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	keys := []string{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		if tok != json.Delim('{') {
			continue
		}

		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}

			if key, ok := keyTok.(string); ok && !slices.Contains(keys, key) {
				keys = append(keys, key)
			}

			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, err
			}
		}

		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	}

	return keys, nil
}
