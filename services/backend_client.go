package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BackendClient talks to an occupation backend over HTTP. During development
// the mock and the real PMS disagree on envelope shapes and field names, so
// the client decodes into raw JSON and unwraps whatever arrives; records are
// returned as maps and normalized later by the resolver.
type BackendClient struct {
	baseURL string
	http    *http.Client
}

func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ActiveOccupationByRoom is the primary lookup: the by-room endpoint that
// should return the single active occupation for the room.
func (c *BackendClient) ActiveOccupationByRoom(ctx context.Context, roomID uint) (map[string]interface{}, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/occupations/room/%d", roomID))
	if err != nil {
		return nil, err
	}
	return unwrapRecord(raw)
}

// OccupationsByRoom is the fallback lookup: the list endpoint filtered by
// room.
func (c *BackendClient) OccupationsByRoom(ctx context.Context, roomID uint) ([]map[string]interface{}, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/occupations?roomId=%d", roomID))
	if err != nil {
		return nil, err
	}
	return unwrapList(raw)
}

// FinalizeOccupation issues the checkout command against the occupation's own
// identifier. The backend owns the billing math and the room status flip; the
// returned record is its billing summary.
func (c *BackendClient) FinalizeOccupation(ctx context.Context, occupationID uint, serviceChargePercentage float64) (map[string]interface{}, error) {
	payload, err := json.Marshal(map[string]float64{
		"serviceChargePercentage": serviceChargePercentage,
	})
	if err != nil {
		return nil, fmt.Errorf("encode finalize payload: %w", err)
	}

	url := fmt.Sprintf("%s/occupations/%d/finalize", c.baseURL, occupationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return unwrapRecord(raw)
}

func (c *BackendClient) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return c.do(req)
}

func (c *BackendClient) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrBackendUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrBackendUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", ErrConflict, backendMessage(body))
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: %s returned %d", ErrBackendUnavailable, req.URL.Path, resp.StatusCode)
	}

	return json.RawMessage(body), nil
}

// backendMessage digs a human-readable message out of an error body,
// best-effort.
func backendMessage(body []byte) string {
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, key := range []string{"message", "error", "detail"} {
			if s, ok := envelope[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return "checkout rejected by backend"
}

// Envelope keys the backends have been seen wrapping lists in.
var listEnvelopeKeys = []string{"occupations", "items", "results", "data"}

// Wrapper keys for single-record responses.
var recordEnvelopeKeys = []string{"occupation", "data", "result"}

func unwrapList(raw json.RawMessage) ([]map[string]interface{}, error) {
	var bare []map[string]interface{}
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: unrecognized list payload: %v", ErrBackendUnavailable, err)
	}
	for _, key := range listEnvelopeKeys {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		var list []map[string]interface{}
		if err := json.Unmarshal(inner, &list); err == nil {
			return list, nil
		}
	}
	return nil, fmt.Errorf("%w: no occupation list in payload", ErrBackendUnavailable)
}

func unwrapRecord(raw json.RawMessage) (map[string]interface{}, error) {
	var record map[string]interface{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: unrecognized record payload: %v", ErrBackendUnavailable, err)
	}
	for _, key := range recordEnvelopeKeys {
		if inner, ok := record[key].(map[string]interface{}); ok {
			return inner, nil
		}
	}
	return record, nil
}
