package carclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"car-rental/internal/pkg/config"
	"car-rental/internal/pkg/errs"
	"car-rental/internal/usecase/readmodel"
)

var (
	// ErrCarNotFound: the car id is unknown to the car service.
	ErrCarNotFound = errs.New("car not found")
	// ErrCarUnavailable: the reserve precondition failed (status != Available).
	ErrCarUnavailable = errs.New("car is not available")
	// ErrDependency: transport fault, timeout, or a 5xx from the car service.
	ErrDependency = errs.New("car service request failed")
)

// Client is the booking service's HTTP client for the car service. Every
// request is bounded by the configured timeout; a timed-out call surfaces as
// ErrDependency and is treated as a failure of the saga step that made it.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg config.CarServiceConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

func (c *Client) GetByID(ctx context.Context, id int64) (*readmodel.CarRM, error) {
	var rm readmodel.CarRM
	url := fmt.Sprintf("%s/api/cars/%d", c.baseURL, id)
	if err := c.do(ctx, http.MethodGet, url, nil, &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

type batchRequest struct {
	IDs []int64 `json:"ids"`
}

func (c *Client) GetByIDs(ctx context.Context, ids []int64) ([]*readmodel.CarRM, error) {
	var rms []*readmodel.CarRM
	url := c.baseURL + "/api/cars/batch"
	if err := c.do(ctx, http.MethodPost, url, batchRequest{IDs: ids}, &rms); err != nil {
		return nil, err
	}
	return rms, nil
}

// Reserve atomically flips the car to Rented; ErrCarUnavailable when the car
// was not Available, with no side effect on the car service.
func (c *Client) Reserve(ctx context.Context, id int64) (*readmodel.CarRM, error) {
	var rm readmodel.CarRM
	url := fmt.Sprintf("%s/api/cars/%d/reserve", c.baseURL, id)
	if err := c.do(ctx, http.MethodPost, url, nil, &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

// Release flips the car back to Available. Idempotent on the car service
// side, so it is safe to retry as a compensating action.
func (c *Client) Release(ctx context.Context, id int64) (*readmodel.CarRM, error) {
	var rm readmodel.CarRM
	url := fmt.Sprintf("%s/api/cars/%d/release", c.baseURL, id)
	if err := c.do(ctx, http.MethodPost, url, nil, &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

func (c *Client) do(ctx context.Context, method, url string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errs.Mark(err, ErrDependency)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return errs.Mark(err, ErrDependency)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Mark(err, ErrDependency)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrCarNotFound
	case resp.StatusCode == http.StatusForbidden:
		return ErrCarUnavailable
	case resp.StatusCode >= 400:
		return errs.Mark(errs.Newf("car service returned status %d", resp.StatusCode), ErrDependency)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Mark(err, ErrDependency)
	}
	return nil
}
