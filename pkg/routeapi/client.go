package routeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/travigo/tripplanner/pkg/util"
)

const defaultEndpoint = "http://localhost:5000"

const routesPath = "/api/itineraryItemsRoute"

var ErrRouteNotFound = errors.New("route not found")

// ResponseError is returned for any non 2xx answer from the backend
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, util.TrimString(e.Body, 200))
}

// Client talks to the itinerary backend over its JSON REST API
type Client struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client
}

func NewClient(endpoint string, token string) *Client {
	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Token:    token,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func NewClientFromEnvironment() *Client {
	env := util.GetEnvironmentVariables()

	endpoint := defaultEndpoint
	if env["TRIPPLANNER_API_ENDPOINT"] != "" {
		endpoint = env["TRIPPLANNER_API_ENDPOINT"]
	}

	return NewClient(endpoint, env["TRIPPLANNER_API_TOKEN"])
}

// GetRoutesByDayID returns every route whose start and end items are both in the day
func (c *Client) GetRoutesByDayID(ctx context.Context, dayID string) ([]*itinerary.Route, error) {
	var routes []*itinerary.Route
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/day/%s", routesPath, url.PathEscape(dayID)), nil, &routes); err != nil {
		return nil, err
	}

	return routes, nil
}

// GetRouteBetweenItems is mostly used for the connector from the last item of
// a day to the first item of the next day
func (c *Client) GetRouteBetweenItems(ctx context.Context, startItemID string, endItemID string) (*itinerary.Route, error) {
	path := fmt.Sprintf("%s/between/%s/%s", routesPath, url.PathEscape(startItemID), url.PathEscape(endItemID))

	var route itinerary.Route
	if err := c.do(ctx, http.MethodGet, path, nil, &route); err != nil {
		var responseErr *ResponseError
		if errors.As(err, &responseErr) && responseErr.StatusCode == http.StatusNotFound {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	return &route, nil
}

// UpsertRoute replaces all waypoints of the route between the two items,
// creating the route if it does not exist yet
func (c *Client) UpsertRoute(ctx context.Context, request itinerary.RouteUpsert) (*itinerary.Route, error) {
	if request.Waypoints == nil {
		request.Waypoints = []itinerary.WaypointInput{}
	}

	var route itinerary.Route
	if err := c.do(ctx, http.MethodPut, routesPath, request, &route); err != nil {
		return nil, err
	}

	return &route, nil
}

func (c *Client) DeleteRoute(ctx context.Context, routeID string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%s", routesPath, url.PathEscape(routeID)), nil, nil)
}

// GetPlan returns the plan with its itinerary days and items
func (c *Client) GetPlan(ctx context.Context, planID string) (*itinerary.Plan, error) {
	var plan itinerary.Plan
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/plan/%s", url.PathEscape(planID)), nil, &plan); err != nil {
		return nil, err
	}

	return &plan, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Endpoint+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Client-Device", "SERVICE")
	req.Header.Set("Client-Device-Type", "SERVICE")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	startTime := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("latency", time.Since(startTime).String()).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(responseBody),
		}
	}

	if out == nil || len(responseBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}
