package tfl

import (
	"net/url"
	"strings"

	"github.com/versjoost/tube-timing/pkg/departures"
)

// StopPointMatch is one result of a stop point search.
type StopPointMatch struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Modes []string `json:"modes"`
}

type stopPointSearchResponse struct {
	Matches []StopPointMatch `json:"matches"`
}

// StopPoint is the subset of stop point metadata the departures board needs.
type StopPoint struct {
	CommonName string `json:"commonName"`
	Lines      []Line `json:"lines"`
}

type Line struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchStopPoints finds stop points matching a free-text query, optionally
// limited to modes ("tube", "dlr", ...).
func (c *Client) SearchStopPoints(query string, modes []string) ([]StopPointMatch, error) {
	params := url.Values{}
	if len(modes) > 0 {
		params.Set("modes", strings.Join(modes, ","))
	}

	var response stopPointSearchResponse
	if err := c.get("/StopPoint/Search/"+url.PathEscape(query), params, &response); err != nil {
		return nil, err
	}

	return response.Matches, nil
}

// GetStopPoint fetches a stop point's metadata.
func (c *Client) GetStopPoint(stopID string) (*StopPoint, error) {
	var stopPoint StopPoint
	if err := c.get("/StopPoint/"+url.PathEscape(stopID), nil, &stopPoint); err != nil {
		return nil, err
	}

	return &stopPoint, nil
}

// GetArrivals fetches the live arrival predictions for a stop point.
func (c *Client) GetArrivals(stopID string) ([]departures.ArrivalPrediction, error) {
	var arrivals []departures.ArrivalPrediction
	if err := c.get("/StopPoint/"+url.PathEscape(stopID)+"/Arrivals", nil, &arrivals); err != nil {
		return nil, err
	}

	return arrivals, nil
}
