package tfl

import (
	"net/url"
)

// GetStopPointTimetable fetches the timetable scoped to a stop point. The
// response shape is polymorphic, so it is returned as a decoded JSON value
// for the expander to walk.
func (c *Client) GetStopPointTimetable(stopID string, direction string) (any, error) {
	params := url.Values{}
	if direction != "" {
		params.Set("direction", direction)
	}

	var timetable any
	if err := c.get("/StopPoint/"+url.PathEscape(stopID)+"/Timetable", params, &timetable); err != nil {
		return nil, err
	}

	return timetable, nil
}

// GetLineTimetable fetches a line's timetable at a specific stop.
func (c *Client) GetLineTimetable(lineID string, stopID string, direction string) (any, error) {
	params := url.Values{}
	if direction != "" {
		params.Set("direction", direction)
	}

	var timetable any
	if err := c.get("/Line/"+url.PathEscape(lineID)+"/Timetable/"+url.PathEscape(stopID), params, &timetable); err != nil {
		return nil, err
	}

	return timetable, nil
}
