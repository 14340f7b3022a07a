package departures

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Interchange stops whose presence on a station interval earns the
// destination a disambiguating "via" label.
var viaStopLabels = map[string][]string{
	"via Bank":          {"940GZZLUBNK"},
	"via Charing Cross": {"940GZZLUCHX"},
}

// The TfL timetable API nests its data polymorphically: a response can be an
// array, a flat departure list, a container of further timetables, or a
// routed timetable with station intervals and schedules - and several of
// those at once. Classify each node into one of a closed set of shapes and
// recurse explicitly rather than type-sniffing at call sites.
type timetableShape int

const (
	shapeUnrecognized timetableShape = iota
	shapeArray
	shapeNode
)

func classifyTimetable(raw any) timetableShape {
	switch raw.(type) {
	case []any:
		return shapeArray
	case map[string]any:
		return shapeNode
	}

	return shapeUnrecognized
}

// TimetableToDepartures walks a decoded timetable payload of unknown shape
// and emits every scheduled departure inside [now, windowEnd], deduplicated
// on (exact instant, normalized destination) and sorted ascending.
func TimetableToDepartures(raw any, now time.Time, windowEnd time.Time, location *time.Location) []Departure {
	scheduled := expandTimetable(raw, now, windowEnd, location, nil)

	sort.Slice(scheduled, func(i, j int) bool {
		return scheduled[i].When.Before(scheduled[j].When)
	})

	return dedupeExact(scheduled)
}

func expandTimetable(raw any, now time.Time, windowEnd time.Time, location *time.Location, inheritedStops map[string]string) []Departure {
	switch classifyTimetable(raw) {
	case shapeArray:
		var scheduled []Departure
		for _, item := range raw.([]any) {
			scheduled = append(scheduled, expandTimetable(item, now, windowEnd, location, inheritedStops)...)
		}
		return scheduled

	case shapeNode:
		node := raw.(map[string]any)
		stopMap := mergeStopMaps(inheritedStops, extractStopMap(node))

		var scheduled []Departure

		if departureList, ok := node["departures"]; ok {
			scheduled = append(scheduled, parseDepartureList(departureList, now, windowEnd, location)...)
		}

		if container, ok := node["timetables"].([]any); ok {
			for _, item := range container {
				scheduled = append(scheduled, expandTimetable(item, now, windowEnd, location, stopMap)...)
			}
		}

		if routed, ok := node["timetable"]; ok {
			scheduled = append(scheduled, parseRoutedTimetable(routed, now, windowEnd, location, stopMap)...)
		} else if _, ok := node["routes"]; ok {
			scheduled = append(scheduled, parseRoutedTimetable(node, now, windowEnd, location, stopMap)...)
		}

		return scheduled
	}

	return nil
}

// TimetableDestinations collects the distinct interval destinations reachable
// anywhere in a timetable tree, sorted. Used to list where a stop's
// timetabled services actually go.
func TimetableDestinations(raw any) []string {
	destinationSet := map[string]bool{}
	collectTimetableDestinations(raw, destinationSet, nil)

	destinations := make([]string, 0, len(destinationSet))
	for destination := range destinationSet {
		destinations = append(destinations, destination)
	}
	sort.Strings(destinations)

	return destinations
}

func collectTimetableDestinations(raw any, destinations map[string]bool, inheritedStops map[string]string) {
	switch classifyTimetable(raw) {
	case shapeArray:
		for _, item := range raw.([]any) {
			collectTimetableDestinations(item, destinations, inheritedStops)
		}

	case shapeNode:
		node := raw.(map[string]any)
		stopMap := mergeStopMaps(inheritedStops, extractStopMap(node))

		if container, ok := node["timetables"].([]any); ok {
			for _, item := range container {
				collectTimetableDestinations(item, destinations, stopMap)
			}
		}
		if routed, ok := node["timetable"]; ok {
			collectTimetableDestinations(routed, destinations, stopMap)
		}
		if routes, ok := node["routes"].([]any); ok {
			for _, rawRoute := range routes {
				route, ok := rawRoute.(map[string]any)
				if !ok {
					continue
				}

				intervalDestinations, _ := buildIntervalDestinations(route, stopMap)
				for _, destination := range intervalDestinations {
					destinations[destination] = true
				}
			}
		}
	}
}

func extractStopMap(node map[string]any) map[string]string {
	stops, ok := node["stops"].([]any)
	if !ok {
		return nil
	}

	stopMap := map[string]string{}
	for _, rawStop := range stops {
		stop, ok := rawStop.(map[string]any)
		if !ok {
			continue
		}

		stopID := stringValue(stop["id"])
		name := stringValue(stop["name"])
		if stopID != "" && name != "" {
			stopMap[stopID] = name
		}
	}

	return stopMap
}

func mergeStopMaps(inherited map[string]string, local map[string]string) map[string]string {
	if len(local) == 0 {
		return inherited
	}

	merged := map[string]string{}
	for stopID, name := range inherited {
		merged[stopID] = name
	}
	for stopID, name := range local {
		merged[stopID] = name
	}

	return merged
}

// parseDepartureList handles the flat shape: a list of entries each carrying
// a time (timestamp string, clock-of-day, {hour,minute} object, or relative
// seconds) and a destination.
func parseDepartureList(raw any, now time.Time, windowEnd time.Time, location *time.Location) []Departure {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}

	var scheduled []Departure
	for _, rawEntry := range entries {
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			continue
		}

		timeValue := firstPresent(entry, "departureTime", "scheduledTime", "time")

		var when time.Time
		var resolved bool
		switch typed := timeValue.(type) {
		case string:
			when, resolved = ParseISODateTime(typed, location)
			if !resolved {
				when, resolved = ParseTimeOfDay(typed, now, location)
			}
		case map[string]any:
			when, resolved = parseTimeValue(typed, now, location)
		case float64:
			when, resolved = now.Add(time.Duration(typed*float64(time.Second))), true
		}

		if !resolved || when.Before(now) || when.After(windowEnd) {
			continue
		}

		destination := stringValue(firstPresent(entry, "destination", "destinationName"))
		if destination == "" {
			destination = "Unknown"
		}

		scheduled = append(scheduled, Departure{
			When:        when,
			Destination: destination,
			Source:      SourceScheduled,
		})
	}

	return scheduled
}

// parseRoutedTimetable handles the routed shape: routes with station
// intervals and day-scoped schedules.
func parseRoutedTimetable(raw any, now time.Time, windowEnd time.Time, location *time.Location, inheritedStops map[string]string) []Departure {
	switch classifyTimetable(raw) {
	case shapeArray:
		var scheduled []Departure
		for _, item := range raw.([]any) {
			scheduled = append(scheduled, parseRoutedTimetable(item, now, windowEnd, location, inheritedStops)...)
		}
		return scheduled

	case shapeNode:
		node := raw.(map[string]any)
		stopMap := mergeStopMaps(inheritedStops, extractStopMap(node))

		routes, ok := node["routes"].([]any)
		if !ok {
			return nil
		}

		var scheduled []Departure
		for _, rawRoute := range routes {
			route, ok := rawRoute.(map[string]any)
			if !ok {
				continue
			}
			scheduled = append(scheduled, parseRoute(route, now, windowEnd, location, stopMap)...)
		}
		return scheduled
	}

	return nil
}

func parseRoute(route map[string]any, now time.Time, windowEnd time.Time, location *time.Location, stopMap map[string]string) []Departure {
	defaultDestination := stringValue(firstPresent(route, "destination", "destinationName", "name", "lineString", "direction"))
	if defaultDestination == "" {
		defaultDestination = "Unknown"
	}

	intervalDestinations, firstIntervalID := buildIntervalDestinations(route, stopMap)
	intervalStops := buildIntervalStops(route, stopMap)

	if destination, ok := intervalDestinations[firstIntervalID]; ok {
		defaultDestination = destination
	}

	// When the route has exactly one interval every frequency-derived
	// departure inherits its stop set.
	var routeStops []string
	if len(intervalStops) == 1 {
		for _, stops := range intervalStops {
			routeStops = stops
		}
	}

	schedules, _ := route["schedules"].([]any)

	var matching []map[string]any
	var all []map[string]any
	for _, rawSchedule := range schedules {
		schedule, ok := rawSchedule.(map[string]any)
		if !ok {
			continue
		}

		all = append(all, schedule)
		if scheduleMatchesDay(schedule["name"], now) {
			matching = append(matching, schedule)
		}
	}
	// No schedule matched today - better to over-include than silently
	// show nothing.
	if len(matching) == 0 {
		matching = all
	}

	var scheduled []Departure
	for _, schedule := range matching {
		known := parseKnownJourneys(schedule, intervalDestinations, intervalStops, defaultDestination, now, windowEnd, location)
		if len(known) > 0 {
			scheduled = append(scheduled, known...)
			continue
		}

		periods, _ := schedule["periods"].([]any)
		for _, rawPeriod := range periods {
			period, ok := rawPeriod.(map[string]any)
			if !ok {
				continue
			}
			scheduled = append(scheduled, parseSchedulePeriod(period, defaultDestination, now, windowEnd, location, routeStops)...)
		}
	}

	return scheduled
}

func scheduleMatchesDay(name any, now time.Time) bool {
	text, ok := name.(string)
	if !ok {
		return true
	}
	text = strings.ToLower(text)

	day := strings.ToLower(now.Weekday().String())
	if strings.Contains(text, day) {
		return true
	}

	weekday := now.Weekday() >= time.Monday && now.Weekday() <= time.Friday
	if strings.Contains(text, "weekday") && weekday {
		return true
	}
	if strings.Contains(text, "monday - thursday") && now.Weekday() >= time.Monday && now.Weekday() <= time.Thursday {
		return true
	}

	return false
}

// buildIntervalDestinations maps each station-interval id to its effective
// destination: the name of the interval's final stop, with a "via" label
// appended when the interval passes a flagged interchange. Also returns the
// first interval's id so callers can use it as the route default.
func buildIntervalDestinations(route map[string]any, stopMap map[string]string) (map[string]string, string) {
	destinations := map[string]string{}
	firstIntervalID := ""

	forEachInterval(route, func(intervalID string, stopIDs []string) {
		destination := stopMap[stopIDs[len(stopIDs)-1]]
		if destination == "" {
			destination = stopIDs[len(stopIDs)-1]
		}

		if via := detectVia(stopIDs); via != "" {
			destination = fmt.Sprintf("%s %s", destination, via)
		}

		if firstIntervalID == "" && len(destinations) == 0 {
			firstIntervalID = intervalID
		}
		destinations[intervalID] = destination
	})

	return destinations, firstIntervalID
}

// buildIntervalStops maps each station-interval id to the set of stop names
// the interval touches, for "towards an intermediate stop" matching.
func buildIntervalStops(route map[string]any, stopMap map[string]string) map[string][]string {
	intervalStops := map[string][]string{}

	forEachInterval(route, func(intervalID string, stopIDs []string) {
		nameSet := map[string]bool{}
		for _, stopID := range stopIDs {
			name := stopMap[stopID]
			if name == "" {
				name = stopID
			}
			nameSet[name] = true
		}

		names := make([]string, 0, len(nameSet))
		for name := range nameSet {
			names = append(names, name)
		}
		sort.Strings(names)

		intervalStops[intervalID] = names
	})

	return intervalStops
}

func forEachInterval(route map[string]any, visit func(intervalID string, stopIDs []string)) {
	intervals, ok := route["stationIntervals"].([]any)
	if !ok {
		return
	}

	for _, rawInterval := range intervals {
		interval, ok := rawInterval.(map[string]any)
		if !ok {
			continue
		}

		intervalID := stringValue(interval["id"])
		if intervalID == "" {
			continue
		}

		stops, ok := interval["intervals"].([]any)
		if !ok || len(stops) == 0 {
			continue
		}

		var stopIDs []string
		for _, rawStop := range stops {
			stop, ok := rawStop.(map[string]any)
			if !ok {
				continue
			}
			if stopID := stringValue(stop["stopId"]); stopID != "" {
				stopIDs = append(stopIDs, stopID)
			}
		}
		if len(stopIDs) == 0 {
			continue
		}

		visit(intervalID, stopIDs)
	}
}

func detectVia(stopIDs []string) string {
	for label, viaIDs := range viaStopLabels {
		for _, stopID := range stopIDs {
			for _, viaID := range viaIDs {
				if stopID == viaID {
					return label
				}
			}
		}
	}

	return ""
}

// parseKnownJourneys handles explicitly enumerated trips: each journey
// carries its own clock time and an interval reference resolving to a
// specific destination and stop set.
func parseKnownJourneys(schedule map[string]any, intervalDestinations map[string]string, intervalStops map[string][]string, defaultDestination string, now time.Time, windowEnd time.Time, location *time.Location) []Departure {
	journeys, ok := schedule["knownJourneys"].([]any)
	if !ok {
		return nil
	}

	var scheduled []Departure
	for _, rawJourney := range journeys {
		journey, ok := rawJourney.(map[string]any)
		if !ok {
			continue
		}

		when, resolved := parseTimeValue(journey, now, location)
		if !resolved || when.Before(now) || when.After(windowEnd) {
			continue
		}

		destination := defaultDestination
		var stops []string
		if intervalID := stringValue(journey["intervalId"]); intervalID != "" {
			if intervalDestination, ok := intervalDestinations[intervalID]; ok {
				destination = intervalDestination
			}
			stops = intervalStops[intervalID]
		}

		scheduled = append(scheduled, Departure{
			When:        when,
			Destination: destination,
			Source:      SourceScheduled,
			Stops:       stops,
		})
	}

	return scheduled
}

// parseSchedulePeriod handles the recurring shapes: an explicit times list,
// or a start/end/frequency period expanded in whole frequency steps. The
// first instance is never earlier than now; the end time is inclusive.
func parseSchedulePeriod(period map[string]any, destination string, now time.Time, windowEnd time.Time, location *time.Location, stops []string) []Departure {
	if times, ok := period["times"].([]any); ok {
		var scheduled []Departure
		for _, timeValue := range times {
			when, resolved := parseTimeValue(timeValue, now, location)
			if !resolved || when.Before(now) || when.After(windowEnd) {
				continue
			}

			scheduled = append(scheduled, Departure{
				When:        when,
				Destination: destination,
				Source:      SourceScheduled,
				Stops:       stops,
			})
		}
		return scheduled
	}

	start, startOk := parseTimeValue(firstPresent(period, "startTime", "fromTime"), now, location)
	end, endOk := parseTimeValue(firstPresent(period, "endTime", "toTime"), now, location)
	frequencyMinutes, frequencyOk := toFloat(period["frequency"])
	if !startOk || !endOk || !frequencyOk {
		return nil
	}
	if frequencyMinutes <= 0 {
		// Malformed period
		return nil
	}
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	frequency := time.Duration(frequencyMinutes * float64(time.Minute))

	// Align the first instance to the frequency grid at or after now using
	// whole step counts - repeated addition would drift on long windows.
	first := start
	if now.After(start) {
		steps := int64(now.Sub(start) / frequency)
		first = start.Add(time.Duration(steps) * frequency)
		if first.Before(now) {
			first = first.Add(frequency)
		}
	}

	var scheduled []Departure
	for step := int64(0); ; step++ {
		when := first.Add(time.Duration(step) * frequency)
		if when.After(end) || when.After(windowEnd) {
			break
		}

		scheduled = append(scheduled, Departure{
			When:        when,
			Destination: destination,
			Source:      SourceScheduled,
			Stops:       stops,
		})
	}

	return scheduled
}

func dedupeExact(scheduled []Departure) []Departure {
	seen := map[string]bool{}

	var unique []Departure
	for _, departure := range scheduled {
		key := fmt.Sprintf("%d|%s", departure.When.UnixNano(), NormalizeName(departure.Destination))
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, departure)
	}

	return unique
}

func firstPresent(node map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := node[key]; ok && value != nil {
			if text, isString := value.(string); isString && text == "" {
				continue
			}
			return value
		}
	}

	return nil
}

// stringValue renders a decoded JSON scalar as the string key the TfL API
// semantics expect - interval ids in particular arrive as numbers but are
// referenced as strings.
func stringValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprintf("%v", typed)
	case nil:
		return ""
	}

	return fmt.Sprintf("%v", value)
}
