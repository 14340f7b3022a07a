package departures

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Built-in equivalences between how TfL labels a destination and how people
// ask for it. Keys and aliases are normalized-name form.
var baseTowardsAliases = map[string][]string{
	"battersea power station": {"battersea"},
	"charing cross":           {"cx", "chx"},
	"saint":                   {"st"},
	"st":                      {"saint"},
}

// Destinations whose "via X" label changes meaning with travel direction.
var viaDirectionSensitive = []string{"charing cross", "bank"}

// Proper-noun forms restored for display after canonicalisation.
var towardsDisplayOverrides = map[string]string{
	"battersea power station": "Battersea Power Station",
	"charing cross":           "Charing Cross",
}

var (
	viaTokenPattern     = regexp.MustCompile(`(?i)\bvia\b`)
	powerStationPattern = regexp.MustCompile(`(?i)\bpower station\b`)
)

// AliasIndex is the bidirectional towards-alias table built once per
// invocation and passed explicitly to everything that canonicalises
// destinations. It is never mutated after construction.
type AliasIndex struct {
	aliases          map[string]map[string]bool
	canonical        map[string]string
	displayOverrides map[string]string
}

// NewAliasIndex builds the index from the built-in table plus any
// caller-supplied overrides, each override being canonical key -> aliases.
func NewAliasIndex(overrides ...map[string][]string) AliasIndex {
	aliases := map[string]map[string]bool{}

	merge := func(table map[string][]string, normalise bool) {
		for key, values := range table {
			if normalise {
				key = NormalizeName(key)
			}
			if key == "" {
				continue
			}

			if aliases[key] == nil {
				aliases[key] = map[string]bool{}
			}
			for _, value := range values {
				if normalise {
					value = NormalizeName(value)
				}
				if value != "" {
					aliases[key][value] = true
				}
			}
		}
	}

	merge(baseTowardsAliases, false)
	for _, override := range overrides {
		merge(override, true)
	}

	canonical := map[string]string{}
	for key, aliasSet := range aliases {
		canonical[key] = key
		for alias := range aliasSet {
			canonical[alias] = key
		}
	}

	return AliasIndex{
		aliases:          aliases,
		canonical:        canonical,
		displayOverrides: towardsDisplayOverrides,
	}
}

// AliasIndexFromEnvironment builds the invocation's alias index from the base
// table merged with TUBE_TIMING_TOWARDS_ALIASES ("key=v1,v2;key2=v3" entries)
// and an optional YAML file referenced by TUBE_TIMING_TOWARDS_ALIASES_FILE.
func AliasIndexFromEnvironment(env map[string]string) AliasIndex {
	var overrides []map[string][]string

	if inline := strings.TrimSpace(env["TUBE_TIMING_TOWARDS_ALIASES"]); inline != "" {
		overrides = append(overrides, parseInlineAliases(inline))
	}

	if path := strings.TrimSpace(env["TUBE_TIMING_TOWARDS_ALIASES_FILE"]); path != "" {
		fileOverrides, err := loadAliasFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to load towards alias file")
		} else {
			overrides = append(overrides, fileOverrides)
		}
	}

	return NewAliasIndex(overrides...)
}

func parseInlineAliases(value string) map[string][]string {
	table := map[string][]string{}

	for _, entry := range strings.Split(value, ";") {
		if strings.TrimSpace(entry) == "" || !strings.Contains(entry, "=") {
			continue
		}

		pair := strings.SplitN(entry, "=", 2)
		key := NormalizeName(pair[0])
		if key == "" {
			continue
		}

		for _, alias := range strings.Split(pair[1], ",") {
			if normalized := NormalizeName(alias); normalized != "" {
				table[key] = append(table[key], normalized)
			}
		}
	}

	return table
}

func loadAliasFile(path string) (map[string][]string, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	table := map[string][]string{}
	if err := yaml.Unmarshal(fileBytes, &table); err != nil {
		return nil, fmt.Errorf("failed to decode alias file: %w", err)
	}

	return table, nil
}

// Canonical maps any normalized key to its canonical form, or returns the key
// unchanged when the table does not know it.
func (index AliasIndex) Canonical(key string) string {
	if canonical, ok := index.canonical[key]; ok {
		return canonical
	}

	return key
}

// TowardsNeedles expands a user's "towards" query into the full equivalence
// closure of needle keys: the normalized query itself, the query with any
// "power station" phrase stripped, and everything reachable through the alias
// table in either direction.
func (index AliasIndex) TowardsNeedles(query string) map[string]bool {
	needles := map[string]bool{}

	if base := NormalizeName(viaTokenPattern.ReplaceAllString(query, "")); base != "" {
		needles[base] = true
	}
	if alt := NormalizeName(powerStationPattern.ReplaceAllString(query, "")); alt != "" {
		needles[alt] = true
	}

	queue := make([]string, 0, len(needles))
	for needle := range needles {
		queue = append(queue, needle)
	}

	add := func(key string) {
		if key != "" && !needles[key] {
			needles[key] = true
			queue = append(queue, key)
		}
	}

	for len(queue) > 0 {
		needle := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		canonical := index.canonical[needle]
		add(canonical)

		aliasSet := index.aliases[needle]
		if aliasSet == nil {
			aliasSet = index.aliases[canonical]
		}
		for alias := range aliasSet {
			add(alias)
		}

		for key, aliasValues := range index.aliases {
			if aliasValues[needle] {
				add(key)
			}
		}
	}

	return needles
}

// IsViaDirectionSensitive reports whether the query names an interchange
// whose "via" label is direction-dependent (so an outbound live departure
// "via Bank" should not satisfy a towards-Bank query).
func (index AliasIndex) IsViaDirectionSensitive(query string) bool {
	normalized := NormalizeName(query)
	if normalized == "" {
		return false
	}

	for _, key := range viaDirectionSensitive {
		keyNorm := NormalizeName(key)
		if strings.Contains(normalized, keyNorm) {
			return true
		}
		for alias := range index.aliases[keyNorm] {
			if strings.Contains(normalized, alias) {
				return true
			}
		}
	}

	return false
}

// CanonicalizeDisplayDestination rewrites a destination for display: both the
// destination and any via part are mapped through the alias table and the
// display override table, then rejoined. Idempotent.
func (index AliasIndex) CanonicalizeDisplayDestination(value string) string {
	destination, via := SplitDestinationVia(value)

	destinationKey := index.Canonical(NormalizeName(destination))
	displayDestination, ok := index.displayOverrides[destinationKey]
	if !ok {
		displayDestination = strings.TrimSpace(destination)
	}

	if via == "" {
		return displayDestination
	}

	viaKey := index.Canonical(NormalizeName(via))
	displayVia, ok := index.displayOverrides[viaKey]
	if !ok {
		displayVia = strings.TrimSpace(via)
	}

	return fmt.Sprintf("%s via %s", displayDestination, displayVia)
}

// NormalizeDestinationKey produces the deduplication key for a destination:
// normalized, "power station" stripped, alias-canonicalised, with any via
// part canonicalised the same way. Two departures with equal keys refer to
// the same place.
func (index AliasIndex) NormalizeDestinationKey(value string) string {
	destination, via := SplitDestinationVia(value)

	destinationNorm := NormalizeName(destination)
	destinationNorm = NormalizeName(powerStationPattern.ReplaceAllString(destinationNorm, ""))
	destinationNorm = index.Canonical(destinationNorm)

	if via == "" {
		return destinationNorm
	}

	viaNorm := index.Canonical(NormalizeName(via))

	return strings.TrimSpace(fmt.Sprintf("%s via %s", destinationNorm, viaNorm))
}
