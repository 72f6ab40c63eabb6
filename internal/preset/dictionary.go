// Package preset implements the configuration dictionary, the closed set
// of recognized channel keys, and the loader that overlays a dictionary
// section onto a channel's parameter struct with the unit conversions the
// original implementation applies.
package preset

import "strconv"

// Dictionary is a section -> key -> string configuration table, the Go
// shape of the original's section/key dictionary. No Go dependency in the
// retrieval pack implements this particular ini-flavored nested-string-map
// abstraction, so it stays a plain map rather than reaching for a
// mismatched library (see DESIGN.md).
type Dictionary map[string]map[string]string

// Get returns the raw string value for section/key, and whether it was
// present.
func (d Dictionary) Get(section, key string) (string, bool) {
	sec, ok := d[section]
	if !ok {
		return "", false
	}
	v, ok := sec[key]
	return v, ok
}

// GetString returns the section/key's value or def if absent.
func (d Dictionary) GetString(section, key, def string) string {
	if v, ok := d.Get(section, key); ok {
		return v
	}
	return def
}

// GetFloat parses the section/key's value as a float64, returning def if
// the key is absent or the value doesn't parse.
func (d Dictionary) GetFloat(section, key string, def float64) float64 {
	v, ok := d.Get(section, key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GetInt parses the section/key's value as an int, returning def if absent
// or unparseable.
func (d Dictionary) GetInt(section, key string, def int) int {
	v, ok := d.Get(section, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetBool parses the section/key's value as a boolean, returning def if
// absent or unparseable. Accepts the usual yes/no/true/false/1/0 forms via
// strconv.ParseBool plus the common yes/no spellings.
func (d Dictionary) GetBool(section, key string, def bool) bool {
	v, ok := d.Get(section, key)
	if !ok {
		return def
	}
	switch v {
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Validate rejects a section that contains any key outside the closed
// recognized set, per the control plane's "unknown keys MUST be rejected
// at table-validation time" rule.
func (d Dictionary) Validate(section string) error {
	sec, ok := d[section]
	if !ok {
		return nil
	}
	for key := range sec {
		if !recognizedKeys[key] {
			return &UnrecognizedKeyError{Section: section, Key: key}
		}
	}
	return nil
}

// UnrecognizedKeyError reports a configuration key outside the closed set.
type UnrecognizedKeyError struct {
	Section, Key string
}

func (e *UnrecognizedKeyError) Error() string {
	return "preset: unrecognized key \"" + e.Key + "\" in section \"" + e.Section + "\""
}
