package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type InvalidParameterError struct {
	Name  string
	Value string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("Invalid %s: %q", e.Name, e.Value)
}

// ParsePage reads the 1-based "page" parameter. A missing page is page 1.
func ParsePage(params map[string]string) (int, error) {
	raw, ok := params["page"]
	if !ok || strings.TrimSpace(raw) == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, InvalidParameterError{Name: "page", Value: raw}
	}
	return page, nil
}

// ParseFloat reads an optional numeric parameter. ok is false when the
// parameter is absent or blank.
func ParseFloat(params map[string]string, name string) (value float64, ok bool, err error) {
	raw, present := params[name]
	if !present || strings.TrimSpace(raw) == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, InvalidParameterError{Name: name, Value: raw}
	}
	return value, true, nil
}
