package ai

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ExpectedAttractions is how many attractions the prompt asks for.
// The count is advisory: DecodeCityInfo accepts any non-zero number.
const ExpectedAttractions = 3

// Attraction is one recommended place inside a CityInfo.
type Attraction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CityInfo is the structured travel brief returned by the model.
type CityInfo struct {
	// CityName is the city the model resolved the query to.
	CityName string `json:"cityName"`

	// Intro is a short greeting plus one interesting fact about the city.
	Intro string `json:"intro"`

	// Attractions lists the must-visit places, in the order the model returned them.
	Attractions []Attraction `json:"attractions"`

	// TravelTip is one piece of local advice.
	TravelTip string `json:"travelTip"`
}

// DecodeCityInfo parses a model response body into a CityInfo and validates it.
// Any failure wraps ErrDecode.
func DecodeCityInfo(raw string) (*CityInfo, error) {
	cleaned := cleanJSONString(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty body", ErrDecode)
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	var info CityInfo
	if err := dec.Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrDecode)
	}

	if err := info.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &info, nil
}

func (c *CityInfo) validate() error {
	switch {
	case strings.TrimSpace(c.CityName) == "":
		return fmt.Errorf("missing cityName")
	case strings.TrimSpace(c.Intro) == "":
		return fmt.Errorf("missing intro")
	case strings.TrimSpace(c.TravelTip) == "":
		return fmt.Errorf("missing travelTip")
	case len(c.Attractions) == 0:
		return fmt.Errorf("missing attractions")
	}
	for i, a := range c.Attractions {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("attraction %d: missing name", i)
		}
		if strings.TrimSpace(a.Description) == "" {
			return fmt.Errorf("attraction %d: missing description", i)
		}
	}
	return nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
