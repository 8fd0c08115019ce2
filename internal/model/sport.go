package model

import "strings"

type Sport string

const (
	SportFootball   Sport = "football"
	SportCricket    Sport = "cricket"
	SportBadminton  Sport = "badminton"
	SportTennis     Sport = "tennis"
	SportBasketball Sport = "basketball"
	SportVolleyball Sport = "volleyball"
	SportHockey     Sport = "hockey"
	SportSwimming   Sport = "swimming"
)

type SportOption struct {
	Value Sport  `json:"value"`
	Label string `json:"label"`
}

var sportOptions = []SportOption{
	{Value: SportFootball, Label: "Football"},
	{Value: SportCricket, Label: "Cricket"},
	{Value: SportBadminton, Label: "Badminton"},
	{Value: SportTennis, Label: "Tennis"},
	{Value: SportBasketball, Label: "Basketball"},
	{Value: SportVolleyball, Label: "Volleyball"},
	{Value: SportHockey, Label: "Hockey"},
	{Value: SportSwimming, Label: "Swimming"},
}

// SportOptions returns the supported sports in display order.
func SportOptions() []SportOption {
	out := make([]SportOption, len(sportOptions))
	copy(out, sportOptions)
	return out
}

func (s Sport) Valid() bool {
	for _, opt := range sportOptions {
		if opt.Value == s {
			return true
		}
	}
	return false
}

// ParseSport normalizes raw input and validates it against the supported set.
func ParseSport(raw string) (Sport, bool) {
	s := Sport(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}
