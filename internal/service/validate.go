package service

import (
	"regexp"
	"strings"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/proximity"
)

const maxNameLength = 50

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLength {
		return "", appErr.ErrInvalid
	}
	return name, nil
}

func requireText(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", appErr.ErrInvalid
	}
	return value, nil
}

func parseSport(raw string) (model.Sport, error) {
	sport, ok := model.ParseSport(raw)
	if !ok {
		return "", appErr.ErrInvalid
	}
	return sport, nil
}

// validateLocation accepts both coordinates or neither.
func validateLocation(lat, lon *float64) error {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil || !proximity.ValidCoordinates(*lat, *lon) {
		return appErr.ErrInvalid
	}
	return nil
}
