package proximity

import (
	"sort"
	"strings"
	"time"

	"github.com/xxxsen/sportmate/internal/model"
)

// Requester is the user a listing is computed for.
type Requester struct {
	ID        string
	Area      string
	Latitude  *float64
	Longitude *float64
}

func RequesterOf(u *model.User) Requester {
	return Requester{ID: u.ID, Area: u.Area, Latitude: u.Latitude, Longitude: u.Longitude}
}

func (r Requester) hasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Filter narrows a listing. Zero values mean "not set".
type Filter struct {
	Sport          model.Sport
	City           string
	Area           string
	Name           string
	ActiveOnly     bool
	MaxDistanceKm  float64
	SortByDistance bool
}

// Candidate is the caller-facing projection of a discoverable profile.
type Candidate struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Sport      model.Sport `json:"sport"`
	City       string      `json:"city"`
	Area       string      `json:"area"`
	IsOnline   bool        `json:"is_online"`
	LastActive int64       `json:"last_active"`
	DistanceKm *float64    `json:"distance_km"`

	distance    float64
	hasDistance bool
}

type Group struct {
	Count int         `json:"count"`
	Items []Candidate `json:"items"`
}

type NearbyResult struct {
	SameArea   Group `json:"same_area"`
	OtherAreas Group `json:"other_areas"`
}

// Rank selects, annotates, orders and truncates candidates for a discovery listing.
//
// With a distance cap and a located requester, candidates without a distance or
// beyond the cap are dropped and the rest are ordered nearest first. Otherwise
// the most recently active come first. limit <= 0 disables truncation.
func Rank(req Requester, f Filter, profiles []model.User, now time.Time, limit int) []Candidate {
	items := collect(req, f, profiles, now)
	sortCandidates(items, orderByDistance(req, f))
	return truncate(items, limit)
}

// RankNearby is Rank split into a same-area bucket and an other-areas bucket.
// Each bucket is ordered and capped on its own.
func RankNearby(req Requester, f Filter, profiles []model.User, now time.Time, limit int) NearbyResult {
	items := collect(req, f, profiles, now)
	same := make([]Candidate, 0)
	other := make([]Candidate, 0)
	for _, item := range items {
		if strings.EqualFold(strings.TrimSpace(item.Area), strings.TrimSpace(req.Area)) {
			same = append(same, item)
			continue
		}
		other = append(other, item)
	}
	byDistance := orderByDistance(req, f)
	sortCandidates(same, byDistance)
	sortCandidates(other, byDistance)
	same = truncate(same, limit)
	other = truncate(other, limit)
	return NearbyResult{
		SameArea:   Group{Count: len(same), Items: same},
		OtherAreas: Group{Count: len(other), Items: other},
	}
}

// Matches reports whether a profile passes the attribute filters of f for req.
// It does not look at activity or distance.
func Matches(req Requester, f Filter, u *model.User) bool {
	if !u.Verified || u.ID == req.ID {
		return false
	}
	if f.Sport != "" && u.Sport != f.Sport {
		return false
	}
	return containsFold(u.City, f.City) && containsFold(u.Area, f.Area) && containsFold(u.Name, f.Name)
}

func collect(req Requester, f Filter, profiles []model.User, now time.Time) []Candidate {
	capDistance := f.MaxDistanceKm > 0 && req.hasLocation()
	items := make([]Candidate, 0, len(profiles))
	for i := range profiles {
		u := &profiles[i]
		if !Matches(req, f, u) {
			continue
		}
		item := annotate(req, u, now)
		if f.ActiveOnly && !item.IsOnline {
			continue
		}
		if capDistance && (!item.hasDistance || item.distance > f.MaxDistanceKm) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func annotate(req Requester, u *model.User, now time.Time) Candidate {
	item := Candidate{
		ID:         u.ID,
		Name:       u.Name,
		Sport:      u.Sport,
		City:       u.City,
		Area:       u.Area,
		IsOnline:   IsOnlineUnix(u.LastActive, now),
		LastActive: u.LastActive,
	}
	if km, ok := DistanceBetween(req.Latitude, req.Longitude, u.Latitude, u.Longitude); ok {
		rounded := RoundKm(km)
		item.distance = km
		item.hasDistance = true
		item.DistanceKm = &rounded
	}
	return item
}

func orderByDistance(req Requester, f Filter) bool {
	return req.hasLocation() && (f.MaxDistanceKm > 0 || f.SortByDistance)
}

func sortCandidates(items []Candidate, byDistance bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if byDistance && (a.hasDistance != b.hasDistance || a.distance != b.distance) {
			if a.hasDistance != b.hasDistance {
				return a.hasDistance
			}
			return a.distance < b.distance
		}
		if a.LastActive != b.LastActive {
			return a.LastActive > b.LastActive
		}
		return a.ID < b.ID
	})
}

func truncate(items []Candidate, limit int) []Candidate {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func containsFold(value, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}
