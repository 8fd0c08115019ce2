package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/proximity"
	"github.com/xxxsen/sportmate/internal/repo"
)

type DiscoveryConfig struct {
	DiscoverLimit int
	NearbyLimit   int
	ActiveLimit   int
	// ScanLimit bounds how many pre-filtered profiles are loaded per listing.
	ScanLimit int
}

type DiscoveryService struct {
	users UserStore
	cfg   DiscoveryConfig
	now   func() time.Time
}

func NewDiscoveryService(users UserStore, cfg DiscoveryConfig) *DiscoveryService {
	if cfg.DiscoverLimit <= 0 {
		cfg.DiscoverLimit = 50
	}
	if cfg.NearbyLimit <= 0 {
		cfg.NearbyLimit = 20
	}
	if cfg.ActiveLimit <= 0 {
		cfg.ActiveLimit = 30
	}
	if cfg.ScanLimit <= 0 {
		cfg.ScanLimit = 1000
	}
	return &DiscoveryService{users: users, cfg: cfg, now: time.Now}
}

type DiscoverQuery struct {
	Sport         string
	City          string
	Area          string
	Name          string
	ActiveOnly    bool
	MaxDistanceKm float64
}

type NearbyQuery struct {
	Sport          string
	MaxDistanceKm  float64
	SortByDistance bool
}

func (s *DiscoveryService) Discover(ctx context.Context, requesterID string, q DiscoverQuery) ([]proximity.Candidate, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	sport, err := optionalSport(q.Sport)
	if err != nil {
		return nil, err
	}
	filter := proximity.Filter{
		Sport:         sport,
		City:          q.City,
		Area:          q.Area,
		Name:          q.Name,
		ActiveOnly:    q.ActiveOnly,
		MaxDistanceKm: q.MaxDistanceKm,
	}
	now := s.now()
	profiles, err := s.candidates(ctx, requester, filter, now)
	if err != nil {
		return nil, err
	}
	return proximity.Rank(proximity.RequesterOf(requester), filter, profiles, now, s.cfg.DiscoverLimit), nil
}

// Nearby lists users in the requester's city split by area.
func (s *DiscoveryService) Nearby(ctx context.Context, requesterID string, q NearbyQuery) (*proximity.NearbyResult, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	sport, err := optionalSport(q.Sport)
	if err != nil {
		return nil, err
	}
	filter := proximity.Filter{
		Sport:          sport,
		City:           requester.City,
		MaxDistanceKm:  q.MaxDistanceKm,
		SortByDistance: q.SortByDistance,
	}
	now := s.now()
	profiles, err := s.candidates(ctx, requester, filter, now)
	if err != nil {
		return nil, err
	}
	result := proximity.RankNearby(proximity.RequesterOf(requester), filter, profiles, now, s.cfg.NearbyLimit)
	return &result, nil
}

func (s *DiscoveryService) Active(ctx context.Context, requesterID string) ([]proximity.Candidate, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	filter := proximity.Filter{ActiveOnly: true}
	now := s.now()
	profiles, err := s.candidates(ctx, requester, filter, now)
	if err != nil {
		return nil, err
	}
	return proximity.Rank(proximity.RequesterOf(requester), filter, profiles, now, s.cfg.ActiveLimit), nil
}

func (s *DiscoveryService) Sports() []model.SportOption {
	return model.SportOptions()
}

func (s *DiscoveryService) candidates(ctx context.Context, requester *model.User, f proximity.Filter, now time.Time) ([]model.User, error) {
	q := repo.CandidateQuery{
		ExcludeID: requester.ID,
		Sport:     f.Sport,
		City:      f.City,
		Area:      f.Area,
		Name:      f.Name,
		Limit:     uint(s.cfg.ScanLimit),
	}
	if f.ActiveOnly {
		q.ActiveAfter = proximity.OnlineCutoff(now).Unix()
	}
	if center, ok := proximity.PointOf(requester.Latitude, requester.Longitude); ok && f.MaxDistanceKm > 0 {
		box := proximity.BoundingBox(center, f.MaxDistanceKm)
		q.Within = &box
	}
	return s.users.ListCandidates(ctx, q)
}

func optionalSport(raw string) (model.Sport, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return parseSport(raw)
}
