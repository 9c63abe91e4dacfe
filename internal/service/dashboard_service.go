package service

import (
	"time"

	"go-weighbridge-ws/internal/cache"
	"go-weighbridge-ws/internal/repository"
)

type DashboardService interface {
	GetTripThroughput(days int) ([]repository.TripThroughputData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	tripRepo repository.TripRepository
	cache    *cache.Cache
}

func NewDashboardService(tripRepo repository.TripRepository, c *cache.Cache) DashboardService {
	return &dashboardService{tripRepo: tripRepo, cache: c}
}

func (s *dashboardService) GetTripThroughput(days int) ([]repository.TripThroughputData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.tripRepo.GetTripThroughput(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	var cached repository.DashboardStats
	if err := s.cache.GetJSON(cache.KeyDashboardStats, &cached); err == nil {
		return &cached, nil
	}

	stats, err := s.tripRepo.GetDashboardStats()
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(cache.KeyDashboardStats, stats)
	return stats, nil
}
