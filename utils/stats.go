package utils

import "time"

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time
	Population           int
	Density              float64
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update records one frame: the generation reached, the live cell count, the
// total cell count and how long the frame took
func (s *Stats) Update(generation, population, cells int, duration time.Duration) {
	s.TotalGenerations = generation
	s.Population = population
	if cells > 0 {
		s.Density = float64(population) / float64(cells) * 100
	}
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Runtime returns the time since the stats were created
func (s *Stats) Runtime() time.Duration {
	return time.Since(s.StartTime)
}
