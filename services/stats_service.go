package services

import (
	"sort"
	"time"

	"threatlens/metrics"
	"threatlens/models"
	"threatlens/repositories"
)

// ServiceLevelWindow is the target turnaround between an article's
// publication and its classification.
const ServiceLevelWindow = 6 * time.Hour

// Overview is the per-type count block the dashboard header shows.
type Overview struct {
	Threats       int64 `json:"threats"`
	Opportunities int64 `json:"opportunities"`
	Neutral       int64 `json:"neutral"`
	Total         int64 `json:"total"`
}

// ServiceLevel is the fraction of classifications completed within the
// window, over rows with both timestamps.
type ServiceLevel struct {
	WithinWindow int64   `json:"within_window"`
	Measured     int64   `json:"measured"`
	Fraction     float64 `json:"fraction"`
}

// TimelineBucket is one day's classified counts.
type TimelineBucket struct {
	Date          string `json:"date"`
	Threats       int64  `json:"threats"`
	Opportunities int64  `json:"opportunities"`
	Neutral       int64  `json:"neutral"`
}

// CriticalityBand is one quartile of the 0-100 criticality scale.
type CriticalityBand struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type StatsService interface {
	Overview(orgID uint) (*Overview, error)
	Backlog(orgID uint) (int64, error)
	ServiceLevel(orgID uint) (*ServiceLevel, error)
	Timeline(orgID uint, from, to string) ([]TimelineBucket, error)
	Criticality(orgID uint) ([]CriticalityBand, error)
}

type statsService struct {
	statsRepo repositories.StatsRepository
	orgRepo   repositories.OrganizationRepository
}

func NewStatsService(statsRepo repositories.StatsRepository, orgRepo repositories.OrganizationRepository) StatsService {
	return &statsService{statsRepo: statsRepo, orgRepo: orgRepo}
}

func (s *statsService) Overview(orgID uint) (*Overview, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return &Overview{}, nil
	}

	counts, err := s.statsRepo.CountByClassification(org)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Threats:       counts[string(models.ValueThreat)],
		Opportunities: counts[string(models.ValueOpportunity)],
		Neutral:       counts[string(models.ValueNeutral)],
	}
	overview.Total = overview.Threats + overview.Opportunities + overview.Neutral
	return overview, nil
}

// Backlog is the queue depth: unresolved classifications for the caller's
// organization, excluding OUTDATED. The prometheus gauge tracks the last
// observed value per organization.
func (s *statsService) Backlog(orgID uint) (int64, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return 0, nil
	}

	count, err := s.statsRepo.CountBacklog(org)
	if err != nil {
		return 0, err
	}
	metrics.BacklogDepth.WithLabelValues(org.Name).Set(float64(count))
	return count, nil
}

func (s *statsService) ServiceLevel(orgID uint) (*ServiceLevel, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return &ServiceLevel{}, nil
	}

	rows, err := s.statsRepo.LatencyRows(org)
	if err != nil {
		return nil, err
	}

	level := &ServiceLevel{Measured: int64(len(rows))}
	for _, row := range rows {
		if row.ClassificationDate.Sub(row.DatePublished) <= ServiceLevelWindow {
			level.WithinWindow++
		}
	}
	if level.Measured > 0 {
		level.Fraction = float64(level.WithinWindow) / float64(level.Measured)
	}
	return level, nil
}

// Criticality buckets classified verdicts into fixed quartile bands so the
// dashboard can render the distribution without per-score rows.
func (s *statsService) Criticality(orgID uint) ([]CriticalityBand, error) {
	bands := []CriticalityBand{
		{Label: "0-24"},
		{Label: "25-49"},
		{Label: "50-74"},
		{Label: "75-100"},
	}

	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return bands, nil
	}

	values, err := s.statsRepo.CriticalityValues(org)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		switch {
		case v < 25:
			bands[0].Count++
		case v < 50:
			bands[1].Count++
		case v < 75:
			bands[2].Count++
		default:
			bands[3].Count++
		}
	}
	return bands, nil
}

func (s *statsService) Timeline(orgID uint, from, to string) ([]TimelineBucket, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return []TimelineBucket{}, nil
	}

	var fromTime, toTime *time.Time
	if t, err := time.Parse("2006-01-02", from); err == nil {
		fromTime = &t
	}
	if t, err := time.Parse("2006-01-02", to); err == nil {
		end := t.AddDate(0, 0, 1)
		toTime = &end
	}

	rows, err := s.statsRepo.TimelineRows(org, fromTime, toTime)
	if err != nil {
		return nil, err
	}

	// Day bucketing happens here rather than in SQL so the aggregate query
	// stays portable across drivers.
	byDay := make(map[string]*TimelineBucket)
	for _, row := range rows {
		day := row.DatePublished.Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &TimelineBucket{Date: day}
			byDay[day] = bucket
		}
		switch models.ClassificationValue(row.Classification) {
		case models.ValueThreat:
			bucket.Threats++
		case models.ValueOpportunity:
			bucket.Opportunities++
		case models.ValueNeutral:
			bucket.Neutral++
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	buckets := make([]TimelineBucket, 0, len(days))
	for _, day := range days {
		buckets = append(buckets, *byDay[day])
	}
	return buckets, nil
}
