package analysis

import (
	"math"
	"time"

	"github.com/tempora/deadline-service/backend/models"
	"go.uber.org/zap"
)

// Service computes derived metrics over deadlines
type Service struct {
	logger *zap.Logger
}

// NewService creates a new analysis Service
func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Features holds the derived attributes of a single deadline
type Features struct {
	DaysUntilDeadline float64 `json:"days_until_deadline"`
	PriorityWeight    int     `json:"priority_weight"`
	StatusProgress    float64 `json:"status_progress"`
	IsOverdue         bool    `json:"is_overdue"`
	IsWeekend         bool    `json:"is_weekend"`
}

// RiskFactor describes one detected risk on a deadline
type RiskFactor struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Analysis is the full analysis result for a deadline
type Analysis struct {
	DeadlineID            string       `json:"deadline_id"`
	Features              Features     `json:"features"`
	CompletionProbability float64      `json:"completion_probability"`
	RiskFactors           []RiskFactor `json:"risk_factors"`
	AnalyzedAt            time.Time    `json:"analyzed_at"`
}

// Stats aggregates a set of deadlines
type Stats struct {
	Total                int            `json:"total"`
	Overdue              int            `json:"overdue"`
	OverduePercentage    float64        `json:"overdue_percentage"`
	AverageDaysRemaining float64        `json:"average_days_remaining"`
	ByPriority           map[string]int `json:"by_priority"`
	ByStatus             map[string]int `json:"by_status"`
}

// statusProgress maps each lifecycle state to an estimated completion fraction.
// Cancelled is negative so it never contributes positively to the probability.
var statusProgress = map[models.DeadlineStatus]float64{
	models.DeadlineStatusPending:    0.0,
	models.DeadlineStatusOnHold:     0.3,
	models.DeadlineStatusInProgress: 0.5,
	models.DeadlineStatusCompleted:  1.0,
	models.DeadlineStatusCancelled:  -1.0,
}

// ExtractFeatures derives the analysis features of a deadline relative to now
func (s *Service) ExtractFeatures(d *models.Deadline, now time.Time) Features {
	daysLeft := d.DeadlineDate.Sub(now).Hours() / 24

	wd := d.DeadlineDate.Weekday()
	return Features{
		DaysUntilDeadline: daysLeft,
		PriorityWeight:    d.Priority.Weight(),
		StatusProgress:    statusProgress[d.Status],
		IsOverdue:         d.IsOverdue(now),
		IsWeekend:         wd == time.Saturday || wd == time.Sunday,
	}
}

// CompletionProbability estimates the chance the deadline is met, in [0, 1].
// historical is the caller's prior completion rate; pass a negative value
// when no history is available and the estimate stands alone.
func (s *Service) CompletionProbability(d *models.Deadline, now time.Time, historical float64) float64 {
	if d.Status == models.DeadlineStatusCompleted {
		return 1.0
	}
	if d.Status == models.DeadlineStatusCancelled {
		return 0.0
	}

	f := s.ExtractFeatures(d, now)

	var base float64
	switch {
	case f.DaysUntilDeadline < 0:
		base = 0.1
	case f.DaysUntilDeadline < 1:
		base = 0.4
	case f.DaysUntilDeadline < 3:
		base = 0.6
	case f.DaysUntilDeadline < 7:
		base = 0.75
	default:
		base = 0.85
	}

	// Higher priority work tends to get finished.
	base += float64(f.PriorityWeight-1) * 0.05

	// Work already in flight is more likely to land.
	base += f.StatusProgress * 0.1

	if f.IsWeekend {
		base -= 0.05
	}

	if historical >= 0 {
		base = base*0.7 + historical*0.3
	}

	return math.Max(0, math.Min(1, base))
}

// AnalyzeRisks detects risk factors on a deadline
func (s *Service) AnalyzeRisks(d *models.Deadline, now time.Time) []RiskFactor {
	f := s.ExtractFeatures(d, now)
	var risks []RiskFactor

	if f.IsOverdue {
		risks = append(risks, RiskFactor{
			Code:     "overdue",
			Severity: "high",
			Message:  "the deadline has already passed",
		})
	} else if f.DaysUntilDeadline < 1 && !d.Status.Terminal() {
		risks = append(risks, RiskFactor{
			Code:     "due_soon",
			Severity: "high",
			Message:  "less than one day remains",
		})
	}

	if d.Priority == models.DeadlinePriorityCritical && d.Status == models.DeadlineStatusPending {
		risks = append(risks, RiskFactor{
			Code:     "critical_not_started",
			Severity: "high",
			Message:  "critical deadline has not been started",
		})
	}

	if d.Status == models.DeadlineStatusOnHold && f.DaysUntilDeadline < 3 {
		risks = append(risks, RiskFactor{
			Code:     "on_hold_near_deadline",
			Severity: "medium",
			Message:  "work is on hold with the deadline approaching",
		})
	}

	if f.IsWeekend && !d.Status.Terminal() {
		risks = append(risks, RiskFactor{
			Code:     "weekend_deadline",
			Severity: "low",
			Message:  "the deadline falls on a weekend",
		})
	}

	return risks
}

// Analyze runs the full analysis for a single deadline
func (s *Service) Analyze(d *models.Deadline, now time.Time, historical float64) Analysis {
	a := Analysis{
		DeadlineID:            d.ID.String(),
		Features:              s.ExtractFeatures(d, now),
		CompletionProbability: s.CompletionProbability(d, now, historical),
		RiskFactors:           s.AnalyzeRisks(d, now),
		AnalyzedAt:            now,
	}

	s.logger.Debug("deadline analyzed",
		zap.String("id", a.DeadlineID),
		zap.Float64("completion_probability", a.CompletionProbability),
		zap.Int("risk_factors", len(a.RiskFactors)))
	return a
}

// ComputeStats aggregates statistics over a set of deadlines
func (s *Service) ComputeStats(deadlines []*models.Deadline, now time.Time) Stats {
	stats := Stats{
		Total:      len(deadlines),
		ByPriority: make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	if stats.Total == 0 {
		return stats
	}

	var daysSum float64
	for _, d := range deadlines {
		if d.IsOverdue(now) {
			stats.Overdue++
		}
		daysSum += d.DeadlineDate.Sub(now).Hours() / 24
		stats.ByPriority[string(d.Priority)]++
		stats.ByStatus[string(d.Status)]++
	}

	stats.OverduePercentage = float64(stats.Overdue) / float64(stats.Total) * 100
	stats.AverageDaysRemaining = daysSum / float64(stats.Total)
	return stats
}
