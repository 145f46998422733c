package services

import "sort"

// Engagement levels derived from correctness and network-normalized
// relative speed.
const (
	EngagementActive   = "Active"
	EngagementModerate = "Moderate"
	EngagementPassive  = "Passive"
)

// QuestionStats is the response-time distribution for one question across
// all students. Percentiles are nearest-rank on the sorted times, no
// interpolation, which is good enough for classification but not for
// statistical reporting.
type QuestionStats struct {
	MedianTime     float64 `json:"median_time"`
	P25Time        float64 `json:"p25_time"`
	P75Time        float64 `json:"p75_time"`
	AvgCorrectness float64 `json:"avg_correctness"`
	SampleSize     int     `json:"sample_size"`
}

type EngagementResult struct {
	Level            string  `json:"level"`
	EngagementScore  float64 `json:"engagement_score"`
	AdjustedTime     float64 `json:"adjusted_time"`
	Penalty          float64 `json:"penalty"`
	SpeedScore       float64 `json:"speed_score"`
	CorrectnessScore float64 `json:"correctness_score"`
	DifficultyBonus  float64 `json:"difficulty_bonus"`
}

type EngagementService struct{}

func NewEngagementService() *EngagementService {
	return &EngagementService{}
}

// Classify derives an engagement level from correctness, response time in
// seconds, the question's response-time distribution and optional network
// metrics. Network metrics adjust the time only; they never enter the
// correctness score or the formula weights.
func (s *EngagementService) Classify(isCorrect bool, responseTimeSec float64, stats *QuestionStats, rttMs, jitterMs *float64) EngagementResult {
	if responseTimeSec <= 0 {
		return EngagementResult{Level: EngagementPassive, Penalty: 1.0}
	}

	penalty := networkPenalty(rttMs, jitterMs)
	adjusted := responseTimeSec / penalty

	if stats == nil || stats.SampleSize == 0 {
		return EngagementResult{
			Level:        classifyAbsolute(isCorrect, adjusted),
			AdjustedTime: adjusted,
			Penalty:      penalty,
		}
	}

	speedScore := 0.4
	switch {
	case adjusted < stats.P25Time:
		speedScore = 1.0
	case adjusted < stats.MedianTime:
		speedScore = 0.7
	case adjusted > stats.P75Time:
		speedScore = 0.2
	}

	correctnessScore := 0.0
	if isCorrect {
		correctnessScore = 1.0
	}

	difficultyBonus := 0.0
	if isCorrect && stats.AvgCorrectness < 0.7 {
		difficultyBonus = 0.1
	}

	score := 0.6*correctnessScore + 0.4*speedScore + difficultyBonus

	level := EngagementPassive
	switch {
	case score >= 0.75:
		level = EngagementActive
	case score >= 0.45:
		level = EngagementModerate
	}

	return EngagementResult{
		Level:            level,
		EngagementScore:  score,
		AdjustedTime:     adjusted,
		Penalty:          penalty,
		SpeedScore:       speedScore,
		CorrectnessScore: correctnessScore,
		DifficultyBonus:  difficultyBonus,
	}
}

// networkPenalty maps RTT and jitter into a time divisor in [1.0, 1.5].
// RTT under 50ms and jitter under 10ms are treated as a clean network.
func networkPenalty(rttMs, jitterMs *float64) float64 {
	if rttMs == nil {
		return 1.0
	}

	rttPenalty := clamp(0, 0.5, (*rttMs-50)/500)

	if jitterMs == nil {
		return clamp(1.0, 1.5, 1.0+rttPenalty*0.6)
	}

	jitterPenalty := clamp(0, 0.3, (*jitterMs-10)/200)
	return clamp(1.0, 1.5, 1.0+(rttPenalty+jitterPenalty)/2)
}

// classifyAbsolute is the fallback for questions that have no response
// distribution yet (first responders).
func classifyAbsolute(isCorrect bool, adjustedTime float64) string {
	if isCorrect {
		if adjustedTime <= 30 {
			return EngagementActive
		}
		return EngagementModerate
	}
	if adjustedTime < 15 {
		return EngagementPassive
	}
	if adjustedTime <= 30 {
		return EngagementModerate
	}
	return EngagementPassive
}

// ComputeQuestionStats builds a QuestionStats from raw per-response times
// (seconds) and correctness flags. Returns nil when there are no samples.
func ComputeQuestionStats(timesSec []float64, correct []bool) *QuestionStats {
	if len(timesSec) == 0 {
		return nil
	}

	sorted := make([]float64, len(timesSec))
	copy(sorted, timesSec)
	sort.Float64s(sorted)

	avgCorrectness := 0.0
	if len(correct) > 0 {
		correctCount := 0
		for _, c := range correct {
			if c {
				correctCount++
			}
		}
		avgCorrectness = float64(correctCount) / float64(len(correct))
	}

	return &QuestionStats{
		MedianTime:     nearestRank(sorted, 0.50),
		P25Time:        nearestRank(sorted, 0.25),
		P75Time:        nearestRank(sorted, 0.75),
		AvgCorrectness: avgCorrectness,
		SampleSize:     len(sorted),
	}
}

// nearestRank picks the value at ceil(p*n) in a sorted slice.
func nearestRank(sorted []float64, p float64) float64 {
	rank := int(p * float64(len(sorted)))
	if float64(rank) < p*float64(len(sorted)) {
		rank++
	}
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
