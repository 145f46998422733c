package services_test

import (
	"math"
	"testing"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"
)

func TestClassifyNoTimeIsPassive(t *testing.T) {
	svc := services.NewEngagementService()

	for _, sec := range []float64{0, -5} {
		result := svc.Classify(true, sec, nil, nil, nil)
		if result.Level != services.EngagementPassive {
			t.Fatalf("time %v: expected passive, got %s", sec, result.Level)
		}
		if result.Penalty != 1.0 {
			t.Fatalf("time %v: expected penalty 1.0, got %v", sec, result.Penalty)
		}
	}
}

func TestClassifyFallbackThresholds(t *testing.T) {
	svc := services.NewEngagementService()

	cases := []struct {
		isCorrect bool
		timeSec   float64
		want      string
	}{
		{true, 10, services.EngagementActive},
		{true, 30, services.EngagementActive},
		{true, 31, services.EngagementModerate},
		{false, 5, services.EngagementPassive},
		{false, 20, services.EngagementModerate},
		{false, 45, services.EngagementPassive},
	}
	for _, tc := range cases {
		result := svc.Classify(tc.isCorrect, tc.timeSec, nil, nil, nil)
		if result.Level != tc.want {
			t.Fatalf("correct=%v time=%v: expected %s, got %s", tc.isCorrect, tc.timeSec, tc.want, result.Level)
		}
	}
}

func TestNetworkPenaltyBounds(t *testing.T) {
	svc := services.NewEngagementService()

	// Absurd network values hit the per-component caps: 1 + (0.5+0.3)/2.
	result := svc.Classify(true, 20, nil, floatPtr(10000), floatPtr(10000))
	if result.Penalty < 1.0 || result.Penalty > 1.5 {
		t.Fatalf("penalty out of range: %v", result.Penalty)
	}
	if math.Abs(result.Penalty-1.4) > 1e-9 {
		t.Fatalf("expected capped penalty 1.4, got %v", result.Penalty)
	}

	// A clean network leaves the time alone.
	result = svc.Classify(true, 20, nil, floatPtr(20), floatPtr(5))
	if result.Penalty != 1.0 {
		t.Fatalf("clean network should not be penalized, got %v", result.Penalty)
	}
	if result.AdjustedTime != 20 {
		t.Fatalf("expected unadjusted time, got %v", result.AdjustedTime)
	}
}

func TestNetworkPenaltyRTTOnly(t *testing.T) {
	svc := services.NewEngagementService()

	// rtt 300ms without jitter: penalty = 1 + ((300-50)/500)*0.6 = 1.3
	result := svc.Classify(true, 26, nil, floatPtr(300), nil)
	if math.Abs(result.Penalty-1.3) > 1e-9 {
		t.Fatalf("expected penalty 1.3, got %v", result.Penalty)
	}
	if math.Abs(result.AdjustedTime-20) > 1e-9 {
		t.Fatalf("expected adjusted 20s, got %v", result.AdjustedTime)
	}

	// No metrics at all: no adjustment.
	result = svc.Classify(true, 26, nil, nil, nil)
	if result.Penalty != 1.0 {
		t.Fatalf("missing metrics should mean no penalty, got %v", result.Penalty)
	}
}

func TestClassifyNetworkNeverTouchesCorrectness(t *testing.T) {
	svc := services.NewEngagementService()
	stats := &services.QuestionStats{MedianTime: 20, P25Time: 10, P75Time: 30, AvgCorrectness: 0.9, SampleSize: 10}

	clean := svc.Classify(true, 15, stats, nil, nil)
	congested := svc.Classify(true, 15, stats, floatPtr(500), floatPtr(100))
	if clean.CorrectnessScore != congested.CorrectnessScore {
		t.Fatalf("correctness score must be network-independent: %v vs %v",
			clean.CorrectnessScore, congested.CorrectnessScore)
	}
	if congested.AdjustedTime >= clean.AdjustedTime {
		t.Fatalf("congested network should shrink adjusted time")
	}
}

func TestClassifyWithStats(t *testing.T) {
	svc := services.NewEngagementService()
	stats := &services.QuestionStats{MedianTime: 20, P25Time: 10, P75Time: 30, AvgCorrectness: 0.9, SampleSize: 10}

	// Fast and correct: 0.6*1 + 0.4*1 = 1.0, active.
	result := svc.Classify(true, 5, stats, nil, nil)
	if result.Level != services.EngagementActive {
		t.Fatalf("expected active, got %s (score %v)", result.Level, result.EngagementScore)
	}

	// Slow and correct: 0.6*1 + 0.4*0.2 = 0.68, moderate.
	result = svc.Classify(true, 40, stats, nil, nil)
	if result.Level != services.EngagementModerate {
		t.Fatalf("expected moderate, got %s (score %v)", result.Level, result.EngagementScore)
	}

	// Slow and wrong: 0.4*0.2 = 0.08, passive.
	result = svc.Classify(false, 40, stats, nil, nil)
	if result.Level != services.EngagementPassive {
		t.Fatalf("expected passive, got %s (score %v)", result.Level, result.EngagementScore)
	}

	// Fast but wrong: 0.4*1 = 0.4, still passive.
	result = svc.Classify(false, 5, stats, nil, nil)
	if result.Level != services.EngagementPassive {
		t.Fatalf("expected passive for fast guess, got %s", result.Level)
	}
}

func TestClassifyDifficultyBonus(t *testing.T) {
	svc := services.NewEngagementService()
	hard := &services.QuestionStats{MedianTime: 20, P25Time: 10, P75Time: 30, AvgCorrectness: 0.5, SampleSize: 10}

	// Correct on a hard question at middling speed: 0.6 + 0.4*0.4 + 0.1 = 0.86.
	result := svc.Classify(true, 25, hard, nil, nil)
	if result.DifficultyBonus != 0.1 {
		t.Fatalf("expected bonus 0.1, got %v", result.DifficultyBonus)
	}
	if result.Level != services.EngagementActive {
		t.Fatalf("bonus should lift to active, got %s (score %v)", result.Level, result.EngagementScore)
	}

	// Wrong answers get no bonus regardless of difficulty.
	result = svc.Classify(false, 25, hard, nil, nil)
	if result.DifficultyBonus != 0 {
		t.Fatalf("wrong answer must not earn a bonus, got %v", result.DifficultyBonus)
	}
}

func TestComputeQuestionStatsNearestRank(t *testing.T) {
	stats := services.ComputeQuestionStats(
		[]float64{10, 20, 30, 40},
		[]bool{true, true, false, false},
	)
	if stats == nil {
		t.Fatalf("expected stats")
	}
	if stats.P25Time != 10 {
		t.Fatalf("expected p25 10, got %v", stats.P25Time)
	}
	if stats.MedianTime != 20 {
		t.Fatalf("expected median 20, got %v", stats.MedianTime)
	}
	if stats.P75Time != 30 {
		t.Fatalf("expected p75 30, got %v", stats.P75Time)
	}
	if stats.AvgCorrectness != 0.5 {
		t.Fatalf("expected avg correctness 0.5, got %v", stats.AvgCorrectness)
	}
	if stats.SampleSize != 4 {
		t.Fatalf("expected sample size 4, got %d", stats.SampleSize)
	}

	if services.ComputeQuestionStats(nil, nil) != nil {
		t.Fatalf("no samples should yield nil stats")
	}

	single := services.ComputeQuestionStats([]float64{12}, []bool{true})
	if single.MedianTime != 12 || single.P25Time != 12 || single.P75Time != 12 {
		t.Fatalf("single sample should fill every percentile, got %+v", single)
	}
}
