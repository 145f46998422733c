package services

import (
	"math"
	"sort"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"gorm.io/gorm"
)

// defaultScanLimit caps how many ledger rows a single leaderboard
// computation reads. Exceeding it truncates the scan rather than erroring.
const defaultScanLimit = 50000

type LeaderboardService struct {
	db *gorm.DB

	// ScanLimit bounds the oldest-first row scan per computation.
	ScanLimit int
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db, ScanLimit: defaultScanLimit}
}

type LeaderboardEntry struct {
	StudentID           uint    `json:"student_id"`
	StudentName         string  `json:"student_name"`
	StudentEmail        string  `json:"student_email"`
	Score               int     `json:"score"`
	TotalAnswers        int     `json:"total_answers"`
	CorrectAnswers      int     `json:"correct_answers"`
	AverageResponseTime float64 `json:"average_response_time"`
}

// GetLeaderboard aggregates ledger rows per student, optionally filtered
// by class. Student callers only see rows from assignments they attempted
// themselves. Ranking: correct answers descending, average response time
// ascending as the tiebreak (faster wins).
func (s *LeaderboardService) GetLeaderboard(classID uint, requesterID uint, requesterRole string) ([]LeaderboardEntry, error) {
	q := s.db.Model(&models.Response{})
	if classID != 0 {
		q = q.Where("class_id = ?", classID)
	}
	if requesterRole == models.RoleStudent {
		sub := s.db.Model(&models.Response{}).
			Select("DISTINCT assignment_id").
			Where("student_id = ?", requesterID)
		q = q.Where("assignment_id IN (?)", sub)
	}

	var responses []models.Response
	if err := q.Order("answered_at ASC").Limit(s.ScanLimit).Find(&responses).Error; err != nil {
		return nil, err
	}

	type agg struct {
		total        int
		correct      int
		responseTime int64
	}
	stats := make(map[uint]*agg)
	for _, r := range responses {
		a := stats[r.StudentID]
		if a == nil {
			a = &agg{}
			stats[r.StudentID] = a
		}
		a.total++
		if r.IsCorrect {
			a.correct++
		}
		a.responseTime += r.ResponseTime
	}
	if len(stats) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]uint, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	var students []models.User
	if err := s.db.Where("id IN ?", ids).Find(&students).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]models.User, len(students))
	for _, st := range students {
		names[st.ID] = st
	}

	entries := make([]LeaderboardEntry, 0, len(stats))
	for id, a := range stats {
		avg := 0.0
		if a.total > 0 {
			avg = math.Round(float64(a.responseTime)/float64(a.total)*100) / 100
		}
		entries = append(entries, LeaderboardEntry{
			StudentID:           id,
			StudentName:         names[id].Name,
			StudentEmail:        names[id].Email,
			Score:               a.correct,
			TotalAnswers:        a.total,
			CorrectAnswers:      a.correct,
			AverageResponseTime: avg,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].AverageResponseTime < entries[j].AverageResponseTime
	})
	return entries, nil
}
