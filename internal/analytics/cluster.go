package analytics

import (
	"fmt"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// StudentSnapshot pairs a student with its extracted metrics.
type StudentSnapshot struct {
	StudentID string
	Name      string
	Snapshot  models.StudentMetricsSnapshot
}

// Cluster partitions students with graded work into fixed tiers. Students
// without graded entries are not evaluated.
func (e *Engine) Cluster(students []StudentSnapshot) models.ClusterSummary {
	evaluated := make([]StudentSnapshot, 0, len(students))
	for _, s := range students {
		if s.Snapshot.SampleCount > 0 {
			evaluated = append(evaluated, s)
		}
	}
	if len(evaluated) < e.th.MinClusterStudents {
		return models.ClusterSummary{
			Clusters:      []models.Cluster{},
			TotalStudents: len(evaluated),
			Message:       fmt.Sprintf("at least %d students with graded work required", e.th.MinClusterStudents),
		}
	}

	order := []models.Tier{models.TierExcellent, models.TierGood, models.TierRegular, models.TierAttention}
	members := make(map[models.Tier][]models.ClusterMember, len(order))
	rawMeans := make(map[models.Tier][]float64, len(order))
	for _, s := range evaluated {
		tier := e.tierFor(s.Snapshot.Mean)
		rawMeans[tier] = append(rawMeans[tier], s.Snapshot.Mean)
		members[tier] = append(members[tier], models.ClusterMember{
			StudentID:   s.StudentID,
			Name:        s.Name,
			Mean:        round1(s.Snapshot.Mean),
			Consistency: round1(100 - s.Snapshot.StdDev),
			SampleCount: s.Snapshot.SampleCount,
		})
	}

	clusters := make([]models.Cluster, 0, len(order))
	for _, tier := range order {
		list := members[tier]
		if list == nil {
			list = []models.ClusterMember{}
		}
		clusters = append(clusters, models.Cluster{
			Tier:    tier,
			Count:   len(list),
			Mean:    round1(mean(rawMeans[tier])),
			Members: list,
		})
	}

	return models.ClusterSummary{Clusters: clusters, TotalStudents: len(evaluated)}
}

func (e *Engine) tierFor(avg float64) models.Tier {
	switch {
	case avg >= e.th.TierExcellent:
		return models.TierExcellent
	case avg >= e.th.TierGood:
		return models.TierGood
	case avg >= e.th.TierRegular:
		return models.TierRegular
	default:
		return models.TierAttention
	}
}
