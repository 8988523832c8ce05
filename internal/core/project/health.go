package project

import (
	"fmt"
	"time"
)

// Health はプロジェクトの健全性ティアを表します。
type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
)

const (
	// overAllocationThreshold を超える合計関与率は過剰割り当てとみなします。
	overAllocationThreshold = 120
	// lowProgressThreshold 未満の進捗率は active プロジェクトで警告対象です。
	lowProgressThreshold = 25.0
	// hoursOverrunFactor 倍を超えた実績時間は見積もり超過リスクです。
	hoursOverrunFactor = 1.5
)

// HealthReport はプロジェクト健全性の評価結果です。
type HealthReport struct {
	Progress         float64
	Health           Health
	TotalInvolvement int
	Risks            []string
}

// Evaluate はコミット済み状態からプロジェクトの健全性を導出します。副作用はなく、
// すべての読み取り箇所で再計算しても安全です。
func Evaluate(p *Project, now time.Time) HealthReport {
	report := HealthReport{
		Progress:         progress(p),
		TotalInvolvement: p.TotalInvolvement(),
	}

	overdue := countOverdueMilestones(p, now)
	noAssignees := p.Status == StatusActive && len(p.Assignments) == 0
	overAllocated := report.TotalInvolvement > overAllocationThreshold
	lowProgress := p.Status == StatusActive && report.Progress < lowProgressThreshold

	switch {
	case noAssignees || overAllocated || overdue > 0:
		report.Health = HealthCritical
	case lowProgress:
		report.Health = HealthWarning
	default:
		report.Health = HealthHealthy
	}

	if noAssignees {
		report.Risks = append(report.Risks, "No team members assigned")
	}
	if overAllocated {
		report.Risks = append(report.Risks, fmt.Sprintf("Over-allocated (%d%%)", report.TotalInvolvement))
	}
	if overdue > 0 {
		report.Risks = append(report.Risks, fmt.Sprintf("%d overdue milestone(s)", overdue))
	}
	if lowProgress {
		report.Risks = append(report.Risks, "Low progress rate")
	}
	if overEstimatedHours(p) {
		report.Risks = append(report.Risks, "Significantly over estimated hours")
	}

	return report
}

func progress(p *Project) float64 {
	if len(p.Milestones) == 0 {
		return 0
	}

	completed := 0
	for _, m := range p.Milestones {
		if m.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(p.Milestones)) * 100
}

func countOverdueMilestones(p *Project, now time.Time) int {
	overdue := 0
	for _, m := range p.Milestones {
		if !m.Completed && m.DueDate.Before(now) {
			overdue++
		}
	}
	return overdue
}

func overEstimatedHours(p *Project) bool {
	if p.EstimatedHours == nil || p.ActualHours == nil || *p.EstimatedHours <= 0 {
		return false
	}
	return float64(*p.ActualHours) > float64(*p.EstimatedHours)*hoursOverrunFactor
}
