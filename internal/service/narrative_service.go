package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/logger"
	"go.uber.org/zap"
)

// StudentMetrics 叙述分析的输入，由打分器组装
type StudentMetrics struct {
	StudentName   string
	CourseName    string
	Attendance    float64
	AssignmentAvg float64
	QuizAvg       float64
	Overall       float64
	Assignments   []model.AssignmentItem
	Quizzes       []model.QuizItem
}

// ClassMetrics 班级级叙述分析的输入
type ClassMetrics struct {
	CourseName        string
	TotalStudents     int
	AttendanceAverage float64
	AssignmentAverage float64
	QuizAverage       float64
	OverallAverage    float64
	CategoryCounts    map[model.PerformanceCategory]int
}

// NarrativeProvider 叙述分析能力，外部生成与规则降级两种实现
type NarrativeProvider interface {
	AnalyzeStudent(m StudentMetrics) (*model.NarrativeResult, error)
	AnalyzeClass(m ClassMetrics) ([]string, error)
}

// NarrativeService 优先走外部生成，任何失败都降级到规则实现。
// 不返回错误：叙述生成永远不能导致打分失败
type NarrativeService struct {
	provider NarrativeProvider
	fallback *RuleBasedProvider
}

func NewNarrativeService(ai *AIService) *NarrativeService {
	s := &NarrativeService{fallback: &RuleBasedProvider{}}
	if ai != nil && ai.Configured() {
		s.provider = &ExternalProvider{AI: ai}
	}
	return s
}

func (s *NarrativeService) AnalyzeStudent(m StudentMetrics) *model.NarrativeResult {
	if s.provider != nil {
		result, err := s.provider.AnalyzeStudent(m)
		if err == nil {
			return result
		}
		logger.Log.Warn("external narrative analysis failed, using rule-based fallback",
			zap.String("student", m.StudentName), zap.Error(err))
	}

	result, _ := s.fallback.AnalyzeStudent(m)
	return result
}

func (s *NarrativeService) AnalyzeClass(m ClassMetrics) []string {
	if s.provider != nil {
		recommendations, err := s.provider.AnalyzeClass(m)
		if err == nil {
			return recommendations
		}
		logger.Log.Warn("external class analysis failed, using rule-based fallback",
			zap.String("course", m.CourseName), zap.Error(err))
	}

	recommendations, _ := s.fallback.AnalyzeClass(m)
	return recommendations
}

// ExternalProvider 调外部文本生成接口，回复需包含一个JSON对象
type ExternalProvider struct {
	AI *AIService
}

type narrativePayload struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

func (p *ExternalProvider) AnalyzeStudent(m StudentMetrics) (*model.NarrativeResult, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Student: %s\nCourse: %s\n", m.StudentName, m.CourseName)
	fmt.Fprintf(&sb, "Attendance: %.1f%%\nAssignment average: %.1f%%\nQuiz average: %.1f%%\nOverall performance: %.1f%%\n",
		m.Attendance, m.AssignmentAvg, m.QuizAvg, m.Overall)

	if len(m.Assignments) > 0 {
		sb.WriteString("\nAssignment history:\n")
		for _, a := range m.Assignments {
			fmt.Fprintf(&sb, "- %s: %.1f/%.1f (%.1f%%)\n", a.Title, a.Marks, a.TotalMarks, a.Percentage)
		}
	}
	if len(m.Quizzes) > 0 {
		sb.WriteString("\nQuiz history:\n")
		for _, q := range m.Quizzes {
			fmt.Fprintf(&sb, "- %s: %.1f/%.1f (%.1f%%)\n", q.Title, q.Score, q.TotalMarks, q.Percentage)
		}
	}

	systemPrompt := "You are an academic advisor analysing a student's performance in a university course. " +
		"Respond with a single JSON object with three string-array fields: \"strengths\", \"weaknesses\" and \"recommendations\". " +
		"Keep each entry short and actionable. Do not include any text outside the JSON object."

	content, err := p.AI.Chat(systemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	raw, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var payload narrativePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse narrative response: %w", err)
	}

	return &model.NarrativeResult{
		Strengths:       payload.Strengths,
		Weaknesses:      payload.Weaknesses,
		Recommendations: payload.Recommendations,
		FullAnalysis:    content,
	}, nil
}

func (p *ExternalProvider) AnalyzeClass(m ClassMetrics) ([]string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Course: %s\nStudents analysed: %d\n", m.CourseName, m.TotalStudents)
	fmt.Fprintf(&sb, "Attendance average: %.1f%%\nAssignment average: %.1f%%\nQuiz average: %.1f%%\nOverall average: %.1f%%\n",
		m.AttendanceAverage, m.AssignmentAverage, m.QuizAverage, m.OverallAverage)
	sb.WriteString("\nPerformance distribution:\n")
	for _, category := range []model.PerformanceCategory{
		model.CategoryExcellent, model.CategoryGood, model.CategoryAverage,
		model.CategoryBelowAverage, model.CategoryPoor,
	} {
		fmt.Fprintf(&sb, "- %s: %d\n", category, m.CategoryCounts[category])
	}

	systemPrompt := "You are an academic advisor reviewing a whole class's performance. " +
		"Respond with a single JSON object with one string-array field: \"recommendations\", " +
		"containing teaching recommendations for the lecturer. Do not include any text outside the JSON object."

	content, err := p.AI.Chat(systemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	raw, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var payload narrativePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse class response: %w", err)
	}

	return payload.Recommendations, nil
}

// ExtractJSON 从回复中取出JSON对象，容忍markdown围栏包裹
func ExtractJSON(content string) (string, error) {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```"); idx >= 0 {
		rest := content[idx+3:]
		// ```json 这类语言标记占一行
		if nl := strings.Index(rest, "\n"); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			content = strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}

	return content[start : end+1], nil
}

// RuleBasedProvider 规则降级实现。同样输入产出逐字节相同的结果，
// 无随机、无网络，可离线测试
type RuleBasedProvider struct{}

func (p *RuleBasedProvider) AnalyzeStudent(m StudentMetrics) (*model.NarrativeResult, error) {
	var strengths, weaknesses, recommendations []string

	if m.Attendance >= 80 {
		strengths = append(strengths, fmt.Sprintf("Strong class attendance (%.1f%%)", m.Attendance))
	}
	if m.AssignmentAvg >= 80 {
		strengths = append(strengths, fmt.Sprintf("Strong assignment performance (%.1f%%)", m.AssignmentAvg))
	}
	if m.QuizAvg >= 80 {
		strengths = append(strengths, fmt.Sprintf("Strong quiz performance (%.1f%%)", m.QuizAvg))
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "No specific strengths identified")
	}

	if m.Attendance < 70 {
		weaknesses = append(weaknesses, fmt.Sprintf("Low attendance rate (%.1f%%)", m.Attendance))
		recommendations = append(recommendations, "Attend classes more regularly to avoid missing key material")
	}
	if m.AssignmentAvg < 70 {
		weaknesses = append(weaknesses, fmt.Sprintf("Weak assignment performance (%.1f%%)", m.AssignmentAvg))
		recommendations = append(recommendations, "Allocate more time to assignments and seek feedback from your lecturer")
	}
	if m.QuizAvg < 70 {
		weaknesses = append(weaknesses, fmt.Sprintf("Weak quiz performance (%.1f%%)", m.QuizAvg))
		recommendations = append(recommendations, "Revise course material and practice with additional quizzes")
	}

	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "No significant weaknesses identified")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Continue current study habits")
	}

	return &model.NarrativeResult{
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendations: recommendations,
	}, nil
}

func (p *RuleBasedProvider) AnalyzeClass(m ClassMetrics) ([]string, error) {
	var recommendations []string

	if m.AttendanceAverage < 70 {
		recommendations = append(recommendations, "Reinforce attendance expectations and follow up with frequently absent students")
	}
	if m.AssignmentAverage < 70 {
		recommendations = append(recommendations, "Review assignment difficulty and provide worked examples")
	}
	if m.QuizAverage < 70 {
		recommendations = append(recommendations, "Schedule revision sessions before upcoming quizzes")
	}

	struggling := m.CategoryCounts[model.CategoryBelowAverage] + m.CategoryCounts[model.CategoryPoor]
	if m.TotalStudents > 0 && struggling*2 > m.TotalStudents {
		recommendations = append(recommendations, "Plan remedial sessions: more than half the class is below average")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Class performance is on track; maintain the current teaching approach")
	}

	return recommendations, nil
}
