package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/config"
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/repository"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MasteryReader interface {
	FindByKey(studentID, courseID, semesterID uint) (*model.CourseMastery, error)
}

type RiskStore interface {
	FindUnresolvedByKey(studentID, courseID, semesterID uint) (*model.AtRiskRecord, error)
	FindByID(id string) (*model.AtRiskRecord, error)
	List(filters repository.RiskFilters, page, limit int) ([]model.AtRiskRecord, int64, error)
	Create(record *model.AtRiskRecord) error
	Update(record *model.AtRiskRecord) error
	Delete(id string) error
}

type Notifier interface {
	Notify(userID uint, title, message, ntype, relatedID, relatedType string)
}

// RiskThresholds 单次识别可覆盖默认阈值，零值表示用配置默认
type RiskThresholds struct {
	AttendanceThreshold  float64 `json:"attendanceThreshold"`
	PerformanceThreshold float64 `json:"performanceThreshold"`
}

// RiskService 风险识别。各因子独立累加，总分无上限
type RiskService struct {
	Attendance     *AttendanceService
	Grades         *GradeService
	MasteryRepo    MasteryReader
	RiskRepo       RiskStore
	EnrollmentRepo EnrollmentReader
	Notifications  Notifier
	Config         config.AnalyticsConfig
}

func NewRiskService(
	attendance *AttendanceService,
	grades *GradeService,
	masteryRepo MasteryReader,
	riskRepo RiskStore,
	enrollmentRepo EnrollmentReader,
	notifications Notifier,
	cfg config.AnalyticsConfig,
) *RiskService {
	return &RiskService{
		Attendance:     attendance,
		Grades:         grades,
		MasteryRepo:    masteryRepo,
		RiskRepo:       riskRepo,
		EnrollmentRepo: enrollmentRepo,
		Notifications:  notifications,
		Config:         cfg,
	}
}

// riskAssessment 单个学生的因子累计结果
type riskAssessment struct {
	Factors []string
	Score   float64
}

func (a *riskAssessment) add(factor string, penalty float64) {
	a.Factors = append(a.Factors, factor)
	a.Score += penalty
}

// shortfallPenalty 每低于阈值10个百分点记1分
func shortfallPenalty(threshold, value float64) float64 {
	return (threshold - value) / 10
}

// IdentifyAtRiskStudents 扫描整个班级并维护风险记录。
// 单个学生失败只记日志跳过；零因子的学生不动已有记录，
// 解除是独立的显式动作，重算不会自动解除
func (s *RiskService) IdentifyAtRiskStudents(courseID, semesterID uint, thresholds RiskThresholds) ([]model.AtRiskRecord, error) {
	if thresholds.AttendanceThreshold <= 0 {
		thresholds.AttendanceThreshold = s.Config.AttendanceThreshold
	}
	if thresholds.PerformanceThreshold <= 0 {
		thresholds.PerformanceThreshold = s.Config.PerformanceThreshold
	}

	enrollments, err := s.EnrollmentRepo.FindEnrolled(courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	var records []model.AtRiskRecord
	for _, enrollment := range enrollments {
		record, err := s.assessStudent(enrollment.StudentID, courseID, semesterID, thresholds)
		if err != nil {
			logger.Log.Warn("skipping student in risk identification",
				zap.Uint("studentId", enrollment.StudentID),
				zap.Uint("courseId", courseID),
				zap.Error(err))
			continue
		}
		if record != nil {
			records = append(records, *record)
		}
	}

	return records, nil
}

// assessStudent 返回 nil 表示该生没有触发任何因子
func (s *RiskService) assessStudent(studentID, courseID, semesterID uint, thresholds RiskThresholds) (*model.AtRiskRecord, error) {
	var assessment riskAssessment

	// 1. 出勤率
	attendance, err := s.Attendance.StudentStats(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("aggregate attendance: %w", err)
	}
	if attendance.AttendancePercentage < thresholds.AttendanceThreshold {
		assessment.add(
			fmt.Sprintf("Low attendance rate (%.1f%%)", attendance.AttendancePercentage),
			shortfallPenalty(thresholds.AttendanceThreshold, attendance.AttendancePercentage),
		)
	}

	// 2. 课程掌握度快照。没有快照本身就是一个信号
	mastery, err := s.MasteryRepo.FindByKey(studentID, courseID, semesterID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find mastery: %w", err)
		}
		assessment.add("No course mastery data available", 5)
	} else {
		applyMasteryFactors(&assessment, mastery, thresholds.PerformanceThreshold, s.Config.TopicThreshold)
	}

	// 3. 近期窗口。与第2步的学期累计均值是相互独立的信号
	windowDays := s.Config.RecentWindowDays
	if windowDays <= 0 {
		windowDays = 30
	}
	since := time.Now().AddDate(0, 0, -windowDays)

	recentQuiz, quizCount, err := s.Grades.RecentQuizAverage(studentID, courseID, semesterID, since)
	if err != nil {
		return nil, err
	}
	if quizCount > 0 && recentQuiz < thresholds.PerformanceThreshold {
		assessment.add(
			fmt.Sprintf("Low recent quiz performance (%.1f%%)", recentQuiz),
			shortfallPenalty(thresholds.PerformanceThreshold, recentQuiz),
		)
	}

	recentAssign, assignCount, err := s.Grades.RecentAssignmentAverage(studentID, courseID, semesterID, since)
	if err != nil {
		return nil, err
	}
	if assignCount > 0 && recentAssign < thresholds.PerformanceThreshold {
		assessment.add(
			fmt.Sprintf("Low recent assignment performance (%.1f%%)", recentAssign),
			shortfallPenalty(thresholds.PerformanceThreshold, recentAssign),
		)
	}

	// 4. 零因子不落库、不解除已有记录
	if len(assessment.Factors) == 0 {
		return nil, nil
	}

	level := model.ClassifyRisk(assessment.Score)
	actions := buildRecommendedActions(assessment.Factors, level)

	return s.upsertRiskRecord(studentID, courseID, semesterID, assessment, level, actions)
}

// applyMasteryFactors 掌握度各维度独立判定，互不合并
func applyMasteryFactors(a *riskAssessment, mastery *model.CourseMastery, perfThreshold, topicThreshold float64) {
	if mastery.MasteryLevel < perfThreshold {
		a.add(
			fmt.Sprintf("Low mastery level (%.1f%%)", mastery.MasteryLevel),
			shortfallPenalty(perfThreshold, mastery.MasteryLevel),
		)
	}
	if mastery.QuizAverage < perfThreshold {
		a.add(
			fmt.Sprintf("Low quiz average (%.1f%%)", mastery.QuizAverage),
			shortfallPenalty(perfThreshold, mastery.QuizAverage),
		)
	}
	if mastery.AssignmentAverage < perfThreshold {
		a.add(
			fmt.Sprintf("Low assignment average (%.1f%%)", mastery.AssignmentAverage),
			shortfallPenalty(perfThreshold, mastery.AssignmentAverage),
		)
	}
	if mastery.TopicCompletionPercentage < topicThreshold {
		a.add(
			fmt.Sprintf("Low topic completion (%.1f%%)", mastery.TopicCompletionPercentage),
			shortfallPenalty(topicThreshold, mastery.TopicCompletionPercentage),
		)
	}
}

// 因子关键词 → 建议动作，顺序固定，命中多个因子也只追加一次
var actionCatalog = []struct {
	keyword string
	action  string
}{
	{"attendance", "Improve class attendance; aim to attend every remaining session"},
	{"mastery", "Review course materials and revisit topics you have not mastered"},
	{"quiz", "Practice with additional quizzes to reinforce understanding"},
	{"assignment", "Seek feedback on assignments and start them earlier"},
	{"topic completion", "Complete the required topics for this course"},
}

func buildRecommendedActions(factors []string, level model.RiskLevel) []string {
	var actions []string
	for _, entry := range actionCatalog {
		for _, factor := range factors {
			if strings.Contains(strings.ToLower(factor), entry.keyword) {
				actions = append(actions, entry.action)
				break
			}
		}
	}

	if level == model.RiskHigh || level == model.RiskCritical {
		actions = append(actions,
			"Schedule a meeting with your academic advisor",
			"Join a study group for this course",
		)
	}

	return actions
}

// upsertRiskRecord 已有未解除记录原地更新且不重复通知；
// 新记录才通知学生
func (s *RiskService) upsertRiskRecord(studentID, courseID, semesterID uint, assessment riskAssessment, level model.RiskLevel, actions []string) (*model.AtRiskRecord, error) {
	existing, err := s.RiskRepo.FindUnresolvedByKey(studentID, courseID, semesterID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.RiskScore = assessment.Score
		existing.RiskLevel = level
		existing.RiskFactors = mustJSON(assessment.Factors)
		existing.RecommendedActions = mustJSON(actions)
		existing.LastUpdated = time.Now()

		if err := s.RiskRepo.Update(existing); err != nil {
			return nil, fmt.Errorf("update at-risk record: %w", err)
		}
		return existing, nil
	}

	record := &model.AtRiskRecord{
		StudentID:          studentID,
		CourseID:           courseID,
		SemesterID:         semesterID,
		RiskScore:          assessment.Score,
		RiskLevel:          level,
		RiskFactors:        mustJSON(assessment.Factors),
		RecommendedActions: mustJSON(actions),
		LastUpdated:        time.Now(),
	}

	if err := s.RiskRepo.Create(record); err != nil {
		return nil, fmt.Errorf("create at-risk record: %w", err)
	}

	s.Notifications.Notify(studentID,
		"Academic risk alert",
		fmt.Sprintf("You have been flagged as at risk in one of your courses (risk level: %s). Please review the recommended actions.", level),
		util.NotificationAtRisk,
		record.ID,
		"at_risk_record",
	)

	return record, nil
}

// ResolveRiskRecord 单向转移，重复解除按无操作处理。
// 已解除的学生再次被识别时会新建记录而不是复用旧记录
func (s *RiskService) ResolveRiskRecord(id, notes string) (*model.AtRiskRecord, error) {
	record, err := s.GetRecord(id)
	if err != nil {
		return nil, err
	}

	if record.IsResolved {
		return record, nil
	}

	now := time.Now()
	record.IsResolved = true
	record.ResolvedAt = &now
	record.ResolutionNotes = notes
	record.LastUpdated = now

	if err := s.RiskRepo.Update(record); err != nil {
		return nil, fmt.Errorf("resolve at-risk record: %w", err)
	}

	s.Notifications.Notify(record.StudentID,
		"Academic risk resolved",
		"Your at-risk status for this course has been resolved. Keep up the good work.",
		util.NotificationRiskResolved,
		record.ID,
		"at_risk_record",
	)

	return record, nil
}

func (s *RiskService) GetRecord(id string) (*model.AtRiskRecord, error) {
	record, err := s.RiskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%s", util.ErrRiskRecordNotFound, id)
		}
		return nil, err
	}
	return record, nil
}

func (s *RiskService) ListRecords(filters repository.RiskFilters, page, limit int) ([]model.AtRiskRecord, int64, error) {
	return s.RiskRepo.List(filters, page, limit)
}

// UpdateRiskRequest 管理端可修正建议动作和备注
type UpdateRiskRequest struct {
	RecommendedActions []string `json:"recommendedActions"`
	ResolutionNotes    *string  `json:"resolutionNotes"`
}

func (s *RiskService) UpdateRecord(id string, req UpdateRiskRequest) (*model.AtRiskRecord, error) {
	record, err := s.GetRecord(id)
	if err != nil {
		return nil, err
	}

	if req.RecommendedActions != nil {
		record.RecommendedActions = mustJSON(req.RecommendedActions)
	}
	if req.ResolutionNotes != nil {
		record.ResolutionNotes = *req.ResolutionNotes
	}
	record.LastUpdated = time.Now()

	if err := s.RiskRepo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RiskService) DeleteRecord(id string) error {
	if _, err := s.GetRecord(id); err != nil {
		return err
	}
	return s.RiskRepo.Delete(id)
}
