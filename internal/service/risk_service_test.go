package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/repository"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"gorm.io/gorm"
)

type fakeMasteryReader struct {
	byStudent map[uint]*model.CourseMastery
}

func (f *fakeMasteryReader) FindByKey(studentID, courseID, semesterID uint) (*model.CourseMastery, error) {
	mastery, ok := f.byStudent[studentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return mastery, nil
}

type fakeRiskStore struct {
	records map[string]*model.AtRiskRecord
	seq     int
}

func newFakeRiskStore() *fakeRiskStore {
	return &fakeRiskStore{records: map[string]*model.AtRiskRecord{}}
}

func (f *fakeRiskStore) FindUnresolvedByKey(studentID, courseID, semesterID uint) (*model.AtRiskRecord, error) {
	for _, r := range f.records {
		if r.StudentID == studentID && r.CourseID == courseID && r.SemesterID == semesterID && !r.IsResolved {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRiskStore) FindByID(id string) (*model.AtRiskRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRiskStore) List(filters repository.RiskFilters, page, limit int) ([]model.AtRiskRecord, int64, error) {
	var out []model.AtRiskRecord
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRiskStore) Create(record *model.AtRiskRecord) error {
	f.seq++
	record.ID = fmt.Sprintf("risk-%d", f.seq)
	cp := *record
	f.records[record.ID] = &cp
	return nil
}

func (f *fakeRiskStore) Update(record *model.AtRiskRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *record
	f.records[record.ID] = &cp
	return nil
}

func (f *fakeRiskStore) Delete(id string) error {
	delete(f.records, id)
	return nil
}

type notifyCall struct {
	userID uint
	title  string
	ntype  string
}

type fakeNotifier struct {
	calls []notifyCall
}

func (f *fakeNotifier) Notify(userID uint, title, message, ntype, relatedID, relatedType string) {
	f.calls = append(f.calls, notifyCall{userID: userID, title: title, ntype: ntype})
}

// 出勤率按学生出错的读取器，验证批次里的逐生跳过
type errAttendanceReader struct {
	keyedAttendanceReader
	failFor uint
}

func (e *errAttendanceReader) CountStudentSessionDates(studentID, courseID, semesterID uint) (int64, error) {
	if studentID == e.failFor {
		return 0, errors.New("attendance query failed")
	}
	return e.keyedAttendanceReader.CountStudentSessionDates(studentID, courseID, semesterID)
}

type riskFixture struct {
	svc      *RiskService
	store    *fakeRiskStore
	notifier *fakeNotifier
}

// 单个学生1：出勤50%，无掌握度快照，无近期成绩。
// 因子应为出勤(罚2) + 无快照(罚5)，合计7 → low
func newRiskFixture(attendance *AttendanceService, grades *GradeService, mastery *fakeMasteryReader, enrollment *fakeEnrollmentReader) riskFixture {
	store := newFakeRiskStore()
	notifier := &fakeNotifier{}
	svc := NewRiskService(attendance, grades, mastery, store, enrollment, notifier, testAnalyticsConfig())
	return riskFixture{svc: svc, store: store, notifier: notifier}
}

func newLowRiskFixture() riskFixture {
	attendance := NewAttendanceService(
		&fakeAttendanceReader{studentSessionDates: 10, studentPresent: 5},
		&fakeVirtualReader{},
		&fakeEnrollmentReader{},
	)
	grades := NewGradeService(&fakeSubmissionReader{}, &fakeAttemptReader{})
	enrollment := &fakeEnrollmentReader{enrollments: []model.Enrollment{{StudentID: 1}}}
	return newRiskFixture(attendance, grades, &fakeMasteryReader{}, enrollment)
}

func TestShortfallPenalty(t *testing.T) {
	if p := shortfallPenalty(70, 50); !almostEqual(p, 2) {
		t.Errorf("shortfallPenalty(70, 50) = %v, want 2", p)
	}
	if p := shortfallPenalty(60, 0); !almostEqual(p, 6) {
		t.Errorf("shortfallPenalty(60, 0) = %v, want 6", p)
	}
	if p := shortfallPenalty(60, 59); !almostEqual(p, 0.1) {
		t.Errorf("shortfallPenalty(60, 59) = %v, want 0.1", p)
	}
}

func TestBuildRecommendedActions(t *testing.T) {
	t.Run("catalog order and dedup", func(t *testing.T) {
		// 两个 quiz 因子只产出一条 quiz 动作，顺序按目录固定
		factors := []string{
			"Low recent quiz performance (40.0%)",
			"Low attendance rate (50.0%)",
			"Low quiz average (45.0%)",
		}
		got := buildRecommendedActions(factors, model.RiskLow)
		want := []string{
			"Improve class attendance; aim to attend every remaining session",
			"Practice with additional quizzes to reinforce understanding",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("actions = %v, want %v", got, want)
		}
	})

	t.Run("high risk appends escalation", func(t *testing.T) {
		got := buildRecommendedActions([]string{"Low attendance rate (10.0%)"}, model.RiskHigh)
		if len(got) != 3 {
			t.Fatalf("actions = %v, want 3 entries", got)
		}
		if got[1] != "Schedule a meeting with your academic advisor" || got[2] != "Join a study group for this course" {
			t.Errorf("escalation actions = %v", got[1:])
		}
	})

	t.Run("medium risk gets no escalation", func(t *testing.T) {
		got := buildRecommendedActions([]string{"Low attendance rate (10.0%)"}, model.RiskMedium)
		if len(got) != 1 {
			t.Errorf("actions = %v, want 1 entry", got)
		}
	})
}

func TestIdentifyFlagsAttendanceAndMissingMastery(t *testing.T) {
	f := newLowRiskFixture()

	records, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("IdentifyAtRiskStudents returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	record := records[0]
	if !almostEqual(record.RiskScore, 7) {
		t.Errorf("RiskScore = %v, want 7", record.RiskScore)
	}
	if record.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %v, want low", record.RiskLevel)
	}

	var factors []string
	if err := json.Unmarshal(record.RiskFactors, &factors); err != nil {
		t.Fatalf("unmarshal factors: %v", err)
	}
	want := []string{
		"Low attendance rate (50.0%)",
		"No course mastery data available",
	}
	if !reflect.DeepEqual(factors, want) {
		t.Errorf("factors = %v, want %v", factors, want)
	}

	// 新记录要通知学生
	if len(f.notifier.calls) != 1 {
		t.Fatalf("notifier called %d times, want 1", len(f.notifier.calls))
	}
	call := f.notifier.calls[0]
	if call.userID != 1 || call.title != "Academic risk alert" || call.ntype != util.NotificationAtRisk {
		t.Errorf("unexpected notification: %+v", call)
	}
}

func TestIdentifyMasteryFactorsAdditive(t *testing.T) {
	attendance := NewAttendanceService(
		&fakeAttendanceReader{studentSessionDates: 10, studentPresent: 10},
		&fakeVirtualReader{},
		&fakeEnrollmentReader{},
	)
	grades := NewGradeService(&fakeSubmissionReader{}, &fakeAttemptReader{})
	mastery := &fakeMasteryReader{byStudent: map[uint]*model.CourseMastery{
		1: {
			MasteryLevel:              10, // (60-10)/10 = 5
			QuizAverage:               20, // 4
			AssignmentAverage:         30, // 3
			TopicCompletionPercentage: 0,  // 阈值50 → 5
		},
	}}
	enrollment := &fakeEnrollmentReader{enrollments: []model.Enrollment{{StudentID: 1}}}
	f := newRiskFixture(attendance, grades, mastery, enrollment)

	records, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("IdentifyAtRiskStudents returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	record := records[0]
	if !almostEqual(record.RiskScore, 17) {
		t.Errorf("RiskScore = %v, want 17", record.RiskScore)
	}
	if record.RiskLevel != model.RiskMedium {
		t.Errorf("RiskLevel = %v, want medium", record.RiskLevel)
	}

	var actions []string
	if err := json.Unmarshal(record.RecommendedActions, &actions); err != nil {
		t.Fatalf("unmarshal actions: %v", err)
	}
	want := []string{
		"Review course materials and revisit topics you have not mastered",
		"Practice with additional quizzes to reinforce understanding",
		"Seek feedback on assignments and start them earlier",
		"Complete the required topics for this course",
	}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("actions = %v, want %v", actions, want)
	}
}

func TestIdentifyRecentWindowFactor(t *testing.T) {
	attendance := NewAttendanceService(
		&fakeAttendanceReader{studentSessionDates: 10, studentPresent: 10},
		&fakeVirtualReader{},
		&fakeEnrollmentReader{},
	)
	grades := NewGradeService(
		&fakeSubmissionReader{recent: []model.AssessmentSubmission{
			submission(1, "A1", 100, 90), // 90% 不触发
		}},
		&fakeAttemptReader{recent: []model.QuizAttempt{
			attempt(1, "Q1", 100, 40), // 40% 触发
		}},
	)
	mastery := &fakeMasteryReader{byStudent: map[uint]*model.CourseMastery{
		1: {MasteryLevel: 90, QuizAverage: 90, AssignmentAverage: 90, TopicCompletionPercentage: 90},
	}}
	enrollment := &fakeEnrollmentReader{enrollments: []model.Enrollment{{StudentID: 1}}}
	f := newRiskFixture(attendance, grades, mastery, enrollment)

	records, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("IdentifyAtRiskStudents returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	var factors []string
	if err := json.Unmarshal(records[0].RiskFactors, &factors); err != nil {
		t.Fatalf("unmarshal factors: %v", err)
	}
	want := []string{"Low recent quiz performance (40.0%)"}
	if !reflect.DeepEqual(factors, want) {
		t.Errorf("factors = %v, want %v", factors, want)
	}
	if !almostEqual(records[0].RiskScore, 2) {
		t.Errorf("RiskScore = %v, want 2", records[0].RiskScore)
	}
}

func TestIdentifyThresholdOverride(t *testing.T) {
	attendance := NewAttendanceService(
		&fakeAttendanceReader{studentSessionDates: 20, studentPresent: 17}, // 85%
		&fakeVirtualReader{},
		&fakeEnrollmentReader{},
	)
	grades := NewGradeService(&fakeSubmissionReader{}, &fakeAttemptReader{})
	mastery := &fakeMasteryReader{byStudent: map[uint]*model.CourseMastery{
		1: {MasteryLevel: 90, QuizAverage: 90, AssignmentAverage: 90, TopicCompletionPercentage: 90},
	}}
	enrollment := &fakeEnrollmentReader{enrollments: []model.Enrollment{{StudentID: 1}}}
	f := newRiskFixture(attendance, grades, mastery, enrollment)

	// 默认阈值70不触发
	records, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("IdentifyAtRiskStudents returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("default thresholds flagged %d records, want 0", len(records))
	}

	// 调高到90后同一学生被标记
	records, err = f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{AttendanceThreshold: 90})
	if err != nil {
		t.Fatalf("IdentifyAtRiskStudents returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("override flagged %d records, want 1", len(records))
	}
	if !almostEqual(records[0].RiskScore, 0.5) {
		t.Errorf("RiskScore = %v, want 0.5", records[0].RiskScore)
	}
}

func TestIdentifyUpsertUpdatesWithoutRenotify(t *testing.T) {
	f := newLowRiskFixture()

	first, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("first identify returned error: %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	second, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("second identify returned error: %v", err)
	}

	if len(f.store.records) != 1 {
		t.Fatalf("store has %d records, want 1", len(f.store.records))
	}
	if second[0].ID != first[0].ID {
		t.Errorf("second ID = %s, want %s", second[0].ID, first[0].ID)
	}
	if !second[0].LastUpdated.After(first[0].LastUpdated) {
		t.Errorf("LastUpdated did not advance: %v -> %v", first[0].LastUpdated, second[0].LastUpdated)
	}

	// 已有未解除记录更新时不能重复告警
	if len(f.notifier.calls) != 1 {
		t.Errorf("notifier called %d times, want 1", len(f.notifier.calls))
	}
}

func TestIdentifyZeroFactorsLeavesExistingRecord(t *testing.T) {
	attendance := NewAttendanceService(
		&fakeAttendanceReader{studentSessionDates: 10, studentPresent: 10},
		&fakeVirtualReader{},
		&fakeEnrollmentReader{},
	)
	grades := NewGradeService(&fakeSubmissionReader{}, &fakeAttemptReader{})
	mastery := &fakeMasteryReader{byStudent: map[uint]*model.CourseMastery{
		1: {MasteryLevel: 90, QuizAverage: 90, AssignmentAverage: 90, TopicCompletionPercentage: 90},
	}}
	enrollment := &fakeEnrollmentReader{enrollments: []model.Enrollment{{StudentID: 1}}}
	f := newRiskFixture(attendance, grades, mastery, enrollment)

	// 预置一条历史未解除记录
	existing := &model.AtRiskRecord{
		StudentID:   1,
		CourseID:    2,
		SemesterID:  3,
		RiskScore:   7,
		RiskLevel:   model.RiskLow,
		LastUpdated: time.Now().Add(-time.Hour),
	}
	if err := f.store.Create(existing); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	records, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("IdentifyAtRiskStudents returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}

	// 零因子不自动解除，解除必须是显式动作
	after, err := f.store.FindByID(existing.ID)
	if err != nil {
		t.Fatalf("existing record gone: %v", err)
	}
	if after.IsResolved {
		t.Error("existing record was auto-resolved")
	}
	if !almostEqual(after.RiskScore, 7) {
		t.Errorf("existing RiskScore changed to %v", after.RiskScore)
	}
}

func TestResolveIdempotentAndReidentify(t *testing.T) {
	f := newLowRiskFixture()

	records, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("identify returned error: %v", err)
	}
	id := records[0].ID

	resolved, err := f.svc.ResolveRiskRecord(id, "Met with student; recovery plan agreed")
	if err != nil {
		t.Fatalf("ResolveRiskRecord returned error: %v", err)
	}
	if !resolved.IsResolved || resolved.ResolvedAt == nil {
		t.Fatalf("record not resolved: %+v", resolved)
	}
	if resolved.ResolutionNotes != "Met with student; recovery plan agreed" {
		t.Errorf("ResolutionNotes = %q", resolved.ResolutionNotes)
	}

	// 告警 + 解除 = 2 次通知
	if len(f.notifier.calls) != 2 {
		t.Fatalf("notifier called %d times, want 2", len(f.notifier.calls))
	}
	if f.notifier.calls[1].ntype != util.NotificationRiskResolved {
		t.Errorf("second notification type = %s", f.notifier.calls[1].ntype)
	}

	// 重复解除是无操作，不再通知
	firstResolvedAt := *resolved.ResolvedAt
	again, err := f.svc.ResolveRiskRecord(id, "different notes")
	if err != nil {
		t.Fatalf("second resolve returned error: %v", err)
	}
	if !again.ResolvedAt.Equal(firstResolvedAt) {
		t.Errorf("ResolvedAt changed on second resolve")
	}
	if again.ResolutionNotes != "Met with student; recovery plan agreed" {
		t.Errorf("notes overwritten on second resolve: %q", again.ResolutionNotes)
	}
	if len(f.notifier.calls) != 2 {
		t.Errorf("notifier called %d times after double resolve, want 2", len(f.notifier.calls))
	}

	// 解除后再识别要新建第二条记录，旧记录保持已解除
	records, err = f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("re-identify returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("re-identify got %d records, want 1", len(records))
	}
	if records[0].ID == id {
		t.Error("re-identify reused the resolved record")
	}
	if len(f.store.records) != 2 {
		t.Errorf("store has %d records, want 2", len(f.store.records))
	}
	old, err := f.store.FindByID(id)
	if err != nil {
		t.Fatalf("resolved record gone: %v", err)
	}
	if !old.IsResolved {
		t.Error("resolved record flipped back")
	}
}

func TestIdentifySkipsFailingStudent(t *testing.T) {
	attendance := NewAttendanceService(
		&errAttendanceReader{
			keyedAttendanceReader: keyedAttendanceReader{
				studentDates: map[uint]int64{1: 10, 2: 10},
				studentHits:  map[uint]int64{1: 5, 2: 5},
			},
			failFor: 2,
		},
		&fakeVirtualReader{},
		&fakeEnrollmentReader{},
	)
	grades := NewGradeService(&fakeSubmissionReader{}, &fakeAttemptReader{})
	enrollment := &fakeEnrollmentReader{enrollments: []model.Enrollment{{StudentID: 1}, {StudentID: 2}}}
	f := newRiskFixture(attendance, grades, &fakeMasteryReader{}, enrollment)

	records, err := f.svc.IdentifyAtRiskStudents(2, 3, RiskThresholds{})
	if err != nil {
		t.Fatalf("IdentifyAtRiskStudents returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].StudentID != 1 {
		t.Errorf("flagged student %d, want 1", records[0].StudentID)
	}
}

func TestRiskRecordCRUDErrors(t *testing.T) {
	f := newLowRiskFixture()

	if _, err := f.svc.GetRecord("missing"); !errors.Is(err, util.ErrRiskRecordNotFound) {
		t.Errorf("GetRecord error = %v, want ErrRiskRecordNotFound", err)
	}
	if _, err := f.svc.ResolveRiskRecord("missing", ""); !errors.Is(err, util.ErrRiskRecordNotFound) {
		t.Errorf("Resolve error = %v, want ErrRiskRecordNotFound", err)
	}
	if err := f.svc.DeleteRecord("missing"); !errors.Is(err, util.ErrRiskRecordNotFound) {
		t.Errorf("Delete error = %v, want ErrRiskRecordNotFound", err)
	}
}
