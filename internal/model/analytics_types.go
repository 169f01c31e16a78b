package model

import "time"

// AttendanceStats 出勤聚合结果
type AttendanceStats struct {
	TotalClasses         int     `json:"totalClasses"`
	TotalPhysicalClasses int     `json:"totalPhysicalClasses"`
	TotalVirtualClasses  int     `json:"totalVirtualClasses"`
	PresentCount         int     `json:"presentCount"`
	AbsentCount          int     `json:"absentCount"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

// AssignmentItem 单次作业明细，用于叙述分析的逐项历史
type AssignmentItem struct {
	AssessmentID uint      `json:"assessmentId"`
	Title        string    `json:"title"`
	TotalMarks   float64   `json:"totalMarks"`
	Marks        float64   `json:"marks"`
	Percentage   float64   `json:"percentage"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// AssignmentPerformance 满分为各次作业总分之和，不是固定分母
type AssignmentPerformance struct {
	TotalSubmissions int              `json:"totalSubmissions"`
	TotalMarks       float64          `json:"totalMarks"`
	EarnedMarks      float64          `json:"earnedMarks"`
	AverageScore     float64          `json:"averageScore"`
	Assignments      []AssignmentItem `json:"assignments"`
}

type QuizItem struct {
	QuizID      uint       `json:"quizId"`
	Title       string     `json:"title"`
	TotalMarks  float64    `json:"totalMarks"`
	Score       float64    `json:"score"`
	Percentage  float64    `json:"percentage"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type QuizPerformance struct {
	TotalAttempts int        `json:"totalAttempts"`
	TotalMarks    float64    `json:"totalMarks"`
	EarnedMarks   float64    `json:"earnedMarks"`
	AverageScore  float64    `json:"averageScore"`
	Quizzes       []QuizItem `json:"quizzes"`
}

// NarrativeResult 叙述分析三要素加原文
type NarrativeResult struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	FullAnalysis    string   `json:"fullAnalysis,omitempty"`
}

// StudentAnalysis 班级分析中单个学生的摘要行
type StudentAnalysis struct {
	StudentID            uint                `json:"studentId"`
	StudentName          string              `json:"studentName"`
	AttendancePercentage float64             `json:"attendancePercentage"`
	AssignmentAverage    float64             `json:"assignmentAverage"`
	QuizAverage          float64             `json:"quizAverage"`
	OverallPerformance   float64             `json:"overallPerformance"`
	PerformanceCategory  PerformanceCategory `json:"performanceCategory"`
}

// ClassAnalysis 班级整体分析，均值只计成功打分的学生
type ClassAnalysis struct {
	CourseID             uint                        `json:"courseId"`
	SemesterID           uint                        `json:"semesterId"`
	TotalStudents        int                         `json:"totalStudents"`
	AttendanceAverage    float64                     `json:"attendanceAverage"`
	AssignmentAverage    float64                     `json:"assignmentAverage"`
	QuizAverage          float64                     `json:"quizAverage"`
	OverallAverage       float64                     `json:"overallAverage"`
	CategoryCounts       map[PerformanceCategory]int `json:"categoryCounts"`
	ClassRecommendations []string                    `json:"classRecommendations"`
	StudentAnalyses      []StudentAnalysis           `json:"studentAnalyses"`
	GeneratedAt          time.Time                   `json:"generatedAt"`
}
