package service

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/logger"
	"go.uber.org/zap"
)

type NotificationStore interface {
	Create(notification *model.Notification) error
	ListByUser(userID uint, unreadOnly bool, page, limit int) ([]model.Notification, int64, error)
	MarkRead(id string, userID uint) error
}

// NotificationService 只落库，投递由外部网关消费。
// Notify 对分析流程是 fire-and-forget，失败不回滚分析写入
type NotificationService struct {
	Repo NotificationStore
}

func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{Repo: repo}
}

func (s *NotificationService) Notify(userID uint, title, message, ntype, relatedID, relatedType string) {
	notification := &model.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Type:        ntype,
		RelatedID:   relatedID,
		RelatedType: relatedType,
	}

	if err := s.Repo.Create(notification); err != nil {
		logger.Log.Error("failed to persist notification",
			zap.Uint("userId", userID),
			zap.String("type", ntype),
			zap.Error(err))
	}
}

func (s *NotificationService) ListByUser(userID uint, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	return s.Repo.ListByUser(userID, unreadOnly, page, limit)
}

func (s *NotificationService) MarkRead(id string, userID uint) error {
	return s.Repo.MarkRead(id, userID)
}
