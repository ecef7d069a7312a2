package service

import (
	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
)

// NotificationService 站内通知流。
type NotificationService struct {
	Repo     *repository.NotificationRepository
	UserRepo *repository.UserRepository
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{Repo: repo, UserRepo: userRepo}
}

func (s *NotificationService) Feed(userID uint) ([]model.Notification, error) {
	return s.Repo.ListByUser(userID)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.Repo.CountUnread(userID)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.Repo.MarkRead(id, userID)
}

// Remind 教师手动提醒学生
func (s *NotificationService) Remind(studentID uint, content string) (*model.Notification, error) {
	if _, err := s.UserRepo.FindByID(studentID); err != nil {
		return nil, err
	}

	n := &model.Notification{
		UserID:  studentID,
		Content: "老师提醒：" + content,
	}
	if err := s.Repo.Create(n); err != nil {
		return nil, err
	}
	return n, nil
}
