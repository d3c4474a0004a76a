package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/audit"
	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/repository"
	pkgerrors "github.com/travian22/aksa-2/pkg/errors"
)

// ProfileService 当前登录管理员的个人资料
type ProfileService interface {
	Get(ctx context.Context, userID string) (*dto.AdminResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.AdminResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type profileService struct {
	repo     *repository.Repository
	recorder *audit.Recorder
	logger   *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, recorder *audit.Recorder, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, recorder: recorder, logger: logger}
}

func (s *profileService) Get(ctx context.Context, userID string) (*dto.AdminResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toAdminResponse(user), nil
}

func (s *profileService) Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.AdminResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := checkUserUnique(ctx, s.repo, req.Username, req.Email, user.ID); err != nil {
		return nil, err
	}

	old := *user
	user.Name = req.Name
	user.Username = req.Username
	user.Phone = req.Phone
	user.Email = req.Email

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionUpdated,
			ModelType:   model.ModelTypeUser,
			ModelID:     user.ID,
			Description: "Updated profile: " + user.Name,
			Old:         &old,
			New:         user,
		})
		return nil
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, uniqueUserError(err)
		}
		s.logger.Error("更新个人资料失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return toAdminResponse(user), nil
}

func (s *profileService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return err
	}
	user.Password = string(hash)

	// 日志不记录密码哈希
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionUpdated,
			ModelType:   model.ModelTypeUser,
			ModelID:     user.ID,
			Description: "Changed password: " + user.Name,
		})
		return nil
	})
	if err != nil {
		s.logger.Error("修改密码失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *profileService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}
