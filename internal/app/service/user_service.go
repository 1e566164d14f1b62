package service

import (
	"context"
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/validation"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

type UserService interface {
	Register(req dto.RegisterRequest) (*model.User, error)
	List(viewerID *uint, offset, limit int) ([]model.User, map[uint]bool, int64, error)
	GetProfile(viewerID *uint, id uint) (*model.User, bool, error)
	GetByID(id uint) (*model.User, error)
	SetPassword(userID uint, currentPassword, newPassword string) error
	SetAvatar(ctx context.Context, userID uint, dataURI string) (*model.User, error)
	DeleteAvatar(ctx context.Context, userID uint) error
}

type userService struct {
	userRepo     repository.UserRepository
	subRepo      repository.SubscriptionRepository
	images       storage.ImageStorage
	maxImageSize int64
}

func NewUserService(
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	images storage.ImageStorage,
	maxImageSize int64,
) UserService {
	return &userService{
		userRepo:     userRepo,
		subRepo:      subRepo,
		images:       images,
		maxImageSize: maxImageSize,
	}
}

func (s *userService) Register(req dto.RegisterRequest) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    req.Email,
		"username": req.Username,
	})

	if err := validation.Username(req.Username); err != nil {
		return nil, err
	}
	if err := util.CheckPasswordStrength(req.Password, req.Email, req.Username, req.FirstName, req.LastName); err != nil {
		logger.Warn("Registration failed: weak password", map[string]interface{}{
			"email": req.Email,
			"error": err.Error(),
		})
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": req.Email,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": req.Email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": req.Email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// the email was checked above, so a race or a taken username
			if _, findErr := s.userRepo.FindByEmail(req.Email); findErr == nil {
				return nil, ErrEmailAlreadyExists
			}
			return nil, ErrUsernameAlreadyExists
		}
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

// List returns a page of users and, for a signed-in viewer, which of them the
// viewer follows.
func (s *userService) List(viewerID *uint, offset, limit int) ([]model.User, map[uint]bool, int64, error) {
	users, total, err := s.userRepo.List(offset, limit)
	if err != nil {
		return nil, nil, 0, err
	}

	followed := map[uint]bool{}
	if viewerID != nil {
		ids := make([]uint, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		if followed, err = s.subRepo.AuthorIDs(*viewerID, ids); err != nil {
			return nil, nil, 0, err
		}
	}
	return users, followed, total, nil
}

// GetProfile loads a user and whether viewerID follows them.
func (s *userService) GetProfile(viewerID *uint, id uint) (*model.User, bool, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, false, err
	}
	if viewerID == nil {
		return user, false, nil
	}

	subscribed, err := s.subRepo.Exists(*viewerID, id)
	if err != nil {
		return nil, false, err
	}
	return user, subscribed, nil
}

func (s *userService) GetByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *userService) SetPassword(userID uint, currentPassword, newPassword string) error {
	logger.Info("Changing password", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change failed: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return ErrWrongPassword
	}
	if err := util.CheckPasswordStrength(newPassword, user.Email, user.Username, user.FirstName, user.LastName); err != nil {
		return err
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// SetAvatar stores the decoded image and replaces the previous avatar.
func (s *userService) SetAvatar(ctx context.Context, userID uint, dataURI string) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	img, err := storage.DecodeDataURI(dataURI, s.maxImageSize)
	if err != nil {
		logger.Warn("Avatar rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, imageError("avatar", err)
	}

	obj, err := s.images.Save(ctx, storage.FolderAvatars, img)
	if err != nil {
		return nil, err
	}

	oldKey := user.AvatarKey
	user.Avatar = obj.URL
	user.AvatarKey = obj.Key
	if err := s.userRepo.Update(user); err != nil {
		discardImage(ctx, s.images, obj.Key)
		return nil, err
	}
	discardImage(ctx, s.images, oldKey)

	logger.Info("Avatar updated", map[string]interface{}{
		"user_id": userID,
		"key":     obj.Key,
	})
	return user, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return ErrAvatarNotFound
	}

	oldKey := user.AvatarKey
	user.Avatar = ""
	user.AvatarKey = ""
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	discardImage(ctx, s.images, oldKey)

	logger.Info("Avatar deleted", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
