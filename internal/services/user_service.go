package services

import (
	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/config"
	"event-registration-backend/internal/models"
	"event-registration-backend/internal/repositories"
)

type UserService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewUserService(repo *repositories.Repository, cfg *config.Config) *UserService {
	return &UserService{repo: repo, cfg: cfg}
}

// UserUpdate carries the mutable profile fields; nil means "leave as is".
// Telegram identity fields are not mutable through profile updates.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	ISU       *int
	Address   *string
}

// IsZero reports whether the update carries no fields at all.
func (u UserUpdate) IsZero() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil &&
		u.ISU == nil && u.Address == nil
}

func applyUserUpdate(user *models.User, upd UserUpdate) {
	if upd.FirstName != nil {
		user.FirstName = upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = upd.LastName
	}
	if upd.Phone != nil {
		user.Phone = upd.Phone
	}
	if upd.ISU != nil {
		user.ISU = upd.ISU
	}
	if upd.Address != nil {
		user.Address = upd.Address
	}
}

// UpdateProfile merges the supplied fields into the user and persists it.
func (s *UserService) UpdateProfile(user *models.User, upd UserUpdate) (*models.User, error) {
	applyUserUpdate(user, upd)
	if err := s.repo.UserRepo.UpdateUser(user); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to update user", err)
	}
	return user, nil
}
