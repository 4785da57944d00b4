package services

import (
	"errors"
	"fmt"

	"threatlens/models"
	"threatlens/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService is the organization/user CRUD surface, gated to the single
// configured admin account by the router.
type AdminService interface {
	CreateOrganization(req models.CreateOrganizationRequest) (*models.Organization, error)
	GetOrganizations() ([]models.Organization, error)
	GetOrganization(id uint) (*models.Organization, error)
	UpdateOrganization(id uint, req models.UpdateOrganizationRequest) (*models.Organization, error)
	DeleteOrganization(id uint) error

	CreateUser(req models.CreateUserRequest) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(id uint, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(id uint) error
}

type adminService struct {
	orgRepo  repositories.OrganizationRepository
	userRepo repositories.UserRepository
	log      *zap.Logger
}

func NewAdminService(orgRepo repositories.OrganizationRepository, userRepo repositories.UserRepository, log *zap.Logger) AdminService {
	return &adminService{orgRepo: orgRepo, userRepo: userRepo, log: log}
}

func (s *adminService) CreateOrganization(req models.CreateOrganizationRequest) (*models.Organization, error) {
	org := &models.Organization{
		Name:           req.Name,
		CompanyContext: req.CompanyContext,
		IsActive:       true,
	}
	if err := s.orgRepo.Create(org); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrorConflict{Message: "organization name already taken"}
		}
		return nil, err
	}
	s.log.Info("organization created", zap.Uint("organization_id", org.ID), zap.String("name", org.Name))
	return org, nil
}

func (s *adminService) GetOrganizations() ([]models.Organization, error) {
	return s.orgRepo.GetAll()
}

func (s *adminService) GetOrganization(id uint) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "organization not found"}
	}
	return org, nil
}

func (s *adminService) UpdateOrganization(id uint, req models.UpdateOrganizationRequest) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "organization not found"}
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.CompanyContext != nil {
		org.CompanyContext = *req.CompanyContext
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}

	if err := s.orgRepo.Update(org); err != nil {
		return nil, err
	}
	return org, nil
}

// DeleteOrganization refuses to remove a tenant that still has users; the
// conflict message names the count.
func (s *adminService) DeleteOrganization(id uint) error {
	if _, err := s.orgRepo.GetByID(id); err != nil {
		return models.ErrorNotFound{Message: "organization not found"}
	}

	count, err := s.orgRepo.CountUsers(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.ErrorConflict{Message: fmt.Sprintf("organization still has %d user(s)", count)}
	}

	return s.orgRepo.Delete(id)
}

func (s *adminService) CreateUser(req models.CreateUserRequest) (*models.User, error) {
	if _, err := s.orgRepo.GetByID(req.OrganizationID); err != nil {
		return nil, models.ErrorValidation{Message: "organization does not exist"}
	}

	if existing, err := s.userRepo.GetByUsername(req.Username); err == nil && existing != nil {
		return nil, models.ErrorConflict{Message: "username already taken"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Password:       string(hashed),
		FullName:       req.FullName,
		Email:          req.Email,
		OrganizationID: req.OrganizationID,
		IsActive:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) GetUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// UpdateUser never touches the username: article ownership is keyed on it.
func (s *adminService) UpdateUser(id uint, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "user not found"}
	}

	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) DeleteUser(id uint) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		return models.ErrorNotFound{Message: "user not found"}
	}
	return s.userRepo.Delete(id)
}
