package services

import (
	"testing"
	"time"

	"threatlens/models"
	"threatlens/repositories"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdminServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service AdminService
}

func (s *AdminServiceTestSuite) SetupSuite() {
	s.db = newTestDB(s.T(), "admin_service")
}

func (s *AdminServiceTestSuite) SetupTest() {
	truncateAll(s.db)
	s.service = NewAdminService(
		repositories.NewOrganizationRepository(s.db),
		repositories.NewUserRepository(s.db),
		zap.NewNop(),
	)
}

func (s *AdminServiceTestSuite) TestDeleteEmptyOrganizationSucceeds() {
	org := makeOrg(s.db, "empty-co", time.Now())
	s.NoError(s.service.DeleteOrganization(org.ID))
}

func (s *AdminServiceTestSuite) TestDeleteOrganizationWithUsersConflicts() {
	org := makeOrg(s.db, "staffed-co", time.Now())
	user, err := s.service.CreateUser(models.CreateUserRequest{
		Username:       "bob",
		Password:       "hunter22",
		Email:          "bob@example.com",
		OrganizationID: org.ID,
	})
	s.NoError(err)
	s.NotEmpty(user.Password)
	s.NotEqual("hunter22", user.Password)

	err = s.service.DeleteOrganization(org.ID)
	s.IsType(models.ErrorConflict{}, err)
	s.Contains(err.Error(), "1 user")
}

func (s *AdminServiceTestSuite) TestDuplicateOrganizationNameConflicts() {
	_, err := s.service.CreateOrganization(models.CreateOrganizationRequest{Name: "taken-co"})
	s.NoError(err)

	_, err = s.service.CreateOrganization(models.CreateOrganizationRequest{Name: "taken-co"})
	s.IsType(models.ErrorConflict{}, err)
	s.Contains(err.Error(), "already taken")
}

func (s *AdminServiceTestSuite) TestCreateUserRequiresExistingOrganization() {
	_, err := s.service.CreateUser(models.CreateUserRequest{
		Username:       "ghost",
		Password:       "hunter22",
		Email:          "ghost@example.com",
		OrganizationID: 9999,
	})
	s.IsType(models.ErrorValidation{}, err)
}

func (s *AdminServiceTestSuite) TestDuplicateUsernameConflicts() {
	org := makeOrg(s.db, "dup-co", time.Now())
	_, err := s.service.CreateUser(models.CreateUserRequest{
		Username: "carol", Password: "hunter22", Email: "carol@example.com", OrganizationID: org.ID,
	})
	s.NoError(err)

	_, err = s.service.CreateUser(models.CreateUserRequest{
		Username: "carol", Password: "hunter22", Email: "carol2@example.com", OrganizationID: org.ID,
	})
	s.IsType(models.ErrorConflict{}, err)
}

func (s *AdminServiceTestSuite) TestUpdateUserNeverTouchesUsername() {
	org := makeOrg(s.db, "rename-co", time.Now())
	user, err := s.service.CreateUser(models.CreateUserRequest{
		Username: "dave", Password: "hunter22", Email: "dave@example.com", OrganizationID: org.ID,
	})
	s.NoError(err)

	name := "Dave Example"
	updated, err := s.service.UpdateUser(user.ID, models.UpdateUserRequest{FullName: &name})
	s.NoError(err)
	s.Equal("dave", updated.Username)
	s.Equal("Dave Example", updated.FullName)
}

func TestAdminServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
