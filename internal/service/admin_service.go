package service

import (
	"context"

	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
)

// AdminService handles recruiter/reviewer account business logic.
type AdminService struct {
	adminRepo *repository.AdminRepository
	roleRepo  *repository.RoleRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository, roleRepo *repository.RoleRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo, roleRepo: roleRepo}
}

// GetByEmail retrieves an admin by email.
func (s *AdminService) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return s.adminRepo.GetByEmail(ctx, email)
}

// GetByID retrieves an admin by ID.
func (s *AdminService) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// GetPermissions retrieves permission codes for an admin's role.
func (s *AdminService) GetPermissions(ctx context.Context, roleID int) ([]string, error) {
	return s.roleRepo.GetPermissionsByRoleID(ctx, roleID)
}

// Create creates a new admin account.
func (s *AdminService) Create(ctx context.Context, admin *model.Admin) error {
	return s.adminRepo.Create(ctx, admin)
}

// List retrieves all admin accounts.
func (s *AdminService) List(ctx context.Context) ([]model.Admin, error) {
	return s.adminRepo.List(ctx)
}

// ListRoles retrieves all roles with their permission codes.
func (s *AdminService) ListRoles(ctx context.Context) ([]model.RoleWithPermissions, error) {
	return s.roleRepo.ListRolesWithPermissions(ctx)
}

// GetRole retrieves one role with its permission codes.
func (s *AdminService) GetRole(ctx context.Context, id int) (*model.RoleWithPermissions, error) {
	return s.roleRepo.GetRoleByID(ctx, id)
}

// CreateRole creates a role and assigns its permissions.
func (s *AdminService) CreateRole(ctx context.Context, name string, permissions []string) (*model.RoleWithPermissions, error) {
	id, err := s.roleRepo.CreateRole(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(permissions) > 0 {
		if err := s.roleRepo.AssignPermissionsToRole(ctx, id, permissions); err != nil {
			return nil, err
		}
	}
	return s.roleRepo.GetRoleByID(ctx, id)
}

// UpdateRole renames a role and replaces its permission set.
func (s *AdminService) UpdateRole(ctx context.Context, id int, name string, permissions []string) (*model.RoleWithPermissions, error) {
	if err := s.roleRepo.UpdateRole(ctx, id, name); err != nil {
		return nil, err
	}
	if err := s.roleRepo.DeleteAllPermissionsFromRole(ctx, id); err != nil {
		return nil, err
	}
	if len(permissions) > 0 {
		if err := s.roleRepo.AssignPermissionsToRole(ctx, id, permissions); err != nil {
			return nil, err
		}
	}
	return s.roleRepo.GetRoleByID(ctx, id)
}

// DeleteRole removes a role and its permission assignments.
func (s *AdminService) DeleteRole(ctx context.Context, id int) error {
	if err := s.roleRepo.DeleteAllPermissionsFromRole(ctx, id); err != nil {
		return err
	}
	return s.roleRepo.DeleteRole(ctx, id)
}
