package user

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/admin"
)

// Policy holds the role-mutation policy switches.
type Policy struct {
	// PreventSelfDemotion refuses role changes that take the ADMIN role away
	// from the calling admin.
	PreventSelfDemotion bool
}

// Service manages user accounts and their roles.
type Service struct {
	repo   Repository
	guard  *admin.Guard
	policy Policy
}

// NewService creates a user Service.
func NewService(repo Repository, guard *admin.Guard, policy Policy) *Service {
	return &Service{repo: repo, guard: guard, policy: policy}
}

// Sync creates the user record for a profile on first login and returns
// the stored user. Existing records are left untouched.
func (s *Service) Sync(ctx context.Context, p Profile) (*User, error) {
	if p.ID == "" {
		return nil, ErrInvalidProfile
	}
	picture := p.Picture
	if picture == "" {
		picture = "https://avatar.vercel.sh/" + p.FirstName
	}
	u, err := s.repo.Create(ctx, User{
		ID:           p.ID,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		ProfileImage: picture,
		Role:         access.RoleUser,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sync user")
	}
	return u, nil
}

// List returns all users. Admin only.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	err := s.guard.Run(ctx, "user.list", admin.Target{Type: "user"},
		func(ctx context.Context, _ access.Principal) (map[string]any, error) {
			var err error
			users, err = s.repo.List(ctx)
			return nil, err
		})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SetRole assigns role to the user with the given id. Admin only.
func (s *Service) SetRole(ctx context.Context, id string, role access.Role) (*User, error) {
	var updated *User
	err := s.guard.Run(ctx, "user.role.update", admin.Target{Type: "user", ID: id},
		func(ctx context.Context, p access.Principal) (map[string]any, error) {
			if !role.Valid() {
				return nil, admin.Reject(ErrInvalidRole)
			}
			if err := s.checkSelfDemotion(p, id, role); err != nil {
				return nil, err
			}
			u, err := s.repo.UpdateRole(ctx, id, role)
			if err != nil {
				return nil, rejectNotFound(err)
			}
			updated = u
			return map[string]any{"role": string(role)}, nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleRole flips the stored role of the user between ADMIN and USER.
// Admin only.
func (s *Service) ToggleRole(ctx context.Context, id string) (*User, error) {
	var updated *User
	err := s.guard.Run(ctx, "user.role.toggle", admin.Target{Type: "user", ID: id},
		func(ctx context.Context, p access.Principal) (map[string]any, error) {
			current, err := s.repo.FindByID(ctx, id)
			if err != nil {
				return nil, rejectNotFound(err)
			}
			next := access.RoleAdmin
			if current.Role == access.RoleAdmin {
				next = access.RoleUser
			}
			if err := s.checkSelfDemotion(p, id, next); err != nil {
				return nil, err
			}
			u, err := s.repo.UpdateRole(ctx, id, next)
			if err != nil {
				return nil, rejectNotFound(err)
			}
			updated = u
			return map[string]any{"from": string(current.Role), "role": string(next)}, nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) checkSelfDemotion(p access.Principal, id string, role access.Role) error {
	if s.policy.PreventSelfDemotion && p.ID == id && role != access.RoleAdmin {
		return admin.Reject(ErrSelfDemotion)
	}
	return nil
}

func rejectNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return admin.Reject(err)
	}
	return err
}
