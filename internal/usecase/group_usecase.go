package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// GroupUseCase manages users and the groups they share transactions in.
type GroupUseCase struct {
	groups GroupRepository
	users  UserRepository
	idGen  IDGenerator
	now    func() time.Time
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(groups GroupRepository, users UserRepository, idGen IDGenerator) *GroupUseCase {
	return &GroupUseCase{
		groups: groups,
		users:  users,
		idGen:  idGen,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateUserInput represents input for registering a user. An empty ID is
// generated.
type CreateUserInput struct {
	ID   string
	Name string
}

// CreateGroupInput represents input for creating a group. The caller is
// always a member.
type CreateGroupInput struct {
	Name      string
	MemberIDs []string
}

// CreateUser registers a user.
func (uc *GroupUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uc.idGen.Generate()
	}

	if _, err := uc.users.Get(ctx, id); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, storeError(ctx, err)
	}

	user := &domain.User{
		ID:        id,
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: uc.now(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, storeError(ctx, err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *GroupUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.users.Get(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	return user, nil
}

// CreateGroup creates a group of existing users.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	members := []string{actor}
	seen := map[string]bool{actor: true}
	for _, id := range input.MemberIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	if len(members) > domain.MaxParticipants {
		return nil, fmt.Errorf("%w: at most %d members", domain.ErrValidation, domain.MaxParticipants)
	}

	for _, id := range members {
		if _, err := uc.users.Get(ctx, id); err != nil {
			return nil, storeError(ctx, err)
		}
	}

	group := &domain.Group{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Members:   members,
		CreatedAt: uc.now(),
	}
	if err := uc.groups.Create(ctx, group); err != nil {
		return nil, storeError(ctx, err)
	}
	return group, nil
}

// GetGroup returns a group to one of its members.
func (uc *GroupUseCase) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := uc.groups.Get(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	if !group.HasMember(actor) {
		return nil, domain.ErrNotMember
	}
	return group, nil
}

// AddMember adds an existing user to a group. Adding a current member is a no-op.
func (uc *GroupUseCase) AddMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	group, err := uc.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(userID) {
		return group, nil
	}

	if _, err := uc.users.Get(ctx, userID); err != nil {
		return nil, storeError(ctx, err)
	}
	if err := uc.groups.AddMember(ctx, groupID, userID); err != nil {
		return nil, storeError(ctx, err)
	}

	group.Members = append(group.Members, userID)
	return group, nil
}
