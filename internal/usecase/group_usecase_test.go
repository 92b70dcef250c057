package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/internal/usecase/mocks"
)

func TestGroupUseCase_Users(t *testing.T) {
	uc := usecase.NewGroupUseCase(mocks.NewMockGroupRepository(), mocks.NewMockUserRepository(), mocks.NewMockIDGenerator())

	user, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{ID: "alice", Name: "  Alice "})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = uc.CreateUser(context.Background(), usecase.CreateUserInput{ID: "alice", Name: "Alice again"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	generated, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "mock-id-1", generated.ID)

	_, err = uc.CreateUser(context.Background(), usecase.CreateUserInput{ID: "x", Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = uc.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGroupUseCase_Groups(t *testing.T) {
	groups := mocks.NewMockGroupRepository()
	uc := usecase.NewGroupUseCase(groups, mocks.NewMockUserRepository("alice", "bob", "carol"), mocks.NewMockIDGenerator())

	group, err := uc.CreateGroup(as("alice"), usecase.CreateGroupInput{Name: "Trip", MemberIDs: []string{"bob", "bob", "alice"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, group.Members)

	_, err = uc.CreateGroup(as("alice"), usecase.CreateGroupInput{Name: "Ghosts", MemberIDs: []string{"casper"}})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.GetGroup(as("carol"), group.ID)
	assert.ErrorIs(t, err, domain.ErrNotMember)

	updated, err := uc.AddMember(as("bob"), group.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, updated.Members)

	again, err := uc.AddMember(as("bob"), group.ID, "carol")
	require.NoError(t, err)
	assert.Len(t, again.Members, 3)

	stored, err := uc.GetGroup(as("carol"), group.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasMember("carol"))
}
