package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

type groupServiceStub struct {
	createUserFn  func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	getUserFn     func(ctx context.Context, id string) (*domain.User, error)
	createGroupFn func(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, error)
	getGroupFn    func(ctx context.Context, id string) (*domain.Group, error)
	addMemberFn   func(ctx context.Context, groupID, userID string) (*domain.Group, error)
}

func (s *groupServiceStub) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, input)
}

func (s *groupServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *groupServiceStub) CreateGroup(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, error) {
	return s.createGroupFn(ctx, input)
}

func (s *groupServiceStub) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return s.getGroupFn(ctx, id)
}

func (s *groupServiceStub) AddMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	return s.addMemberFn(ctx, groupID, userID)
}

func TestGroupHandler_CreateUser(t *testing.T) {
	h := NewGroupHandler(&groupServiceStub{
		createUserFn: func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
			return &domain.User{ID: input.ID, Name: input.Name}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"id":"bob","name":"Bob"}`))
	rec := serve(http.MethodPost, "/users", h.CreateUser, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.ID != "bob" || resp.Name != "Bob" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGroupHandler_CreateUser_Exists(t *testing.T) {
	h := NewGroupHandler(&groupServiceStub{
		createUserFn: func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"id":"bob","name":"Bob"}`))
	rec := serve(http.MethodPost, "/users", h.CreateUser, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGroupHandler_CreateGroupAndAddMember(t *testing.T) {
	h := NewGroupHandler(&groupServiceStub{
		createGroupFn: func(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, error) {
			return &domain.Group{ID: "trip", Name: input.Name, Members: input.MemberIDs}, nil
		},
		addMemberFn: func(ctx context.Context, groupID, userID string) (*domain.Group, error) {
			return &domain.Group{ID: groupID, Name: "Trip", Members: []string{"alice", userID}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader(`{"name":"Trip","member_ids":["alice"]}`))
	rec := serve(http.MethodPost, "/groups", h.CreateGroup, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/groups/trip/members", strings.NewReader(`{"user_id":"bob"}`))
	rec = serve(http.MethodPost, "/groups/{id}/members", h.AddMember, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.GroupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Members) != 2 || resp.Members[1] != "bob" {
		t.Fatalf("unexpected members: %v", resp.Members)
	}
}

func TestGroupHandler_GetGroup_NotMember(t *testing.T) {
	h := NewGroupHandler(&groupServiceStub{
		getGroupFn: func(ctx context.Context, id string) (*domain.Group, error) {
			return nil, domain.ErrNotMember
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/groups/trip", nil)
	rec := serve(http.MethodGet, "/groups/{id}", h.GetGroup, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
