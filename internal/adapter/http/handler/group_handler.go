package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// GroupService defines the behavior needed by GroupHandler.
type GroupService interface {
	CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateGroup(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, error)
	GetGroup(ctx context.Context, id string) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID string) (*domain.Group, error)
}

// GroupHandler handles users and groups.
type GroupHandler struct {
	groupUC GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupUC GroupService) *GroupHandler {
	return &GroupHandler{groupUC: groupUC}
}

// CreateUser registers a user.
func (h *GroupHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return
	}

	user, err := h.groupUC.CreateUser(r.Context(), usecase.CreateUserInput{ID: req.ID, Name: req.Name})
	if err != nil {
		writeDomainError(w, r, "failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// GetUser retrieves a user.
func (h *GroupHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.groupUC.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// CreateGroup creates a group with the caller as a member.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return
	}

	group, err := h.groupUC.CreateGroup(r.Context(), usecase.CreateGroupInput{Name: req.Name, MemberIDs: req.MemberIDs})
	if err != nil {
		writeDomainError(w, r, "failed to create group", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.GroupFromDomain(group))
}

// GetGroup retrieves a group.
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupUC.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get group", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupFromDomain(group))
}

// AddMember adds a user to a group.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req dto.AddMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return
	}

	group, err := h.groupUC.AddMember(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		writeDomainError(w, r, "failed to add member", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupFromDomain(group))
}
