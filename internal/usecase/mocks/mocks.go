package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// MockTransactionStore is an in-memory TransactionStore with version checks.
// Any Func field overrides the corresponding method.
type MockTransactionStore struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	SettleCalls  int

	CreateFunc       func(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	GetFunc          func(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateFunc       func(ctx context.Context, t *domain.Transaction, expectedVersion int64) (*domain.Transaction, error)
	DeleteFunc       func(ctx context.Context, id string, expectedVersion int64) error
	ListForUserFunc  func(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
	ListForGroupFunc func(ctx context.Context, groupID string, limit, offset int) ([]*domain.Transaction, error)
	SettleFunc       func(ctx context.Context, cmd domain.SettleCommand) (*domain.Transaction, error)
}

func NewMockTransactionStore() *MockTransactionStore {
	return &MockTransactionStore{
		transactions: make(map[string]*domain.Transaction),
	}
}

// Put stores t as is, bypassing validation.
func (m *MockTransactionStore) Put(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.ID] = t.Clone()
}

func (m *MockTransactionStore) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := t.Clone()
	stored.Version = 1
	m.transactions[t.ID] = stored
	return stored.Clone(), nil
}

func (m *MockTransactionStore) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		return t.Clone(), nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionStore) Update(ctx context.Context, t *domain.Transaction, expectedVersion int64) (*domain.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.transactions[t.ID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if current.Version != expectedVersion {
		return nil, domain.ErrVersionMismatch
	}
	stored := t.Clone()
	stored.Version = current.Version + 1
	m.transactions[t.ID] = stored
	return stored.Clone(), nil
}

func (m *MockTransactionStore) Delete(ctx context.Context, id string, expectedVersion int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if current.Version != expectedVersion {
		return domain.ErrVersionMismatch
	}
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionStore) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID, limit, offset)
	}
	return m.list(func(t *domain.Transaction) bool { return t.Involves(userID) }, limit, offset), nil
}

func (m *MockTransactionStore) ListForGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListForGroupFunc != nil {
		return m.ListForGroupFunc(ctx, groupID, limit, offset)
	}
	return m.list(func(t *domain.Transaction) bool { return t.GroupID != nil && *t.GroupID == groupID }, limit, offset), nil
}

func (m *MockTransactionStore) Settle(ctx context.Context, cmd domain.SettleCommand) (*domain.Transaction, error) {
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, cmd)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SettleCalls++
	current, ok := m.transactions[cmd.TransactionID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if current.Version != cmd.ExpectedVersion {
		return nil, domain.ErrVersionMismatch
	}
	next := current.Clone()
	if _, err := next.MarkPaid(cmd.UserIDs, cmd.PaymentMethodRef, cmd.At); err != nil {
		return nil, err
	}
	next.Version++
	next.UpdatedAt = cmd.At
	m.transactions[next.ID] = next
	return next.Clone(), nil
}

func (m *MockTransactionStore) list(match func(*domain.Transaction) bool, limit, offset int) []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range m.transactions {
		if match(t) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// MockGroupRepository is a mock implementation of GroupRepository.
type MockGroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*domain.Group

	CreateFunc    func(ctx context.Context, group *domain.Group) error
	GetFunc       func(ctx context.Context, id string) (*domain.Group, error)
	AddMemberFunc func(ctx context.Context, groupID, userID string) error
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups: make(map[string]*domain.Group),
	}
}

func (m *MockGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g := *group
	g.Members = append([]string(nil), group.Members...)
	m.groups[group.ID] = &g
	return nil
}

func (m *MockGroupRepository) Get(ctx context.Context, id string) (*domain.Group, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.groups[id]; ok {
		c := *g
		c.Members = append([]string(nil), g.Members...)
		return &c, nil
	}
	return nil, domain.ErrGroupNotFound
}

func (m *MockGroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, groupID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	if !g.HasMember(userID) {
		g.Members = append(g.Members, userID)
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc func(ctx context.Context, user *domain.User) error
	GetFunc    func(ctx context.Context, id string) (*domain.User, error)
}

func NewMockUserRepository(ids ...string) *MockUserRepository {
	m := &MockUserRepository{
		users: make(map[string]*domain.User),
	}
	for _, id := range ids {
		m.users[id] = &domain.User{ID: id, Name: id}
	}
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *MockUserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockCache is an in-memory Cache. TTLs are recorded but not enforced.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte
	TTLs map[string]time.Duration

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, keys ...string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
		TTLs: make(map[string]time.Duration),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, usecase.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.TTLs[key] = ttl
	return nil
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, keys...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Has reports whether key is cached.
func (m *MockCache) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// MockBalanceInvalidator records invalidated user IDs.
type MockBalanceInvalidator struct {
	mu          sync.Mutex
	Invalidated []string
}

func (m *MockBalanceInvalidator) Invalidate(ctx context.Context, userIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, userIDs...)
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var (
	_ usecase.TransactionStore   = (*MockTransactionStore)(nil)
	_ usecase.GroupRepository    = (*MockGroupRepository)(nil)
	_ usecase.UserRepository     = (*MockUserRepository)(nil)
	_ usecase.Cache              = (*MockCache)(nil)
	_ usecase.BalanceInvalidator = (*MockBalanceInvalidator)(nil)
	_ usecase.IDGenerator        = (*MockIDGenerator)(nil)
	_ usecase.IdempotencyStore   = (*MockIdempotencyStore)(nil)
)
