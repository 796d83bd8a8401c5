package service

import (
	"context"
	"encoding/json"

	"learnflow/internal/domain"
	"learnflow/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- Mocks shared across service tests ---

type MockWorkerClient struct {
	mock.Mock
}

func (m *MockWorkerClient) Explore(ctx context.Context, query string, user domain.UserContext) (json.RawMessage, error) {
	args := m.Called(ctx, query, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockWorkerClient) Playground(ctx context.Context, topic string, level int, user domain.UserContext) (json.RawMessage, error) {
	args := m.Called(ctx, topic, level, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockWorkerClient) Test(ctx context.Context, topic string, examType domain.ExamType) (json.RawMessage, error) {
	args := m.Called(ctx, topic, examType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockWorkerClient) StreamExplore(ctx context.Context, query string, user domain.UserContext, history []domain.ChatTurn) (json.RawMessage, error) {
	args := m.Called(ctx, query, user, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

var _ WorkerClient = (*MockWorkerClient)(nil)

type MockExploreCacheService struct {
	mock.Mock
}

func (m *MockExploreCacheService) GetExploreFromCache(ctx context.Context, key string) (*dto.ExploreResponse, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExploreResponse), args.Error(1)
}

func (m *MockExploreCacheService) PutExploreToCache(ctx context.Context, key string, resp *dto.ExploreResponse) error {
	args := m.Called(ctx, key, resp)
	return args.Error(0)
}

var _ ExploreCacheService = (*MockExploreCacheService)(nil)
