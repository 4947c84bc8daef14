// Package mocks holds testify mocks for the click pipeline's ports.
package mocks

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/usecase"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/mock"
)

func assertOnCleanup(t *testing.T, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockCache is a testify mock for usecase.Cache.
type MockCache struct {
	mock.Mock
}

// NewMockCache creates a MockCache whose expectations are asserted on cleanup.
func NewMockCache(t *testing.T) *MockCache {
	m := &MockCache{}
	assertOnCleanup(t, &m.Mock)
	return m
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) MGet(ctx context.Context, keys ...string) ([]string, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockEventSink is a testify mock for usecase.EventSink.
type MockEventSink struct {
	mock.Mock
}

// NewMockEventSink creates a MockEventSink whose expectations are asserted on cleanup.
func NewMockEventSink(t *testing.T) *MockEventSink {
	m := &MockEventSink{}
	assertOnCleanup(t, &m.Mock)
	return m
}

func (m *MockEventSink) Append(ctx context.Context, event domain.ClickEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockLinkStore is a testify mock for usecase.LinkStore.
type MockLinkStore struct {
	mock.Mock
}

// NewMockLinkStore creates a MockLinkStore whose expectations are asserted on cleanup.
func NewMockLinkStore(t *testing.T) *MockLinkStore {
	m := &MockLinkStore{}
	assertOnCleanup(t, &m.Mock)
	return m
}

func (m *MockLinkStore) IncrementLinkClicks(ctx context.Context, linkID string, at time.Time) error {
	args := m.Called(ctx, linkID, at)
	return args.Error(0)
}

func (m *MockLinkStore) IncrementWorkspaceUsage(ctx context.Context, linkID string) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}

func (m *MockLinkStore) WorkspaceUsage(ctx context.Context, workspaceID string) (*domain.UsageSnapshot, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UsageSnapshot), args.Error(1)
}

func (m *MockLinkStore) FindLinkWithTags(ctx context.Context, linkID string) (*domain.Link, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkStore) FindLinkByDomainKey(ctx context.Context, domainName, key string) (*domain.Link, error) {
	args := m.Called(ctx, domainName, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

// MockWebhookDispatcher is a testify mock for usecase.WebhookDispatcher.
type MockWebhookDispatcher struct {
	mock.Mock
}

// NewMockWebhookDispatcher creates a MockWebhookDispatcher whose expectations are asserted on cleanup.
func NewMockWebhookDispatcher(t *testing.T) *MockWebhookDispatcher {
	m := &MockWebhookDispatcher{}
	assertOnCleanup(t, &m.Mock)
	return m
}

func (m *MockWebhookDispatcher) Send(ctx context.Context, trigger string, subscriptions []domain.WebhookSubscription, payload any) error {
	args := m.Called(ctx, trigger, subscriptions, payload)
	return args.Error(0)
}

// MockFanoutScheduler is a testify mock for usecase.FanoutScheduler.
type MockFanoutScheduler struct {
	mock.Mock
}

// NewMockFanoutScheduler creates a MockFanoutScheduler whose expectations are asserted on cleanup.
func NewMockFanoutScheduler(t *testing.T) *MockFanoutScheduler {
	m := &MockFanoutScheduler{}
	assertOnCleanup(t, &m.Mock)
	return m
}

func (m *MockFanoutScheduler) Schedule(ctx context.Context, job usecase.FanoutJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockClickRecorder is a testify mock for the HTTP handler's recorder.
type MockClickRecorder struct {
	mock.Mock
}

// NewMockClickRecorder creates a MockClickRecorder whose expectations are asserted on cleanup.
func NewMockClickRecorder(t *testing.T) *MockClickRecorder {
	m := &MockClickRecorder{}
	assertOnCleanup(t, &m.Mock)
	return m
}

func (m *MockClickRecorder) RecordClick(ctx context.Context, req *http.Request, in usecase.RecordInput) (*domain.ClickEvent, error) {
	args := m.Called(ctx, req, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClickEvent), args.Error(1)
}

// MockSQSClient is a testify mock for the SendMessage part of the SQS client.
type MockSQSClient struct {
	mock.Mock
}

// NewMockSQSClient creates a MockSQSClient whose expectations are asserted on cleanup.
func NewMockSQSClient(t *testing.T) *MockSQSClient {
	m := &MockSQSClient{}
	assertOnCleanup(t, &m.Mock)
	return m
}

func (m *MockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}
