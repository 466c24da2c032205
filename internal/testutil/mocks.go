package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"health-insurance-web/internal/identity"
	"health-insurance-web/internal/models"
)

// MockIdentityProvider mocks the hosted identity client
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*identity.Principal, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Principal), args.Error(1)
}

func (m *MockIdentityProvider) VerifyFederatedToken(ctx context.Context, idToken string) (*identity.Principal, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Principal), args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockIdentityProvider) CreateAccount(ctx context.Context, email, password, displayName string) (*identity.Principal, error) {
	args := m.Called(ctx, email, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Principal), args.Error(1)
}

func (m *MockIdentityProvider) SendEmailVerification(ctx context.Context, idToken string) error {
	args := m.Called(ctx, idToken)
	return args.Error(0)
}

func (m *MockIdentityProvider) SendPasswordReset(ctx context.Context, email, continueURL string) error {
	args := m.Called(ctx, email, continueURL)
	return args.Error(0)
}

func (m *MockIdentityProvider) VerifyResetCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityProvider) ConfirmReset(ctx context.Context, code, newPassword string) error {
	args := m.Called(ctx, code, newPassword)
	return args.Error(0)
}

// MockProfileStore mocks the role profile store
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Fetch(ctx context.Context, collection, uid string) (*models.RoleRecord, error) {
	args := m.Called(ctx, collection, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoleRecord), args.Error(1)
}

func (m *MockProfileStore) Create(ctx context.Context, collection, uid string, doc interface{}) error {
	args := m.Called(ctx, collection, uid, doc)
	return args.Error(0)
}

func (m *MockProfileStore) ListPending(ctx context.Context, collection string) ([]models.ProviderProfile, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProviderProfile), args.Error(1)
}

// MockMailer mocks the transactional email sender
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, senderName, subject, body string) error {
	args := m.Called(to, senderName, subject, body)
	return args.Error(0)
}

// MockAuthEvents mocks the auth event log
type MockAuthEvents struct {
	mock.Mock
}

func (m *MockAuthEvents) Recent(ctx context.Context, limit int) ([]models.AuthEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuthEvent), args.Error(1)
}
