package service_test

import (
	"context"

	"github.com/phrazzld/locale-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockTranslationStore is a testify mock of store.TranslationStore.
type MockTranslationStore struct {
	mock.Mock
}

func (m *MockTranslationStore) ListKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *MockTranslationStore) GetByKey(ctx context.Context, sid string) (*domain.SourceText, error) {
	args := m.Called(ctx, sid)
	st, _ := args.Get(0).(*domain.SourceText)
	return st, args.Error(1)
}

func (m *MockTranslationStore) ListAll(ctx context.Context) ([]*domain.SourceText, error) {
	args := m.Called(ctx)
	texts, _ := args.Get(0).([]*domain.SourceText)
	return texts, args.Error(1)
}

func (m *MockTranslationStore) CreateSourceText(ctx context.Context, st *domain.SourceText) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockTranslationStore) UpsertTranslation(
	ctx context.Context,
	sid, langID, text string,
) (*domain.Translation, error) {
	args := m.Called(ctx, sid, langID, text)
	tr, _ := args.Get(0).(*domain.Translation)
	return tr, args.Error(1)
}

func (m *MockTranslationStore) UpdateSourceText(
	ctx context.Context,
	sid, text string,
) (*domain.SourceText, error) {
	args := m.Called(ctx, sid, text)
	st, _ := args.Get(0).(*domain.SourceText)
	return st, args.Error(1)
}

func (m *MockTranslationStore) DeleteTranslation(ctx context.Context, sid, langID string) error {
	args := m.Called(ctx, sid, langID)
	return args.Error(0)
}

func (m *MockTranslationStore) DeleteSourceText(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}

// MockSuggester implements service.TranslationSuggester with a function field.
type MockSuggester struct {
	SuggestFn func(ctx context.Context, text, langID string) (string, error)
}

func (m *MockSuggester) Suggest(ctx context.Context, text, langID string) (string, error) {
	return m.SuggestFn(ctx, text, langID)
}
