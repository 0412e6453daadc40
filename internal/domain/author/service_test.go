package author

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, a *Author) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = 1
	}
	return args.Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, id uint) (*Author, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*Author)
	return a, args.Error(1)
}

func (m *mockRepository) FindByName(ctx context.Context, name string) (*Author, error) {
	args := m.Called(ctx, name)
	a, _ := args.Get(0).(*Author)
	return a, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context) ([]*Author, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*Author)
	return list, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, a *Author) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) HasBooks(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		setup   func(repo *mockRepository)
		wantErr error
	}{
		{
			name:  "创建成功（去除首尾空白）",
			input: "  鲁迅 ",
			setup: func(repo *mockRepository) {
				repo.On("FindByName", ctx, "鲁迅").Return(nil, ErrAuthorNotFound)
				repo.On("Create", ctx, mock.AnythingOfType("*author.Author")).Return(nil)
			},
		},
		{
			name:    "名称过短",
			input:   " 鲁 ",
			setup:   func(repo *mockRepository) {},
			wantErr: ErrInvalidName,
		},
		{
			name:  "名称重复",
			input: "Orwell",
			setup: func(repo *mockRepository) {
				repo.On("FindByName", ctx, "Orwell").Return(&Author{ID: 9, Name: "Orwell"}, nil)
			},
			wantErr: ErrNameDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}
			tt.setup(repo)

			a, err := NewService(repo).Create(ctx, tt.input, "")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "期望%v，实际%v", tt.wantErr, err)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "鲁迅", a.Name)
			repo.AssertExpectations(t)
		})
	}
}

// TestService_Delete 被图书引用的作者不能删除，未被引用的可以删除
func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("被引用", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("FindByID", ctx, uint(1)).Return(&Author{ID: 1, Name: "Orwell"}, nil)
		repo.On("HasBooks", ctx, uint(1)).Return(true, nil)

		err := NewService(repo).Delete(ctx, 1)
		assert.True(t, errors.Is(err, ErrAuthorInUse))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("未被引用", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("FindByID", ctx, uint(2)).Return(&Author{ID: 2, Name: "Huxley"}, nil)
		repo.On("HasBooks", ctx, uint(2)).Return(false, nil)
		repo.On("Delete", ctx, uint(2)).Return(nil)

		require.NoError(t, NewService(repo).Delete(ctx, 2))
		repo.AssertExpectations(t)
	})

	t.Run("不存在", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("FindByID", ctx, uint(3)).Return(nil, ErrAuthorNotFound)

		err := NewService(repo).Delete(ctx, 3)
		assert.True(t, errors.Is(err, ErrAuthorNotFound))
	})
}

func TestService_UpdateKeepsOwnName(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	repo.On("FindByID", ctx, uint(5)).Return(&Author{ID: 5, Name: "Orwell"}, nil)
	repo.On("FindByName", ctx, "Orwell").Return(&Author{ID: 5, Name: "Orwell"}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*author.Author")).Return(nil)

	a, err := NewService(repo).Update(ctx, 5, "Orwell", "1984")
	require.NoError(t, err)
	assert.Equal(t, "1984", a.Bio)
}
