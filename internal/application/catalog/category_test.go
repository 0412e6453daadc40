package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/category"
)

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 7
	}
	return args.Error(0)
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*category.Category)
	return c, args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]*category.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*category.Category)
	return list, args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *category.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func TestCategoryUseCase_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		repoErr error
		wantErr error
	}{
		{name: "正常创建", input: "  Fiction ", wantErr: nil},
		{name: "名称太短", input: " F ", wantErr: category.ErrInvalidName},
		{name: "名称重复", input: "Fiction", repoErr: category.ErrNameDuplicate, wantErr: category.ErrNameDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockCategoryRepo)
			repo.On("Create", ctx, mock.AnythingOfType("*category.Category")).Return(tt.repoErr).Maybe()

			dto, err := NewCategoryUseCase(repo).Create(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(7), dto.ID)
			assert.Equal(t, "Fiction", dto.Name)
		})
	}
}

func TestCategoryUseCase_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(mockCategoryRepo)
	repo.On("FindByID", ctx, uint(3)).Return(&category.Category{ID: 3, Name: "Old"}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *category.Category) bool { return c.Name == "History" })).Return(nil)
	repo.On("FindByID", ctx, uint(4)).Return(nil, category.ErrCategoryNotFound)

	uc := NewCategoryUseCase(repo)

	dto, err := uc.Update(ctx, 3, "History")
	require.NoError(t, err)
	assert.Equal(t, "History", dto.Name)

	_, err = uc.Update(ctx, 4, "History")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	repo.AssertExpectations(t)
}

func TestCategoryUseCase_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	repo := new(mockCategoryRepo)
	repo.On("Delete", ctx, uint(3)).Return(category.ErrCategoryInUse)

	err := NewCategoryUseCase(repo).Delete(ctx, 3)
	assert.ErrorIs(t, err, category.ErrCategoryInUse)
}
