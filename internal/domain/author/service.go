package author

import (
	"context"
	"errors"
)

// Service 作者领域服务
type Service interface {
	Create(ctx context.Context, name, bio string) (*Author, error)
	Get(ctx context.Context, id uint) (*Author, error)
	List(ctx context.Context) ([]*Author, error)
	Update(ctx context.Context, id uint, name, bio string) (*Author, error)

	// Delete 删除作者
	// 业务规则：仍被图书引用的作者不能删除
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

// NewService 创建作者领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name, bio string) (*Author, error) {
	a, err := NewAuthor(name, bio)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, a.Name, 0); err != nil {
		return nil, err
	}

	// 并发创建同名作者时由唯一索引兜底，Repository转换为ErrNameDuplicate
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Author, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Author, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id uint, name, bio string) (*Author, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Rename(name, bio); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, a.Name, a.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.repo.HasBooks(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrAuthorInUse
	}

	return s.repo.Delete(ctx, id)
}

// ensureNameFree 名称未被其他作者占用（selfID为当前作者，更新时排除自己）
func (s *service) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrAuthorNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrNameDuplicate
	}
	return nil
}
