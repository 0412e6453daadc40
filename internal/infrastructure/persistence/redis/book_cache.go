package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func bookKey(id uint) string { return fmt.Sprintf("book:%d", id) }

// BookCache 图书详情缓存(Cache-Aside)
// 可借数随借还变化，借还书、更新、删除后由用例层调用Delete
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

// Get 未命中返回(nil, nil)
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, error) {
	data, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "读取图书缓存失败")
	}

	var b book.Book
	if err := json.Unmarshal(data, &b); err != nil {
		// 格式不兼容的旧数据当作未命中，随后会被覆盖
		return nil, nil
	}
	return &b, nil
}

func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return apperrors.Wrap(err, "序列化图书缓存失败")
	}
	if err := c.client.Set(ctx, bookKey(b.ID), data, c.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "写入图书缓存失败")
	}
	return nil
}

func (c *BookCache) Delete(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, bookKey(id)).Err(); err != nil {
		return apperrors.Wrap(err, "删除图书缓存失败")
	}
	return nil
}
