package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	"github.com/m04kA/SMC-ShareItService/internal/infra/storage/user"
)

// Cache read-through кэш пользователей поверх репозитория.
// Ошибки redis не ломают запрос: пишем предупреждение и идем в репозиторий.
// Отсутствующие пользователи не кэшируются.
type Cache struct {
	client *redis.Client
	repo   UserRepository
	ttl    time.Duration
	logger Logger
}

// NewCache создает кэш пользователей
func NewCache(client *redis.Client, repo UserRepository, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		client: client,
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

// GetByID возвращает пользователя из кэша, при промахе читает репозиторий и кладет в кэш
func (c *Cache) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := c.get(ctx, id); ok {
		return u, nil
	}

	u, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.set(ctx, u)
	return u, nil
}

// Exists проверяет пользователя через GetByID, чтобы прогреть кэш
func (c *Cache) Exists(ctx context.Context, id int64) (bool, error) {
	if _, ok := c.get(ctx, id); ok {
		return true, nil
	}

	_, err := c.GetByID(ctx, id)
	if errors.Is(err, user.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) get(ctx context.Context, id int64) (*domain.User, bool) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("users.Cache: redis get failed id=%d: %v", id, err)
		}
		return nil, false
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		c.logger.Warn("users.Cache: corrupted entry id=%d: %v", id, err)
		return nil, false
	}

	c.logger.Debug("users.Cache: hit id=%d", id)
	return &u, true
}

func (c *Cache) set(ctx context.Context, u *domain.User) {
	payload, err := json.Marshal(u)
	if err != nil {
		c.logger.Warn("users.Cache: marshal user id=%d: %v", u.ID, err)
		return
	}

	if err := c.client.Set(ctx, userKey(u.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("users.Cache: redis set failed id=%d: %v", u.ID, err)
	}
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}
