package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cit-system/internal/entities"

	"github.com/go-redis/redis/v8"
)

// CachedServiceTypeRepository — декоратор над справочником типов услуг.
// Справочник читается на каждом подтверждении забора, меняется редко,
// поэтому держится в Redis с TTL.
type CachedServiceTypeRepository struct {
	inner  ServiceTypeRepositoryInterface
	client *redis.Client
	ttl    time.Duration
}

func NewCachedServiceTypeRepository(inner ServiceTypeRepositoryInterface, client *redis.Client, ttl time.Duration) ServiceTypeRepositoryInterface {
	return &CachedServiceTypeRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedServiceTypeRepository) FindByID(ctx context.Context, id uint64) (*entities.ServiceType, error) {
	key := fmt.Sprintf("service_type:%d", id)

	if raw, err := r.client.Get(ctx, key).Result(); err == nil {
		var st entities.ServiceType
		if json.Unmarshal([]byte(raw), &st) == nil {
			return &st, nil
		}
	}

	st, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(st); err == nil {
		// Ошибка записи в кэш не должна ронять операцию
		_ = r.client.Set(ctx, key, raw, r.ttl).Err()
	}
	return st, nil
}

func (r *CachedServiceTypeRepository) GetAll(ctx context.Context) ([]entities.ServiceType, error) {
	return r.inner.GetAll(ctx)
}
