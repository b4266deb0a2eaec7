package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"salonpos/backend/internal/domain"
)

const (
	productsKey = "catalog:products"
	staffKey    = "catalog:staff"
)

type RedisCatalogCache struct {
	client *redis.Client
}

func NewRedisCatalogCache(addr string, password string, db int) *RedisCatalogCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCatalogCache{client: client}
}

func (c *RedisCatalogCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}

func (c *RedisCatalogCache) GetProducts(ctx context.Context) ([]domain.Product, bool, error) {
	var products []domain.Product
	found, err := c.get(ctx, productsKey, &products)
	return products, found, err
}

func (c *RedisCatalogCache) SetProducts(ctx context.Context, products []domain.Product, ttl time.Duration) error {
	return c.set(ctx, productsKey, products, ttl)
}

func (c *RedisCatalogCache) InvalidateProducts(ctx context.Context) error {
	return c.client.Del(ctx, productsKey).Err()
}

func (c *RedisCatalogCache) GetStaff(ctx context.Context) ([]domain.Staff, bool, error) {
	var staff []domain.Staff
	found, err := c.get(ctx, staffKey, &staff)
	return staff, found, err
}

func (c *RedisCatalogCache) SetStaff(ctx context.Context, staff []domain.Staff, ttl time.Duration) error {
	return c.set(ctx, staffKey, staff, ttl)
}

func (c *RedisCatalogCache) InvalidateStaff(ctx context.Context) error {
	return c.client.Del(ctx, staffKey).Err()
}

func (c *RedisCatalogCache) get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCatalogCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
