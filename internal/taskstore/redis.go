package taskstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// taskTTL 任务状态保留时长，到期自动清理
const taskTTL = 24 * time.Hour

// keyPrefix Redis 键前缀
const keyPrefix = "lunban:task:"

// RedisStore Redis 任务存储，多实例部署共享任务状态
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 任务存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put 写入任务状态
func (s *RedisStore) Put(ctx context.Context, task *Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+task.ID, data, taskTTL).Err()
}

// Get 查询任务状态
func (s *RedisStore) Get(ctx context.Context, id string) (*Task, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	task := &Task{}
	if err := json.Unmarshal(data, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete 删除任务状态
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}
