package storage

import (
	"context"
	"os"

	"ollamarouter/internal/core"
	"ollamarouter/internal/util"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	historyRedisKey = "ollamarouter:performance"
)

// FileStorage implements persistence using JSON files
type FileStorage struct {
	filePath string
}

func NewFileStorage(filePath string) *FileStorage {
	if filePath == "" {
		filePath = core.HistoryFilePath
	}
	return &FileStorage{filePath: filePath}
}

func (fs *FileStorage) SaveHistory(history *core.PerformanceHistory) error {
	data, err := sonic.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.filePath, data, core.FilePermissionReadWrite)
}

func (fs *FileStorage) LoadHistory() (*core.PerformanceHistory, error) {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &core.PerformanceHistory{Records: []core.PerformanceRecord{}}, nil
		}
		return nil, err
	}

	var history core.PerformanceHistory
	if err := sonic.Unmarshal(data, &history); err != nil {
		return nil, err
	}

	if history.Records == nil {
		history.Records = []core.PerformanceRecord{}
	}

	return &history, nil
}

func (fs *FileStorage) Close() error {
	return nil
}

// RedisStorage implements persistence using Redis
type RedisStorage struct {
	client *redis.Client
	ctx    context.Context
	key    string
}

// RedisStorageConfig Redis storage config
type RedisStorageConfig struct {
	URL string
	Key string
}

func NewRedisStorage(config RedisStorageConfig) (*RedisStorage, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx := context.Background()

	_, err = client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	key := config.Key
	if key == "" {
		key = historyRedisKey
	}

	return &RedisStorage{client: client, ctx: ctx, key: key}, nil
}

func (rs *RedisStorage) SaveHistory(history *core.PerformanceHistory) error {
	data, err := util.MarshalJSON(history)
	if err != nil {
		return err
	}
	return rs.client.Set(rs.ctx, rs.key, data, 0).Err()
}

func (rs *RedisStorage) LoadHistory() (*core.PerformanceHistory, error) {
	val, err := rs.client.Get(rs.ctx, rs.key).Result()
	if err != nil {
		if err == redis.Nil {
			return &core.PerformanceHistory{Records: []core.PerformanceRecord{}}, nil
		}
		return nil, err
	}

	var history core.PerformanceHistory
	if err := sonic.Unmarshal([]byte(val), &history); err != nil {
		return nil, err
	}

	if history.Records == nil {
		history.Records = []core.PerformanceRecord{}
	}

	return &history, nil
}

func (rs *RedisStorage) Close() error {
	return rs.client.Close()
}

// InitStorage initializes storage: Redis when REDIS_URL is set, falling
// back to file storage when Redis is unreachable.
func InitStorage(logger core.Logger) (core.StorageInterface, error) {
	redisURL := os.Getenv("REDIS_URL")

	if redisURL != "" {
		redisStorage, err := NewRedisStorage(RedisStorageConfig{
			URL: redisURL,
			Key: historyRedisKey,
		})
		if err != nil {
			logger.Warn("Failed to initialize Redis storage: %v, falling back to file storage", err)
			return NewFileStorage(core.HistoryFilePath), nil
		}
		logger.Info("Using Redis storage for performance history")
		return redisStorage, nil
	}

	logger.Info("Using file storage for performance history")
	return NewFileStorage(core.HistoryFilePath), nil
}

var (
	_ core.StorageInterface = (*FileStorage)(nil)
	_ core.StorageInterface = (*RedisStorage)(nil)
)
