package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

const (
	keyPrefix = "availability:"

	// minVersionTTL нижняя граница времени жизни счетчика версий даты
	minVersionTTL = 24 * time.Hour
)

// Cache кэш свободных слотов по датам
// Запись хранится под текущей версией даты. Invalidate увеличивает версию,
// поэтому Set с версией, прочитанной до изменения, уже не попадет в выдачу.
// Без клиента (Redis не настроен) все операции ничего не делают
type Cache struct {
	client Client
	ttl    time.Duration
}

// New создает кэш; client может быть nil
func New(client Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

// Enabled true, если кэш подключен к Redis
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get возвращает свободные слоты даты и версию даты на момент чтения
// found=false при промахе; версию нужно передать в Set после расчета слотов
func (c *Cache) Get(ctx context.Context, date time.Time) ([]string, int64, bool, error) {
	if !c.Enabled() {
		return nil, 0, false, nil
	}

	version, err := c.version(ctx, date)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, dataKey(date, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("%w: Get - key %s: %w", ErrCacheRead, dataKey(date, version), err)
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, version, false, fmt.Errorf("%w: Get - key %s: %w", ErrDecode, dataKey(date, version), err)
	}
	if slots == nil {
		slots = []string{}
	}

	return slots, version, true, nil
}

// Set сохраняет свободные слоты даты на ttl под версией, полученной из Get
func (c *Cache) Set(ctx context.Context, date time.Time, version int64, slots []string) error {
	if !c.Enabled() {
		return nil
	}
	if slots == nil {
		slots = []string{}
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: Set - marshal: %w", ErrCacheWrite, err)
	}

	if err := c.client.Set(ctx, dataKey(date, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - key %s: %w", ErrCacheWrite, dataKey(date, version), err)
	}

	return nil
}

// Invalidate переводит дату на новую версию; прежние записи больше не читаются
func (c *Cache) Invalidate(ctx context.Context, date time.Time) error {
	if !c.Enabled() {
		return nil
	}

	if err := c.client.Incr(ctx, versionKey(date)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - key %s: %w", ErrCacheWrite, versionKey(date), err)
	}
	if err := c.client.Expire(ctx, versionKey(date), c.versionTTL()).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - expire %s: %w", ErrCacheWrite, versionKey(date), err)
	}

	return nil
}

func (c *Cache) version(ctx context.Context, date time.Time) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Get - key %s: %w", ErrCacheRead, versionKey(date), err)
	}
	return version, nil
}

// versionTTL счетчик версий живет не меньше двух ttl записи
func (c *Cache) versionTTL() time.Duration {
	if ttl := 2 * c.ttl; ttl > minVersionTTL {
		return ttl
	}
	return minVersionTTL
}

func dateKey(date time.Time) string {
	return keyPrefix + domain.NormalizeDate(date).Format(domain.DateFormat)
}

func versionKey(date time.Time) string {
	return dateKey(date) + ":version"
}

func dataKey(date time.Time, version int64) string {
	return fmt.Sprintf("%s:v%d", dateKey(date), version)
}
