package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Lottery       LotteryConfig       `toml:"lottery"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`
	Session       SessionConfig       `toml:"session"`
	Admin         AdminConfig         `toml:"admin"`
	Subscribers   SubscribersConfig   `toml:"subscribers"`
	Notifications NotificationsConfig `toml:"notifications"`
	Broker        BrokerConfig        `toml:"broker"`
	Redis         RedisConfig         `toml:"redis"`
	RateLimit     RateLimitConfig     `toml:"ratelimit"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LotteryConfig правила допуска и лотереи
type LotteryConfig struct {
	DailyCapacity   int      `toml:"daily_capacity"`
	SubscriberQuota int      `toml:"subscriber_quota"`
	CutoffHour      int      `toml:"cutoff_hour"`
	Timezone        string   `toml:"timezone"`
	Slots           []string `toml:"slots"`
	BlockedDates    []string `toml:"blocked_dates"`
}

// Limits ограничения вместимости для доменной логики
func (c LotteryConfig) Limits() domain.Limits {
	return domain.Limits{
		DailyCapacity:   c.DailyCapacity,
		SubscriberQuota: c.SubscriberQuota,
	}
}

// Location часовой пояс сервиса
func (c LotteryConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// ParseBlockedDates разбирает список закрытых для записи дат
func (c LotteryConfig) ParseBlockedDates() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(c.BlockedDates))
	for _, s := range c.BlockedDates {
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("blocked date %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// SchedulerConfig параметры планировщика лотереи
type SchedulerConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

// Interval период проверки планировщика
func (c SchedulerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// SessionConfig параметры сессионных токенов
type SessionConfig struct {
	JWTSecret  string `toml:"jwt_secret"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// TTL время жизни токена
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// AdminConfig доступ к административным операциям
type AdminConfig struct {
	Token string `toml:"token"`
}

// SubscribersConfig начальное наполнение реестра подписок
type SubscribersConfig struct {
	SeedIDs []string `toml:"seed_ids"`
}

// NotificationsConfig каналы уведомлений об итогах лотереи
// Пустой URL или токен отключает соответствующий канал
type NotificationsConfig struct {
	WebhookURL       string `toml:"webhook_url"`
	TelegramBotToken string `toml:"telegram_bot_token"`
	TelegramChatID   int64  `toml:"telegram_chat_id"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
}

// Timeout таймаут одной отправки
func (c NotificationsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BrokerConfig публикация событий в RabbitMQ (пустой URL отключает)
type BrokerConfig struct {
	URL   string `toml:"url"`
	Queue string `toml:"queue"`
}

// RedisConfig кэш доступности слотов (пустой адрес отключает)
type RedisConfig struct {
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
}

// CacheTTL время жизни записи кэша
func (c RedisConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RateLimitConfig ограничение частоты подачи заявок на одного заявителя
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает конфигурацию из TOML файла
// Если рядом есть .env, переменные из него подгружаются до применения переопределений
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.applyDefaults(md)
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults(md toml.MetaData) {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "slot_lottery"
	}

	if c.Lottery.DailyCapacity == 0 {
		c.Lottery.DailyCapacity = domain.DefaultDailyCapacity
	}
	if !md.IsDefined("lottery", "subscriber_quota") {
		c.Lottery.SubscriberQuota = domain.DefaultSubscriberQuota
	}
	if !md.IsDefined("lottery", "cutoff_hour") {
		c.Lottery.CutoffHour = domain.DefaultCutoffHour
	}
	if c.Lottery.Timezone == "" {
		c.Lottery.Timezone = "UTC"
	}
	if len(c.Lottery.Slots) == 0 {
		c.Lottery.Slots = append([]string(nil), domain.DefaultSlotCatalog...)
	}

	if !md.IsDefined("scheduler", "enabled") {
		c.Scheduler.Enabled = true
	}
	if c.Scheduler.IntervalSeconds == 0 {
		c.Scheduler.IntervalSeconds = 60
	}

	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 24 * 60
	}

	if c.Notifications.TimeoutSeconds == 0 {
		c.Notifications.TimeoutSeconds = 5
	}

	if c.Broker.Queue == "" {
		c.Broker.Queue = "lottery.completed"
	}

	if c.Redis.CacheTTLSeconds == 0 {
		c.Redis.CacheTTLSeconds = 30
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 1
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		"DB_PASSWORD":        &c.Database.Password,
		"JWT_SECRET":         &c.Session.JWTSecret,
		"ADMIN_TOKEN":        &c.Admin.Token,
		"WEBHOOK_URL":        &c.Notifications.WebhookURL,
		"TELEGRAM_BOT_TOKEN": &c.Notifications.TelegramBotToken,
		"AMQP_URL":           &c.Broker.URL,
		"REDIS_ADDR":         &c.Redis.Addr,
	}
	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*target = v
		}
	}

	if v, ok := os.LookupEnv("TELEGRAM_CHAT_ID"); ok && v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: TELEGRAM_CHAT_ID: %v", ErrInvalidConfig, err)
		}
		c.Notifications.TelegramChatID = chatID
	}

	return nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}
	if c.Lottery.DailyCapacity <= 0 {
		return fmt.Errorf("%w: lottery.daily_capacity must be positive", ErrInvalidConfig)
	}
	if c.Lottery.SubscriberQuota < 0 || c.Lottery.SubscriberQuota > c.Lottery.DailyCapacity {
		return fmt.Errorf("%w: lottery.subscriber_quota must be within [0, daily_capacity]", ErrInvalidConfig)
	}
	if c.Lottery.CutoffHour < 0 || c.Lottery.CutoffHour > 23 {
		return fmt.Errorf("%w: lottery.cutoff_hour must be within [0, 23]", ErrInvalidConfig)
	}
	if _, err := c.Lottery.Location(); err != nil {
		return fmt.Errorf("%w: lottery.timezone: %v", ErrInvalidConfig, err)
	}
	if _, err := domain.NewSlotCatalog(c.Lottery.Slots); err != nil {
		return fmt.Errorf("%w: lottery.slots: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Lottery.ParseBlockedDates(); err != nil {
		return fmt.Errorf("%w: lottery.blocked_dates: %v", ErrInvalidConfig, err)
	}
	if c.Scheduler.IntervalSeconds < 0 {
		return fmt.Errorf("%w: scheduler.interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.Session.JWTSecret == "" {
		return fmt.Errorf("%w: session.jwt_secret (or JWT_SECRET) is required", ErrInvalidConfig)
	}
	if c.Notifications.TelegramBotToken != "" && c.Notifications.TelegramChatID == 0 {
		return fmt.Errorf("%w: notifications.telegram_chat_id is required with telegram_bot_token", ErrInvalidConfig)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: ratelimit values must not be negative", ErrInvalidConfig)
	}
	return nil
}
