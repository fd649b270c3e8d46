package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
[database]
host = "db"
dbname = "lottery"

[session]
jwt_secret = "secret"
`

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, domain.DefaultLimits(), cfg.Lottery.Limits())
	assert.Equal(t, domain.DefaultCutoffHour, cfg.Lottery.CutoffHour)
	assert.Equal(t, domain.DefaultSlotCatalog, cfg.Lottery.Slots)
	assert.Equal(t, "UTC", cfg.Lottery.Timezone)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, time.Minute, cfg.Scheduler.Interval())
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
	assert.Equal(t, "lottery.completed", cfg.Broker.Queue)
	assert.Equal(t, "host=db port=5432 user= password= dbname=lottery sslmode=disable", cfg.Database.DSN())
}

func TestLoad_ExplicitZeroValuesKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[lottery]
subscriber_quota = 0
cutoff_hour = 0

[scheduler]
enabled = false
`))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Lottery.SubscriberQuota)
	assert.Equal(t, 0, cfg.Lottery.CutoffHour)
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot")
	t.Setenv("TELEGRAM_CHAT_ID", "-100500")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Session.JWTSecret)
	assert.Equal(t, "pw", cfg.Database.Password)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, int64(-100500), cfg.Notifications.TelegramChatID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing database", "[session]\njwt_secret = \"s\"\n"},
		{"missing secret", "[database]\nhost = \"db\"\ndbname = \"x\"\n"},
		{"quota above capacity", minimalConfig + "[lottery]\ndaily_capacity = 1\nsubscriber_quota = 2\n"},
		{"bad cutoff", minimalConfig + "[lottery]\ncutoff_hour = 24\n"},
		{"bad timezone", minimalConfig + "[lottery]\ntimezone = \"Mars/Olympus\"\n"},
		{"bad slot", minimalConfig + "[lottery]\nslots = [\"morning\"]\n"},
		{"bad blocked date", minimalConfig + "[lottery]\nblocked_dates = [\"31.12.2026\"]\n"},
		{"telegram without chat", minimalConfig + "[notifications]\ntelegram_bot_token = \"t\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
