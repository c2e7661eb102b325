package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"pdf-study-agent/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const sessionKey = "studyagent:session:state:01HGZ8VNRYXS8QKNJV5GRWPWDQ"

var errRedisDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func TestRedisCacheAdapter_Get(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock redismock.ClientMock)
		want    string
		wantErr error
	}{
		{
			name:  "hit",
			setup: func(mock redismock.ClientMock) { mock.ExpectGet(sessionKey).SetVal(`{"status":"idle"}`) },
			want:  `{"status":"idle"}`,
		},
		{
			name:    "miss",
			setup:   func(mock redismock.ClientMock) { mock.ExpectGet(sessionKey).SetErr(redis.Nil) },
			wantErr: domain.ErrCacheMiss,
		},
		{
			name:    "connection error",
			setup:   func(mock redismock.ClientMock) { mock.ExpectGet(sessionKey).SetErr(errRedisDown) },
			wantErr: errRedisDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			tt.setup(mock)

			val, err := NewRedisCacheAdapter(db).Get(context.Background(), sessionKey)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, val)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, val)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisCacheAdapter_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	ttl := 6 * time.Hour

	t.Run("set with ttl", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectSet(sessionKey, "payload", ttl).SetVal("OK")
		assert.NoError(t, NewRedisCacheAdapter(db).Set(ctx, sessionKey, "payload", ttl))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set error is wrapped", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectSet(sessionKey, "payload", ttl).SetErr(errRedisDown)
		err := NewRedisCacheAdapter(db).Set(ctx, sessionKey, "payload", ttl)
		assert.ErrorIs(t, err, errRedisDown)
		assert.Contains(t, err.Error(), sessionKey)
	})

	t.Run("delete missing key", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectDel(sessionKey).SetVal(0)
		assert.NoError(t, NewRedisCacheAdapter(db).Delete(ctx, sessionKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectDel(sessionKey).SetErr(errRedisDown)
		assert.ErrorIs(t, NewRedisCacheAdapter(db).Delete(ctx, sessionKey), errRedisDown)
	})
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(context.Background()))

	mock.ExpectPing().SetErr(errRedisDown)
	assert.ErrorIs(t, adapter.Ping(context.Background()), errRedisDown)
	assert.NoError(t, mock.ExpectationsWereMet())
}
