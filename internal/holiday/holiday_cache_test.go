package holiday_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-timetrack/internal/holiday"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestCachedProvider_Holidays(t *testing.T) {
	ctx := context.Background()
	key := "holidays:2027:BY"
	upstreamHolidays := []holiday.Holiday{
		{Date: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), Name: "Neujahr"},
		{Date: time.Date(2027, 1, 6, 0, 0, 0, 0, time.UTC), Name: "Heilige Drei Koenige"},
	}
	payload, err := json.Marshal(upstreamHolidays)
	assert.NoError(t, err)

	t.Run("success cache miss fetches upstream and stores", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		upstream := holiday.ProviderFunc(func(ctx context.Context, year int, region string) ([]holiday.Holiday, error) {
			calls++
			assert.Equal(t, 2027, year)
			assert.Equal(t, "BY", region)
			return upstreamHolidays, nil
		})

		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, payload, time.Hour).SetVal("OK")

		p := holiday.NewCachedProvider(upstream, rdb, time.Hour)
		got, err := p.Holidays(ctx, 2027, "BY")

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success cache hit skips upstream", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		upstream := holiday.ProviderFunc(func(ctx context.Context, year int, region string) ([]holiday.Holiday, error) {
			t.Fatal("upstream should not be called on cache hit")
			return nil, nil
		})

		mock.ExpectGet(key).SetVal(string(payload))

		p := holiday.NewCachedProvider(upstream, rdb, time.Hour)
		got, err := p.Holidays(ctx, 2027, "BY")

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "Neujahr", got[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative upstream error propagates", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		upstream := holiday.ProviderFunc(func(ctx context.Context, year int, region string) ([]holiday.Holiday, error) {
			return nil, errors.New("calendar unavailable")
		})

		mock.ExpectGet(key).RedisNil()

		p := holiday.NewCachedProvider(upstream, rdb, time.Hour)
		_, err := p.Holidays(ctx, 2027, "BY")

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDateSet(t *testing.T) {
	set := holiday.DateSet([]holiday.Holiday{
		{Date: time.Date(2027, 5, 1, 0, 0, 0, 0, time.UTC), Name: "Tag der Arbeit"},
	}, []holiday.Holiday{
		{Date: time.Date(2027, 10, 3, 0, 0, 0, 0, time.UTC), Name: "Tag der Deutschen Einheit"},
	})

	assert.Len(t, set, 2)
	_, ok := set["2027-05-01"]
	assert.True(t, ok)
	_, ok = set["2027-10-03"]
	assert.True(t, ok)
}
