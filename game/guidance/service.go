package guidance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
	"github.com/stardust-app/server/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	kindGuidance  = "guidance"
	kindHoroscope = "horoscope"
)

// CacheKey is the fast-path key of one (kind, sign, date) payload.
func CacheKey(kind string, sign content.Sign, d seed.Date) string {
	return fmt.Sprintf("%s:%s:%s", kind, sign, d)
}

// Service serves daily guidance and horoscopes. Content is a pure function of
// (sign, date); the cache and row store only avoid regenerating it and keep
// what clients saw stable if the tables change.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a guidance Service. c may be nil.
func NewService(db *gorm.DB, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 36 * time.Hour
	}
	return &Service{db: db, cache: c, ttl: ttl, logger: logger}
}

// Guidance returns the guidance for (sign, date).
func (svc *Service) Guidance(ctx context.Context, sign content.Sign, d seed.Date) (*content.DailyGuidance, error) {
	var g content.DailyGuidance
	err := svc.fetch(ctx, kindGuidance, &model.DailyGuidance{}, sign, d, &g,
		func() interface{} { return content.GenerateDailyGuidance(sign, d) },
		func(payload datatypes.JSON) interface{} {
			return &model.DailyGuidance{Sign: string(sign), Date: d.String(), Payload: payload}
		})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Horoscope returns the horoscope for (sign, date).
func (svc *Service) Horoscope(ctx context.Context, sign content.Sign, d seed.Date) (*content.DailyHoroscope, error) {
	var h content.DailyHoroscope
	err := svc.fetch(ctx, kindHoroscope, &model.DailyHoroscope{}, sign, d, &h,
		func() interface{} { return content.GenerateDailyHoroscope(sign, d) },
		func(payload datatypes.JSON) interface{} {
			return &model.DailyHoroscope{Sign: string(sign), Date: d.String(), Payload: payload}
		})
	if err != nil {
		return nil, err
	}
	h.Sign = sign
	return &h, nil
}

// Prewarm fills guidance and horoscopes of every sign for d. It returns the
// number of payloads served.
func (svc *Service) Prewarm(ctx context.Context, d seed.Date) (int, error) {
	n := 0
	for _, sign := range content.AllSigns {
		if _, err := svc.Guidance(ctx, sign, d); err != nil {
			return n, err
		}
		n++
		if _, err := svc.Horoscope(ctx, sign, d); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// fetch resolves one payload: cache, then row store, then generate and
// insert. Insert races converge on the first row through the unique
// (sign, date) index.
func (svc *Service) fetch(ctx context.Context, kind string, table interface{}, sign content.Sign, d seed.Date,
	out interface{}, generate func() interface{}, row func(datatypes.JSON) interface{}) error {

	key := CacheKey(kind, sign, d)
	if svc.cache != nil {
		raw, err := svc.cache.Get(ctx, key)
		switch {
		case err == nil:
			if json.Unmarshal([]byte(raw), out) == nil {
				return nil
			}
			svc.logger.Warn("corrupt content cache entry", zap.String("key", key))
		case !cache.IsNotFound(err):
			svc.logger.Warn("content cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	db := svc.db.WithContext(ctx)
	payload, err := svc.loadRow(db, table, sign, d)
	if err != nil {
		return err
	}
	if payload == nil {
		b, err := json.Marshal(generate())
		if err != nil {
			return err
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row(datatypes.JSON(b))).Error; err != nil {
			return err
		}
		if payload, err = svc.loadRow(db, table, sign, d); err != nil {
			return err
		}
		if payload == nil {
			payload = b
		}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return err
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, key, string(payload), svc.ttl); err != nil {
			svc.logger.Warn("content cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (svc *Service) loadRow(db *gorm.DB, table interface{}, sign content.Sign, d seed.Date) ([]byte, error) {
	var payloads []string
	err := db.Model(table).
		Where("sign = ? AND date = ?", string(sign), d.String()).
		Limit(1).
		Pluck("payload", &payloads).Error
	if err != nil || len(payloads) == 0 {
		return nil, err
	}
	return []byte(payloads[0]), nil
}
