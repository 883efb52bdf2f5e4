package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/models"
)

var _ infra.Database = (*inmemDB)(nil)

// inmemDB хранит копии запусков, чтобы обработчик статуса не гонялся
// с оркестратором, который продолжает менять свой экземпляр.
type inmemDB struct {
	logger *zap.Logger
	db     map[string]*models.Run
	mu     sync.RWMutex
	ttl    time.Duration
}

func New(log *zap.Logger, ttl time.Duration) infra.Database {
	return &inmemDB{
		logger: log,
		db:     make(map[string]*models.Run),
		ttl:    ttl,
	}
}

func (db *inmemDB) SaveRun(ctx context.Context, run *models.Run) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if run == nil {
		return ErrRunNil
	}

	if run.ID == "" {
		return ErrRunIDEmpty
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.db[run.ID] = run.Clone()
	db.logger.Debug("запуск сохранен",
		zap.String("run_id", run.ID),
		zap.String("state", string(run.State)),
	)

	return nil
}

func (db *inmemDB) GetRun(ctx context.Context, id string) (*models.Run, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrRunIDEmpty
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	run, exists := db.db[id]
	if !exists {
		return nil, ErrRunNotFound
	}

	return run.Clone(), nil
}

// RegisterRun сохраняет новый запуск, если незавершенных запусков меньше limit.
// Подсчет и вставка выполняются под одной блокировкой.
func (db *inmemDB) RegisterRun(ctx context.Context, run *models.Run, limit int) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if run == nil {
		return ErrRunNil
	}

	if run.ID == "" {
		return ErrRunIDEmpty
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.db[run.ID]; exists {
		return ErrRunExists
	}

	if inProcess := db.sweepAndCount(time.Now()); inProcess >= limit {
		return fmt.Errorf("%w: %d/%d", infra.ErrRunLimitReached, inProcess, limit)
	}

	db.db[run.ID] = run.Clone()
	db.logger.Debug("запуск зарегистрирован", zap.String("run_id", run.ID))

	return nil
}

// sweepAndCount вызывается под db.mu. По TTL удаляются только завершенные запуски.
func (db *inmemDB) sweepAndCount(now time.Time) int {
	count := 0
	for id, run := range db.db {
		if !run.State.Terminal() {
			count++
			continue
		}
		if now.Sub(run.UpdatedAt) > db.ttl {
			delete(db.db, id)
			db.logger.Info("запуск удален по TTL", zap.String("run_id", id))
		}
	}
	return count
}
