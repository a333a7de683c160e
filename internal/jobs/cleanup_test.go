package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/policyhub/policy-server-go/internal/model"
	"github.com/policyhub/policy-server-go/internal/repository"
)

type mockSessionRepo struct {
	deleteExpiredCount int64
	deleteExpiredCalls atomic.Int32
}

func (m *mockSessionRepo) FindStandardByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) ConsumeTemporary(ctx context.Context, tokenHash string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockSessionRepo) TouchLastAccessed(ctx context.Context, id string) error {
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	m.deleteExpiredCalls.Add(1)
	return m.deleteExpiredCount, nil
}

func (m *mockSessionRepo) WithTx(tx *sqlx.Tx) repository.SessionRepository {
	return m
}

func TestCleanupJob(t *testing.T) {
	t.Run("creates job with correct interval", func(t *testing.T) {
		job := NewCleanupJob(nil, 5*time.Minute)

		assert.NotNil(t, job)
		assert.Equal(t, 5*time.Minute, job.interval)
	})

	t.Run("runs cleanup on start", func(t *testing.T) {
		sessionRepo := &mockSessionRepo{deleteExpiredCount: 3}

		job := NewCleanupJob(sessionRepo, 1*time.Hour)

		job.Start()
		time.Sleep(10 * time.Millisecond)
		job.Stop()

		assert.GreaterOrEqual(t, sessionRepo.deleteExpiredCalls.Load(), int32(1))
	})

	t.Run("starts and stops without panic", func(t *testing.T) {
		sessionRepo := &mockSessionRepo{}

		job := NewCleanupJob(sessionRepo, 100*time.Millisecond)

		job.Start()
		time.Sleep(50 * time.Millisecond)
		job.Stop()
	})
}
