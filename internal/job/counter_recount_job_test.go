package job

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/pkg/consts"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubCounter struct {
	dirtyRuns int
	fullBatch int
}

func (s *stubCounter) RecountPost(context.Context, uint64) (*dto.RecountDTO, error) {
	return &dto.RecountDTO{}, nil
}

func (s *stubCounter) RecountDirty(context.Context) (int, error) {
	s.dirtyRuns++
	return 3, nil
}

func (s *stubCounter) RecountAll(_ context.Context, batch int) (int, error) {
	s.fullBatch = batch
	return 10, nil
}

type stubLocker struct {
	held     map[string]string
	lockErr  error
	unlocked []string
}

func (l *stubLocker) Lock(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	if l.lockErr != nil {
		return false, l.lockErr
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *stubLocker) Unlock(_ context.Context, key, value string) {
	if l.held[key] == value {
		delete(l.held, key)
		l.unlocked = append(l.unlocked, key)
	}
}

func TestDirtyRecountJob_RunsAndReleasesLock(t *testing.T) {
	counter := &stubCounter{}
	locker := &stubLocker{held: map[string]string{}}

	NewDirtyRecountJob(counter, locker).Run()

	assert.Equal(t, 1, counter.dirtyRuns)
	assert.Empty(t, locker.held)
	assert.Equal(t, []string{consts.RecountLock}, locker.unlocked)
}

func TestDirtyRecountJob_SkipsWhenLockHeld(t *testing.T) {
	counter := &stubCounter{}
	locker := &stubLocker{held: map[string]string{consts.RecountLock: "other-instance"}}

	NewDirtyRecountJob(counter, locker).Run()
	assert.Zero(t, counter.dirtyRuns)

	locker = &stubLocker{held: map[string]string{}, lockErr: errors.New("redis down")}
	NewDirtyRecountJob(counter, locker).Run()
	assert.Zero(t, counter.dirtyRuns)
}

func TestFullRecountJob(t *testing.T) {
	counter := &stubCounter{}

	// 未配置锁时直接执行
	NewFullRecountJob(counter, nil, 200).Run()
	assert.Equal(t, 200, counter.fullBatch)
}
