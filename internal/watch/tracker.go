package watch

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/models"
)

// ErrTrackerClosed возвращается после Close
var ErrTrackerClosed = errors.New("watch tracker is closed")

// Checkpointer пишет прогресс с учетом троттлинга
type Checkpointer interface {
	Checkpoint(ctx context.Context, userID, titleID string, lastSaved, current float64, kind models.Kind, total int64) (bool, int64, error)
}

// notSaved позиция "еще ничего не записано": первый тик всегда проходит троттлинг
var notSaved = math.Inf(-1)

type sessionKey struct {
	userID  string
	titleID string
}

type trackedSession struct {
	kind      models.Kind
	total     int64
	lastSaved float64
	pending   float64
	timer     *time.Timer
	// gen меняется при каждой перепостановке или остановке таймера;
	// колбэк с чужим поколением ничего не пишет
	gen uint64
}

// Tracker собирает тики плеера и пишет позицию через delay после последнего тика
// на пару (пользователь, тайтл). После записи без новых тиков сессия освобождается.
type Tracker struct {
	saver        Checkpointer
	delay        time.Duration
	writeTimeout time.Duration
	log          *slog.Logger

	mu       sync.Mutex
	sessions map[sessionKey]*trackedSession
	closed   bool
	wg       sync.WaitGroup
}

// NewTracker создает трекер с окном debounce delay
func NewTracker(saver Checkpointer, delay time.Duration, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		saver:        saver,
		delay:        delay,
		writeTimeout: 5 * time.Second,
		log:          log,
		sessions:     make(map[sessionKey]*trackedSession),
	}
}

// Report запоминает позицию и переносит запись на delay от этого тика.
// Возвращает true, если до вызова запись не была запланирована.
func (t *Tracker) Report(userID, titleID string, offset float64, kind models.Kind, total int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false, ErrTrackerClosed
	}

	key := sessionKey{userID: userID, titleID: titleID}
	s, ok := t.sessions[key]
	if !ok {
		s = &trackedSession{lastSaved: notSaved}
		t.sessions[key] = s
	}
	s.pending = offset
	if kind != "" {
		s.kind = kind
	}
	if total > 0 {
		s.total = total
	}

	wasPending := s.timer != nil
	t.stopLocked(s)

	gen := s.gen
	t.wg.Add(1)
	s.timer = time.AfterFunc(t.delay, func() {
		defer t.wg.Done()
		t.fire(key, s, gen)
	})
	return !wasPending, nil
}

// fire выполняется по таймеру
func (t *Tracker) fire(key sessionKey, s *trackedSession, gen uint64) {
	t.mu.Lock()
	if t.sessions[key] != s || s.gen != gen {
		// таймер перепоставлен, отменен или позиция уже сброшена в Close
		t.mu.Unlock()
		return
	}
	s.timer = nil
	lastSaved, offset, kind, total := s.lastSaved, s.pending, s.kind, s.total
	t.mu.Unlock()

	t.write(key, s, lastSaved, offset, kind, total)
}

func (t *Tracker) write(key sessionKey, s *trackedSession, lastSaved, offset float64, kind models.Kind, total int64) {
	ctx, cancel := context.WithTimeout(context.Background(), t.writeTimeout)
	defer cancel()

	persisted, _, err := t.saver.Checkpoint(ctx, key.userID, key.titleID, lastSaved, offset, kind, total)
	if err != nil {
		t.log.Warn("Debounced progress write failed", "user_id", key.userID, "film_id", key.titleID, "error", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil && persisted {
		s.lastSaved = offset
	}
	// Пока шла запись мог прийти новый тик; тогда сессия нужна дальше
	if t.sessions[key] == s && s.timer == nil {
		delete(t.sessions, key)
	}
}

// Finish фиксирует окончание просмотра: позиция равна длительности, запись сразу
func (t *Tracker) Finish(ctx context.Context, userID, titleID string, kind models.Kind, total int64) (bool, error) {
	key := sessionKey{userID: userID, titleID: titleID}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return false, ErrTrackerClosed
	}
	lastSaved := notSaved
	if s, ok := t.sessions[key]; ok {
		t.stopLocked(s)
		lastSaved = s.lastSaved
		if kind == "" {
			kind = s.kind
		}
		if total <= 0 {
			total = s.total
		}
		delete(t.sessions, key)
	}
	t.mu.Unlock()

	if total <= 0 {
		return false, app_errors.InvalidArgument("total_duration is required to finish playback")
	}
	persisted, _, err := t.saver.Checkpoint(ctx, userID, titleID, lastSaved, float64(total), kind, total)
	return persisted, err
}

// Cancel снимает отложенную запись, как при закрытии плеера без сохранения
func (t *Tracker) Cancel(userID, titleID string) bool {
	key := sessionKey{userID: userID, titleID: titleID}

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[key]
	if !ok {
		return false
	}
	t.stopLocked(s)
	delete(t.sessions, key)
	return true
}

// Pending число сессий с запланированной записью
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, s := range t.sessions {
		if s.timer != nil {
			n++
		}
	}
	return n
}

// Close сбрасывает все отложенные записи и закрывает трекер
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true

	type flush struct {
		key       sessionKey
		s         *trackedSession
		lastSaved float64
		offset    float64
		kind      models.Kind
		total     int64
	}
	var flushes []flush
	for key, s := range t.sessions {
		if s.timer == nil {
			continue
		}
		// Колбэк мог уже сработать и ждать mu: после stopLocked он увидит
		// другое поколение и не напишет, поэтому позицию сбрасываем здесь.
		t.stopLocked(s)
		flushes = append(flushes, flush{key: key, s: s, lastSaved: s.lastSaved, offset: s.pending, kind: s.kind, total: s.total})
	}
	t.mu.Unlock()

	for _, f := range flushes {
		t.write(f.key, f.s, f.lastSaved, f.offset, f.kind, f.total)
	}
	t.wg.Wait()
}

// stopLocked останавливает таймер и меняет поколение; true если колбэк так и не запустится
func (t *Tracker) stopLocked(s *trackedSession) bool {
	if s.timer == nil {
		return false
	}
	s.gen++
	stopped := s.timer.Stop()
	s.timer = nil
	if stopped {
		t.wg.Done()
	}
	return stopped
}
