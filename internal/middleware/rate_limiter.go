package middleware

import (
	"math"
	"sync"
	"time"
)

type bucketKey struct {
	route  string
	client string
}

// tokenBucket пополняется непрерывно: capacity токенов за окно
type tokenBucket struct {
	tokens  float64
	updated time.Time
}

// RateLimiter ограничивает частоту запросов клиента отдельно для каждого маршрута.
// Маршруты без лимита (или с лимитом 0) не ограничиваются.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limits  map[string]int
	buckets map[bucketKey]*tokenBucket
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter создаёт лимитер с лимитами limits (запросов за window на клиента)
// и запускает фоновое удаление простаивающих корзин
func NewRateLimiter(limits map[string]int, window time.Duration) *RateLimiter {
	l := &RateLimiter{
		window:  window,
		limits:  make(map[string]int, len(limits)),
		buckets: make(map[bucketKey]*tokenBucket),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for route, limit := range limits {
		if limit > 0 {
			l.limits[route] = limit
		}
	}
	go l.pruneLoop()
	return l
}

// Limited сообщает, ограничен ли маршрут
func (l *RateLimiter) Limited(route string) bool {
	_, ok := l.limits[route]
	return ok
}

// Allow списывает токен клиента на маршруте. Если токенов нет, возвращает
// false и время до появления следующего.
func (l *RateLimiter) Allow(route, client string) (bool, time.Duration) {
	capacity, ok := l.limits[route]
	if !ok {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := bucketKey{route: route, client: client}
	b, exists := l.buckets[key]
	if !exists {
		b = &tokenBucket{tokens: float64(capacity), updated: now}
		l.buckets[key] = b
	} else {
		b.tokens = math.Min(float64(capacity), b.tokens+l.refill(capacity, now.Sub(b.updated)))
		b.updated = now
	}

	if b.tokens < 1 {
		perToken := l.window / time.Duration(capacity)
		return false, time.Duration((1 - b.tokens) * float64(perToken))
	}
	b.tokens--
	return true, 0
}

func (l *RateLimiter) refill(capacity int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(capacity) * float64(elapsed) / float64(l.window)
}

// Stop останавливает фоновую очистку
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *RateLimiter) pruneLoop() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.prune()
		case <-l.done:
			return
		}
	}
}

// prune удаляет корзины, простоявшие целое окно: они уже полны,
// и новая корзина для клиента ничем от них не отличается
func (l *RateLimiter) prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, b := range l.buckets {
		if now.Sub(b.updated) >= l.window {
			delete(l.buckets, key)
		}
	}
}
