// ratelimit реализует скользящее окно с фиксированным лимитом для
// троттлинга попыток аутентификации.
//
// Состояние живет в памяти процесса и сбрасывается при рестарте;
// это не token bucket: в пределах окна допускается всплеск до limit
// запросов, а само окно скользит непрерывно, без фиксированных границ.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter — потокобезопасный лимитер запросов по идентификатору.
// Экземпляр передается через конструктор (DI), а не через глобальное
// состояние; часы инжектируются для детерминированных тестов.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	requests map[string][]time.Time
}

// New создает лимитер: не более limit запросов на идентификатор
// за скользящее окно window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		requests: make(map[string][]time.Time),
	}
}

// Allow проверяет и учитывает запрос для идентификатора.
//
// Сначала вытесняются отметки старше окна; если оставшихся уже limit —
// запрос отклоняется и НЕ учитывается; иначе текущая отметка добавляется.
// Проверка и добавление выполняются под одной блокировкой: два
// конкурентных вызова на limit-1 накопленных запросах не могут пройти оба.
func (l *Limiter) Allow(identifier string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.requests[identifier][:0]
	for _, ts := range l.requests[identifier] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.requests[identifier] = kept
		return false
	}

	l.requests[identifier] = append(kept, now)
	return true
}
