package watch

import "math"

// Policy параметры троттлинга записи прогресса
type Policy struct {
	// MinDelta минимальный сдвиг позиции (сек), после которого прогресс пишется
	MinDelta float64
	// EndWindow окно в конце (сек), внутри которого пишется любая позиция
	EndWindow float64
}

// DefaultPolicy 5 секунд сдвига или последние 5 секунд
var DefaultPolicy = Policy{MinDelta: 5, EndWindow: 5}

// ShouldPersist решает, нужно ли писать текущую позицию.
// total <= 0 означает неизвестную длительность, тогда окно конца не действует.
func (p Policy) ShouldPersist(lastSaved, current, total float64) bool {
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return false
	}
	if math.Abs(current-lastSaved) > p.MinDelta {
		return true
	}
	return total > 0 && current >= total-p.EndWindow
}

// ShouldPersist с политикой по умолчанию
func ShouldPersist(lastSaved, current, total float64) bool {
	return DefaultPolicy.ShouldPersist(lastSaved, current, total)
}
