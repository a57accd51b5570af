// Package breed содержит доменную модель каталога пород Purrboard Bot.
package breed

import (
	"strconv"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTRIBUTE QUERY (закрытый набор стратегий поиска)
//
// Поиск по атрибуту состоит из двух стадий:
//  1. store-side запрос (формируется хранилищем по Kind и Feature);
//  2. пост-фильтрация строк (Filter), нужная только для диапазонных полей,
//     которые хранятся как свободный текст "min - max".
// ══════════════════════════════════════════════════════════════════════════════

// QueryKind определяет вариант стратегии поиска по атрибуту.
type QueryKind int

const (
	// QueryExact - точное сравнение по именованной колонке.
	// Фильтрация целиком на стороне хранилища, пост-фильтра нет.
	QueryExact QueryKind = iota

	// QuerySubstring - поиск подстроки в текстовом поле-списке тегов
	// (темперамент). Сравнение без учёта регистра, пост-фильтра нет.
	QuerySubstring

	// QueryRange - поиск по числовому диапазону, хранящемуся как текст
	// "min - max". Хранилище возвращает все строки (упорядоченные по
	// количеству лайков), диапазон разбирается и проверяется пост-фильтром.
	QueryRange
)

// String возвращает имя варианта для логирования.
func (k QueryKind) String() string {
	switch k {
	case QuerySubstring:
		return "substring"
	case QueryRange:
		return "range"
	default:
		return "exact"
	}
}

// Имена поддерживаемых атрибутов поиска.
const (
	FeatureOrigin         = "origin"
	FeatureTemperament    = "temperament"
	FeatureLifeSpan       = "life_span"
	FeatureWeightMetric   = "weight_metric"
	FeatureWeightImperial = "weight_imperial"
)

// RangeTolerance - фиксированный допуск расширения границ диапазона (5%).
// Значение принимается, если target >= min*0.95 и target <= max*1.05.
// Это наблюдаемое поведение, а не настраиваемый параметр.
const RangeTolerance = 0.05

// KindForFeature выбирает вариант стратегии по имени атрибута.
// Тотальная функция: неизвестные имена молча откатываются к QueryExact.
// Точное сравнение по несуществующей колонке даёт пустой результат,
// а не ошибку - громкий отказ был бы изменением наблюдаемого поведения.
func KindForFeature(feature string) QueryKind {
	switch feature {
	case FeatureTemperament:
		return QuerySubstring
	case FeatureLifeSpan, FeatureWeightMetric, FeatureWeightImperial:
		return QueryRange
	default:
		return QueryExact
	}
}

// AttributeQuery представляет запрос поиска по одному атрибуту.
type AttributeQuery struct {
	// Kind - выбранный вариант стратегии.
	Kind QueryKind

	// Feature - имя атрибута.
	Feature string

	// Value - искомое значение (строка от вызывающего).
	Value string
}

// NewAttributeQuery создаёт запрос, выбирая стратегию по имени атрибута.
func NewAttributeQuery(feature, value string) AttributeQuery {
	return AttributeQuery{
		Kind:    KindForFeature(feature),
		Feature: feature,
		Value:   value,
	}
}

// Filter применяет пост-фильтрацию к строкам из хранилища.
// Для QueryExact и QuerySubstring это тождественный проход: фильтрация
// уже выполнена на стороне хранилища. Для QueryRange строки с
// нечитаемым диапазоном молча отбрасываются (устойчивость к шумным
// данным провайдера важнее строгости), относительный порядок
// оставшихся строк сохраняется.
func (q AttributeQuery) Filter(rows []*Breed) []*Breed {
	if q.Kind != QueryRange {
		return rows
	}

	target, err := strconv.ParseFloat(strings.TrimSpace(q.Value), 64)
	if err != nil {
		// Нечисловая цель - пустой результат, не ошибка.
		return []*Breed{}
	}

	filtered := make([]*Breed, 0, len(rows))
	for _, row := range rows {
		min, max, ok := ParseRange(q.rangeField(row))
		if !ok {
			continue
		}
		if target >= min*(1-RangeTolerance) && target <= max*(1+RangeTolerance) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// rangeField возвращает значение диапазонного поля породы для атрибута.
func (q AttributeQuery) rangeField(b *Breed) string {
	switch q.Feature {
	case FeatureLifeSpan:
		return b.LifeSpan
	case FeatureWeightMetric:
		return b.WeightMetric
	case FeatureWeightImperial:
		return b.WeightImperial
	default:
		return ""
	}
}

// ParseRange разбирает текстовый диапазон "min - max" в две числовые границы.
// Допускаются пробелы вокруг дефиса. Возвращает ok == false, если строка
// пуста, не содержит ровно двух частей или части не являются числами.
func ParseRange(s string) (min, max float64, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	min, errMin := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	max, errMax := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errMin != nil || errMax != nil {
		return 0, 0, false
	}

	return min, max, true
}
