package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	CategoryCleanliness       = "cleanliness"
	CategoryCommunication     = "communication"
	CategoryRespectHouseRules = "respect_house_rules"
	CategoryValue             = "value"
	CategoryLocation          = "location"
)

// KnownCategories - категории с фиксированной схемой, в каноническом порядке
var KnownCategories = []string{
	CategoryCleanliness,
	CategoryCommunication,
	CategoryRespectHouseRules,
	CategoryValue,
	CategoryLocation,
}

// CategoryRatings - оценки отзыва по категориям (0-10).
// Известные категории лежат в отдельных полях, всё остальное (например,
// "overall" из Google) попадает в Other. nil поле означает, что категории
// в отзыве нет, и она не участвует в средних.
type CategoryRatings struct {
	Cleanliness       *float64
	Communication     *float64
	RespectHouseRules *float64
	ValueRating       *float64
	Location          *float64
	Other             map[string]float64
}

func (c *CategoryRatings) slot(key string) **float64 {
	switch key {
	case CategoryCleanliness:
		return &c.Cleanliness
	case CategoryCommunication:
		return &c.Communication
	case CategoryRespectHouseRules:
		return &c.RespectHouseRules
	case CategoryValue:
		return &c.ValueRating
	case CategoryLocation:
		return &c.Location
	}
	return nil
}

// Get возвращает оценку категории и признак ее наличия
func (c CategoryRatings) Get(key string) (float64, bool) {
	if s := c.slot(key); s != nil {
		if *s == nil {
			return 0, false
		}
		return **s, true
	}
	v, ok := c.Other[key]
	return v, ok
}

// Set записывает оценку; неизвестные ключи уходят в Other
func (c *CategoryRatings) Set(key string, value float64) {
	if s := c.slot(key); s != nil {
		v := value
		*s = &v
		return
	}
	if c.Other == nil {
		c.Other = make(map[string]float64)
	}
	c.Other[key] = value
}

// Range обходит заданные категории: сначала известные в каноническом
// порядке, затем остальные по алфавиту
func (c CategoryRatings) Range(fn func(key string, value float64)) {
	for _, key := range KnownCategories {
		if v, ok := c.Get(key); ok {
			fn(key, v)
		}
	}

	other := make([]string, 0, len(c.Other))
	for key := range c.Other {
		other = append(other, key)
	}
	sort.Strings(other)
	for _, key := range other {
		fn(key, c.Other[key])
	}
}

func (c CategoryRatings) Len() int {
	n := 0
	c.Range(func(string, float64) { n++ })
	return n
}

func (c CategoryRatings) IsEmpty() bool {
	return c.Len() == 0
}

// ToMap возвращает плоское представление; пустой результат - не nil
func (c CategoryRatings) ToMap() map[string]float64 {
	m := make(map[string]float64)
	c.Range(func(key string, value float64) {
		m[key] = value
	})
	return m
}

func CategoriesFromMap(m map[string]float64) CategoryRatings {
	var c CategoryRatings
	for key, value := range m {
		c.Set(key, value)
	}
	return c
}

// DecodeCategories разбирает сохраненный текст категорий.
// Любая ошибка разбора дает пустой набор, ошибка наружу не возвращается.
func DecodeCategories(raw string) CategoryRatings {
	var m map[string]float64
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return CategoryRatings{}
	}
	return CategoriesFromMap(m)
}

// EncodeCategories сериализует категории в плоский JSON объект
func EncodeCategories(c CategoryRatings) string {
	data, err := json.Marshal(c.ToMap())
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (c CategoryRatings) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

func (c *CategoryRatings) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*c = CategoriesFromMap(m)
	return nil
}

// Value и Scan хранят категории в текстовой колонке через кодек
func (c CategoryRatings) Value() (driver.Value, error) {
	return EncodeCategories(c), nil
}

func (c *CategoryRatings) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = CategoryRatings{}
	case string:
		*c = DecodeCategories(v)
	case []byte:
		*c = DecodeCategories(string(v))
	default:
		return fmt.Errorf("unsupported categories type %T", value)
	}
	return nil
}

func (CategoryRatings) GormDataType() string {
	return "text"
}

// CategoryLabel превращает ключ категории в подпись: respect_house_rules -> Respect House Rules
func CategoryLabel(key string) string {
	out := make([]byte, 0, len(key))
	upper := true
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch == '_' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper && ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		upper = false
		out = append(out, ch)
	}
	return string(out)
}
