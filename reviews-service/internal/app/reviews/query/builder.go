package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50

	dateLayout = "2006-01-02"
)

var ErrInvalidFilter = errors.New("invalid filter")

// RawCriteria - параметры фильтра в том виде, в каком они пришли в запросе
type RawCriteria struct {
	Rating     string `form:"rating"`
	Channel    string `form:"channel"`
	ListingID  string `form:"listingId"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	IsApproved string `form:"isApproved"`
	Page       string `form:"page"`
	Limit      string `form:"limit"`
}

// Criteria - разобранный фильтр. nil поле означает отсутствие ограничения.
type Criteria struct {
	MinRating     *float64
	Channel       string
	ListingID     *int64
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	Approved      *bool
	Page          int
	Limit         int
}

// Predicate передается хранилищу как есть; построитель сам запросы не выполняет
type Predicate struct {
	MinRating     *float64
	Channel       entity.Channel
	ListingID     *int64
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	Approved      *bool
}

type OrderBy struct {
	Field string
	Desc  bool
}

var OrderBySubmittedDesc = OrderBy{Field: "submitted_at", Desc: true}

type Query struct {
	Predicate Predicate
	OrderBy   OrderBy
	Skip      int
	Limit     int
}

// ParseCriteria разбирает сырые параметры. Некорректные rating, listingId
// и даты считаются ошибкой клиента, некорректные page и limit молча
// заменяются значениями по умолчанию.
func ParseCriteria(raw RawCriteria) (Criteria, error) {
	criteria := Criteria{
		Channel: strings.TrimSpace(raw.Channel),
		Page:    positiveOr(raw.Page, DefaultPage),
		Limit:   positiveOr(raw.Limit, DefaultLimit),
	}

	if raw.Rating != "" {
		rating, err := strconv.ParseFloat(raw.Rating, 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			return Criteria{}, fmt.Errorf("%w: rating must be a number", ErrInvalidFilter)
		}
		criteria.MinRating = &rating
	}

	if raw.ListingID != "" {
		id, err := strconv.ParseInt(raw.ListingID, 10, 64)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: listingId must be an integer", ErrInvalidFilter)
		}
		criteria.ListingID = &id
	}

	if raw.StartDate != "" {
		from, err := parseDate(raw.StartDate)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: startDate: %v", ErrInvalidFilter, err)
		}
		criteria.SubmittedFrom = &from
	}

	if raw.EndDate != "" {
		to, err := parseDate(raw.EndDate)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: endDate: %v", ErrInvalidFilter, err)
		}
		criteria.SubmittedTo = &to
	}

	if criteria.SubmittedFrom != nil && criteria.SubmittedTo != nil && criteria.SubmittedTo.Before(*criteria.SubmittedFrom) {
		return Criteria{}, fmt.Errorf("%w: endDate is before startDate", ErrInvalidFilter)
	}

	// Любое значение, кроме "true", означает фильтр по неодобренным
	if raw.IsApproved != "" {
		approved := raw.IsApproved == "true"
		criteria.Approved = &approved
	}

	return criteria, nil
}

// Build переводит критерии в предикат хранилища и пару skip/limit.
// Неположительные page и limit заменяются значениями по умолчанию.
func Build(criteria Criteria) Query {
	page := criteria.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := criteria.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	// skip не должен переполнять int: такая страница тоже считается некорректной
	if page-1 > math.MaxInt/limit {
		page = DefaultPage
	}

	return Query{
		Predicate: Predicate{
			MinRating:     criteria.MinRating,
			Channel:       entity.Channel(criteria.Channel),
			ListingID:     criteria.ListingID,
			SubmittedFrom: criteria.SubmittedFrom,
			SubmittedTo:   criteria.SubmittedTo,
			Approved:      criteria.Approved,
		},
		OrderBy: OrderBySubmittedDesc,
		Skip:    (page - 1) * limit,
		Limit:   limit,
	}
}

// Page восстанавливает номер страницы из skip/limit
func (q Query) Page() int {
	if q.Limit < 1 {
		return DefaultPage
	}
	return q.Skip/q.Limit + 1
}

// TotalPages - число страниц для total записей, округленное вверх
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// ForListing - предикат всех отзывов объекта
func ForListing(listingID int64) Predicate {
	return Predicate{ListingID: &listingID}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC3339, got %q", value)
	}
	return t, nil
}

func positiveOr(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
