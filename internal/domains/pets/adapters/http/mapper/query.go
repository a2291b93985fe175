package mapper

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/pethub-api/internal/domains/pets/application"
	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

// QueryError reports a query parameter that could not be coerced.
type QueryError struct {
	Parameter string
	Message   string
	page      bool
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Parameter, e.Message)
}

// Unwrap classifies the error for the problem responder.
func (e *QueryError) Unwrap() error {
	if e.page {
		return application.ErrInvalidPage
	}
	return application.ErrInvalidFilter
}

// maxPage bounds page numbers so offsets stay representable.
const maxPage = math.MaxInt32

var (
	petOrderFields   = map[string]bool{pettypes.OrderCreatedAt: true, pettypes.OrderUpdatedAt: true, pettypes.OrderName: true, pettypes.OrderPrice: true, pettypes.OrderAgeMonths: true}
	breedOrderFields = map[string]bool{pettypes.OrderName: true, pettypes.OrderSizeCategory: true, pettypes.OrderCreatedAt: true}
)

type queryReader struct {
	values url.Values
	err    *QueryError
}

func (r *queryReader) get(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(r.values.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

func (r *queryReader) fail(parameter, message string) {
	if r.err == nil {
		r.err = &QueryError{Parameter: parameter, Message: message}
	}
}

func (r *queryReader) boolean(key string) *bool {
	raw := r.get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(key, "Enter a valid boolean.")
		return nil
	}
	return &v
}

func (r *queryReader) number(key string) *float64 {
	raw := r.get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, "Enter a number.")
		return nil
	}
	return &v
}

func (r *queryReader) integer(key string) *int {
	raw := r.get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, "Enter a whole number.")
		return nil
	}
	return &v
}

func (r *queryReader) id(key string) *uuid.UUID {
	raw := r.get(key)
	if raw == "" {
		return nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		r.fail(key, "Enter a valid UUID.")
		return nil
	}
	return &v
}

func choice[T interface {
	~string
	Valid() bool
}](r *queryReader, key string) *T {
	raw := r.get(key)
	if raw == "" {
		return nil
	}
	v := T(raw)
	if !v.Valid() {
		r.fail(key, fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw))
		return nil
	}
	return &v
}

func (r *queryReader) page() int {
	raw := r.get("page")
	if raw == "" {
		return 1
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > maxPage {
		if r.err == nil {
			r.err = &QueryError{Parameter: "page", Message: "Invalid page.", page: true}
		}
		return 1
	}
	return v
}

// SplitTerms splits a search value on whitespace and commas.
func SplitTerms(raw string) []string {
	return strings.FieldsFunc(raw, func(c rune) bool {
		return c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
	})
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseOrdering keeps whitelisted fields in request order and drops the rest.
func parseOrdering(raw string, allowed map[string]bool) []pettypes.OrderField {
	var out []pettypes.OrderField
	for _, part := range splitList(raw) {
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")
		if allowed[field] {
			out = append(out, pettypes.OrderField{Field: field, Desc: desc})
		}
	}
	return out
}

// ParsePetListQuery turns request parameters into a pet list query for the given view.
func ParsePetListQuery(values url.Values, view pettypes.PetView, pageSize int) (pettypes.PetListQuery, error) {
	r := &queryReader{values: values}
	filter := pettypes.PetFilter{
		BreedID:            r.id("breed"),
		Status:             choice[domain.Status](r, "status"),
		Gender:             choice[domain.Gender](r, "gender"),
		Size:               choice[domain.Size](r, "size"),
		Featured:           r.boolean("featured"),
		ChampionsBloodline: r.boolean("champions_bloodline"),
		RabiesVaccinated:   r.boolean("rabies_vaccinated"),
		DHPPVaccinated:     r.boolean("dhpp_vaccinated"),
		Dewormed:           r.boolean("dewormed"),
		KCIRegistered:      r.boolean("kci_registered"),
		Microchipped:       r.boolean("microchipped"),
		FullyVaccinated:    r.boolean("fully_vaccinated"),
		Price:              r.number("price"),
		PriceMin:           r.number("price__gte"),
		PriceMax:           r.number("price__lte"),
		AgeMonths:          r.integer("age_months"),
		AgeMin:             r.integer("age_months__gte"),
		AgeMax:             r.integer("age_months__lte"),
		Location:           r.get("location", "location__icontains"),
		Lifestyle:          splitList(r.get("lifestyle")),
		Characteristics:    splitList(r.get("characteristics")),
		SearchTerms:        SplitTerms(r.get("search")),
	}
	query := pettypes.PetListQuery{
		View:     view,
		Filter:   filter,
		Ordering: parseOrdering(r.get("ordering"), petOrderFields),
		Page:     r.page(),
		PageSize: pageSize,
	}
	if r.err != nil {
		return pettypes.PetListQuery{}, r.err
	}
	return query.Normalize(), nil
}

// ParseBreedListQuery parses breed list parameters.
func ParseBreedListQuery(values url.Values, pageSize int) (pettypes.BreedListQuery, error) {
	r := &queryReader{values: values}
	query := pettypes.BreedListQuery{
		SearchTerms: SplitTerms(r.get("search")),
		Ordering:    parseOrdering(r.get("ordering"), breedOrderFields),
		Page:        r.page(),
		PageSize:    pageSize,
	}
	if r.err != nil {
		return pettypes.BreedListQuery{}, r.err
	}
	return query.Normalize(), nil
}

// ParseParentListQuery parses parent list parameters.
func ParseParentListQuery(values url.Values, pageSize int) (pettypes.ParentListQuery, error) {
	r := &queryReader{values: values}
	query := pettypes.ParentListQuery{
		SearchTerms: SplitTerms(r.get("search")),
		Page:        r.page(),
		PageSize:    pageSize,
	}
	if r.err != nil {
		return pettypes.ParentListQuery{}, r.err
	}
	return query.Normalize(), nil
}
