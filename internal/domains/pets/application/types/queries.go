package types

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

// DefaultPageSize matches the catalog page size when none is configured.
const DefaultPageSize = 12

// PetIdentifier addresses a single pet.
type PetIdentifier struct {
	ID uuid.UUID
}

// MediaIdentifier addresses a photo or video of a pet.
type MediaIdentifier struct {
	PetID   uuid.UUID
	MediaID uuid.UUID
}

// PetFilter holds the typed predicates recognised by the pet list.
type PetFilter struct {
	BreedID            *uuid.UUID
	Status             *domain.Status
	Gender             *domain.Gender
	Size               *domain.Size
	Featured           *bool
	ChampionsBloodline *bool
	RabiesVaccinated   *bool
	DHPPVaccinated     *bool
	Dewormed           *bool
	KCIRegistered      *bool
	Microchipped       *bool
	FullyVaccinated    *bool

	Price    *float64
	PriceMin *float64
	PriceMax *float64

	AgeMonths *int
	AgeMin    *int
	AgeMax    *int

	// Location matches as a case-insensitive substring.
	Location string
	// Lifestyle and Characteristics match pets carrying any of the values.
	Lifestyle       []string
	Characteristics []string
	// SearchTerms must each match at least one searchable column.
	SearchTerms []string
}

// Sortable pet columns.
const (
	OrderCreatedAt = "created_at"
	OrderUpdatedAt = "updated_at"
	OrderName      = "name"
	OrderPrice     = "price"
	OrderAgeMonths = "age_months"
	OrderFeatured  = "featured"

	OrderSizeCategory = "size_category"
)

// OrderField is one ordering criterion.
type OrderField struct {
	Field string
	Desc  bool
}

func (o OrderField) String() string {
	if o.Desc {
		return "-" + o.Field
	}
	return o.Field
}

// DefaultPetOrdering lists featured pets first, newest first.
func DefaultPetOrdering() []OrderField {
	return []OrderField{{Field: OrderFeatured, Desc: true}, {Field: OrderCreatedAt, Desc: true}}
}

// PetView selects one of the canned list views.
type PetView string

const (
	ViewAll       PetView = "all"
	ViewFeatured  PetView = "featured"
	ViewAvailable PetView = "available"
	ViewChampions PetView = "champions"
)

// PetListQuery is the parsed form of a pet list request.
type PetListQuery struct {
	View     PetView
	Filter   PetFilter
	Ordering []OrderField
	Page     int
	PageSize int
}

// Normalize fills defaults and applies the fixed predicates of the selected view.
func (q PetListQuery) Normalize() PetListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if len(q.Ordering) == 0 {
		q.Ordering = DefaultPetOrdering()
	}
	if q.View == "" {
		q.View = ViewAll
	}
	available := domain.StatusAvailable
	yes := true
	switch q.View {
	case ViewFeatured:
		q.Filter.Featured = &yes
		q.Filter.Status = &available
	case ViewAvailable:
		q.Filter.Status = &available
	case ViewChampions:
		q.Filter.ChampionsBloodline = &yes
		q.Filter.Status = &available
	}
	return q
}

// Offset is the number of rows skipped before this page.
func (q PetListQuery) Offset() int {
	return pageOffset(q.Page, q.PageSize)
}

// Fingerprint renders the query canonically so equal queries share cache entries.
func (q PetListQuery) Fingerprint() string {
	f := q.Filter
	parts := []string{
		"view=" + string(q.View),
		"page=" + fmt.Sprint(q.Page),
		"size=" + fmt.Sprint(q.PageSize),
	}
	add := func(key string, value any) {
		parts = append(parts, key+"="+fmt.Sprint(value))
	}
	if f.BreedID != nil {
		add("breed", *f.BreedID)
	}
	if f.Status != nil {
		add("status", *f.Status)
	}
	if f.Gender != nil {
		add("gender", *f.Gender)
	}
	if f.Size != nil {
		add("sz", *f.Size)
	}
	for key, value := range map[string]*bool{
		"featured":            f.Featured,
		"champions_bloodline": f.ChampionsBloodline,
		"rabies_vaccinated":   f.RabiesVaccinated,
		"dhpp_vaccinated":     f.DHPPVaccinated,
		"dewormed":            f.Dewormed,
		"kci_registered":      f.KCIRegistered,
		"microchipped":        f.Microchipped,
		"fully_vaccinated":    f.FullyVaccinated,
	} {
		if value != nil {
			add(key, *value)
		}
	}
	for key, value := range map[string]*float64{"price": f.Price, "price__gte": f.PriceMin, "price__lte": f.PriceMax} {
		if value != nil {
			add(key, *value)
		}
	}
	for key, value := range map[string]*int{"age": f.AgeMonths, "age__gte": f.AgeMin, "age__lte": f.AgeMax} {
		if value != nil {
			add(key, *value)
		}
	}
	if f.Location != "" {
		add("location", strings.ToLower(f.Location))
	}
	if len(f.Lifestyle) > 0 {
		add("lifestyle", sortedCopy(f.Lifestyle))
	}
	if len(f.Characteristics) > 0 {
		add("characteristics", sortedCopy(f.Characteristics))
	}
	if len(f.SearchTerms) > 0 {
		add("search", f.SearchTerms)
	}
	ordering := make([]string, 0, len(q.Ordering))
	for _, o := range q.Ordering {
		ordering = append(ordering, o.String())
	}
	add("ordering", strings.Join(ordering, ","))
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

// BreedListQuery is the parsed form of a breed list request.
type BreedListQuery struct {
	SearchTerms []string
	Ordering    []OrderField
	Page        int
	PageSize    int
}

// Normalize fills defaults.
func (q BreedListQuery) Normalize() BreedListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if len(q.Ordering) == 0 {
		q.Ordering = []OrderField{{Field: OrderName}}
	}
	return q
}

// Offset is the number of rows skipped before this page.
func (q BreedListQuery) Offset() int { return pageOffset(q.Page, q.PageSize) }

// ParentListQuery is the parsed form of a parent list request.
type ParentListQuery struct {
	SearchTerms []string
	Page        int
	PageSize    int
}

// Normalize fills defaults.
func (q ParentListQuery) Normalize() ParentListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Offset is the number of rows skipped before this page.
func (q ParentListQuery) Offset() int { return pageOffset(q.Page, q.PageSize) }

// pageOffset saturates at math.MaxInt instead of wrapping for huge pages.
func pageOffset(page, size int) int {
	if page <= 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
