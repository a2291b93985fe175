// Package mapper translates between the pets HTTP payloads and the application types.
// Each response shape has exactly one builder; handlers pick the builder for their route.
package mapper

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

// URLFunc resolves a storage key to the URL returned to clients.
type URLFunc func(key string) string

// Breed is the nested and standalone breed shape.
type Breed struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	SizeCategory string    `json:"size_category"`
}

// Parent is the lineage shape; timestamps are only set on the parent resource itself.
type Parent struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Gender             string      `json:"gender"`
	DateOfBirth        *types.Date `json:"date_of_birth"`
	RegistrationNumber string      `json:"registration_number"`
	CreatedAt          *time.Time  `json:"created_at,omitempty"`
	UpdatedAt          *time.Time  `json:"updated_at,omitempty"`
}

// Photo is a gallery entry.
type Photo struct {
	ID     uuid.UUID `json:"id"`
	Image  string    `json:"image"`
	Order  int       `json:"order"`
	IsMain bool      `json:"is_main"`
}

// Video is a clip entry.
type Video struct {
	ID    uuid.UUID `json:"id"`
	Video string    `json:"video"`
	Title string    `json:"title"`
}

// PetList is the compact shape used by list endpoints.
type PetList struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Breed              *Breed    `json:"breed"`
	Gender             string    `json:"gender"`
	AgeMonths          *int      `json:"age_months"`
	MainPhoto          *string   `json:"main_photo"`
	Lifestyle          []string  `json:"lifestyle"`
	Characteristics    []string  `json:"characteristics"`
	ChampionsBloodline bool      `json:"champions_bloodline"`
}

// PetDetail is the full shape returned by retrieve, create and update.
type PetDetail struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Breed              *Breed    `json:"breed"`
	Description        string    `json:"description"`
	Color              string    `json:"color"`
	Weight             *string   `json:"weight"`
	Size               string    `json:"size"`
	Gender             string    `json:"gender"`
	AgeMonths          *int      `json:"age_months"`
	ChampionsBloodline bool      `json:"champions_bloodline"`

	Price    *string `json:"price"`
	Featured bool    `json:"featured"`
	Status   string  `json:"status"`

	RabiesVaccinated      bool        `json:"rabies_vaccinated"`
	RabiesVaccinationDate *types.Date `json:"rabies_vaccination_date"`
	DHPPVaccinated        bool        `json:"dhpp_vaccinated"`
	DHPPVaccinationDate   *types.Date `json:"dhpp_vaccination_date"`
	Dewormed              bool        `json:"dewormed"`
	DewormingDate         *types.Date `json:"deworming_date"`
	FullyVaccinated       bool        `json:"fully_vaccinated"`

	HealthCertificate  *string `json:"health_certificate"`
	KCIRegistered      bool    `json:"kci_registered"`
	RegistrationNumber string  `json:"registration_number"`
	Microchipped       bool    `json:"microchipped"`
	MicrochipNumber    string  `json:"microchip_number"`
	HealthNotes        string  `json:"health_notes"`

	Location        string   `json:"location"`
	Lifestyle       []string `json:"lifestyle"`
	Characteristics []string `json:"characteristics"`

	Father    *Parent `json:"father"`
	Mother    *Parent `json:"mother"`
	MainPhoto *string `json:"main_photo"`
	Photos    []Photo `json:"photos"`
	Videos    []Video `json:"videos"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Choice is a value/label pair offered to filter controls.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Range is an inclusive numeric span.
type Range[T int | float64] struct {
	Min T `json:"min"`
	Max T `json:"max"`
}

// FiltersInfo is the filter metadata shape.
type FiltersInfo struct {
	Sizes           []Choice       `json:"sizes"`
	Genders         []Choice       `json:"genders"`
	Statuses        []Choice       `json:"statuses"`
	Lifestyles      []Choice       `json:"lifestyles"`
	Characteristics []Choice       `json:"characteristics"`
	Locations       []string       `json:"locations"`
	PriceRange      Range[float64] `json:"price_range"`
	AgeRange        Range[int]     `json:"age_range"`
}

// Paginated wraps a page of results with navigation links.
type Paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ToPetList builds the list shape.
func ToPetList(p *pettypes.PetProjection, url URLFunc) PetList {
	pet := p.Entity
	return PetList{
		ID:                 pet.ID,
		Name:               pet.Name,
		Breed:              ToBreedRef(pet.Breed),
		Gender:             string(pet.Gender),
		AgeMonths:          pet.AgeMonths,
		MainPhoto:          mainPhotoURL(pet, url),
		Lifestyle:          tagStrings(pet.Lifestyle),
		Characteristics:    tagStrings(pet.Characteristics),
		ChampionsBloodline: pet.ChampionsBloodline,
	}
}

// ToPetListPage maps every item of a page.
func ToPetListPage(items []*pettypes.PetProjection, url URLFunc) []PetList {
	out := make([]PetList, 0, len(items))
	for _, item := range items {
		out = append(out, ToPetList(item, url))
	}
	return out
}

// ToPetDetail builds the detail shape.
func ToPetDetail(p *pettypes.PetProjection, url URLFunc) PetDetail {
	pet := p.Entity
	return PetDetail{
		ID:                    pet.ID,
		Name:                  pet.Name,
		Breed:                 ToBreedRef(pet.Breed),
		Description:           pet.Description,
		Color:                 pet.Color,
		Weight:                decimalString(pet.WeightKg),
		Size:                  string(pet.Size),
		Gender:                string(pet.Gender),
		AgeMonths:             pet.AgeMonths,
		ChampionsBloodline:    pet.ChampionsBloodline,
		Price:                 decimalString(pet.Price),
		Featured:              pet.Featured,
		Status:                string(pet.Status),
		RabiesVaccinated:      pet.RabiesVaccinated,
		RabiesVaccinationDate: dateOf(pet.RabiesVaccinationDate),
		DHPPVaccinated:        pet.DHPPVaccinated,
		DHPPVaccinationDate:   dateOf(pet.DHPPVaccinationDate),
		Dewormed:              pet.Dewormed,
		DewormingDate:         dateOf(pet.DewormingDate),
		FullyVaccinated:       pet.FullyVaccinated(),
		HealthCertificate:     optionalURL(pet.HealthCertificate, url),
		KCIRegistered:         pet.KCIRegistered,
		RegistrationNumber:    pet.RegistrationNumber,
		Microchipped:          pet.Microchipped,
		MicrochipNumber:       pet.MicrochipNumber,
		HealthNotes:           pet.HealthNotes,
		Location:              pet.Location,
		Lifestyle:             tagStrings(pet.Lifestyle),
		Characteristics:       tagStrings(pet.Characteristics),
		Father:                toParentRef(pet.Father),
		Mother:                toParentRef(pet.Mother),
		MainPhoto:             mainPhotoURL(pet, url),
		Photos:                ToPhotos(pet.Photos, url),
		Videos:                ToVideos(pet.Videos, url),
		CreatedAt:             p.Metadata.CreatedAt,
		UpdatedAt:             p.Metadata.UpdatedAt,
	}
}

// ToBreedRef builds the breed shape, nil when the pet has none.
func ToBreedRef(b *domain.Breed) *Breed {
	if b == nil {
		return nil
	}
	out := ToBreed(*b)
	return &out
}

// ToBreed builds the breed shape.
func ToBreed(b domain.Breed) Breed {
	return Breed{ID: b.ID, Name: b.Name, Description: b.Description, SizeCategory: string(b.SizeCategory)}
}

// ToBreeds maps a slice of breeds.
func ToBreeds(breeds []domain.Breed) []Breed {
	out := make([]Breed, 0, len(breeds))
	for _, b := range breeds {
		out = append(out, ToBreed(b))
	}
	return out
}

// ToParent builds the parent resource shape including timestamps.
func ToParent(p *pettypes.ParentProjection) Parent {
	out := *toParentRef(p.Entity)
	created, updated := p.Metadata.CreatedAt, p.Metadata.UpdatedAt
	out.CreatedAt, out.UpdatedAt = &created, &updated
	return out
}

// ToParents maps a page of parents.
func ToParents(items []*pettypes.ParentProjection) []Parent {
	out := make([]Parent, 0, len(items))
	for _, item := range items {
		out = append(out, ToParent(item))
	}
	return out
}

func toParentRef(p *domain.Parent) *Parent {
	if p == nil {
		return nil
	}
	return &Parent{
		ID:                 p.ID,
		Name:               p.Name,
		Gender:             string(p.Gender),
		DateOfBirth:        dateOf(p.DateOfBirth),
		RegistrationNumber: p.RegistrationNumber,
	}
}

// ToPhoto builds the photo shape.
func ToPhoto(p domain.Photo, url URLFunc) Photo {
	return Photo{ID: p.ID, Image: url(p.Image), Order: p.Order, IsMain: p.IsMain}
}

// ToPhotos maps an ordered gallery.
func ToPhotos(photos []domain.Photo, url URLFunc) []Photo {
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		out = append(out, ToPhoto(p, url))
	}
	return out
}

// ToVideo builds the video shape.
func ToVideo(v domain.Video, url URLFunc) Video {
	return Video{ID: v.ID, Video: url(v.Video), Title: v.Title}
}

// ToVideos maps an ordered clip list.
func ToVideos(videos []domain.Video, url URLFunc) []Video {
	out := make([]Video, 0, len(videos))
	for _, v := range videos {
		out = append(out, ToVideo(v, url))
	}
	return out
}

// ToFiltersInfo builds the filter metadata shape.
func ToFiltersInfo(info *pettypes.FiltersInfo) FiltersInfo {
	locations := info.Locations
	if locations == nil {
		locations = []string{}
	}
	return FiltersInfo{
		Sizes:           toChoices(info.Sizes),
		Genders:         toChoices(info.Genders),
		Statuses:        toChoices(info.Statuses),
		Lifestyles:      toChoices(info.Lifestyles),
		Characteristics: toChoices(info.Characteristics),
		Locations:       locations,
		PriceRange:      Range[float64]{Min: info.PriceRange.Min, Max: info.PriceRange.Max},
		AgeRange:        Range[int]{Min: info.AgeRange.Min, Max: info.AgeRange.Max},
	}
}

func toChoices(choices []domain.Choice) []Choice {
	out := make([]Choice, 0, len(choices))
	for _, c := range choices {
		out = append(out, Choice{Value: c.Value, Label: c.Label})
	}
	return out
}

func mainPhotoURL(pet *domain.Pet, url URLFunc) *string {
	main := pet.MainPhoto()
	if main == nil {
		return nil
	}
	return optionalURL(main.Image, url)
}

func optionalURL(key string, url URLFunc) *string {
	if key == "" {
		return nil
	}
	resolved := url(key)
	return &resolved
}

// decimalString renders NUMERIC columns with two places.
func decimalString(v *float64) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatFloat(*v, 'f', 2, 64)
	return &s
}

func dateOf(t *time.Time) *types.Date {
	if t == nil {
		return nil
	}
	return &types.Date{Time: *t}
}

func tagStrings[T ~string](tags []T) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}
