package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Column bounds shared by the store and payload validation.
const (
	NameMaxLength         = 100
	ColorMaxLength        = 50
	LocationMaxLength     = 100
	RegistrationMaxLength = 50
	MicrochipMaxLength    = 50
	TitleMaxLength        = 100

	weightDigits, weightPlaces = 5, 2
	priceDigits, pricePlaces   = 10, 2
)

// Pet is the catalog aggregate.
type Pet struct {
	ID                 uuid.UUID
	Name               string
	Description        string
	Color              string
	WeightKg           *float64
	Size               Size
	Gender             Gender
	AgeMonths          *int
	ChampionsBloodline bool

	Price    *float64
	Featured bool
	Status   Status

	RabiesVaccinated      bool
	RabiesVaccinationDate *time.Time
	DHPPVaccinated        bool
	DHPPVaccinationDate   *time.Time
	Dewormed              bool
	DewormingDate         *time.Time

	HealthCertificate  string
	KCIRegistered      bool
	RegistrationNumber string
	Microchipped       bool
	MicrochipNumber    string
	HealthNotes        string

	Location        string
	Lifestyle       []Lifestyle
	Characteristics []Characteristic

	BreedID  *uuid.UUID
	Breed    *Breed
	FatherID *uuid.UUID
	Father   *Parent
	MotherID *uuid.UUID
	Mother   *Parent

	Photos []Photo
	Videos []Video
}

// NewPet builds a pet with the catalog defaults applied.
func NewPet(id uuid.UUID, name string) *Pet {
	return &Pet{
		ID:              id,
		Name:            name,
		Size:            SizeMedium,
		Gender:          GenderUnknown,
		Status:          StatusAvailable,
		Lifestyle:       []Lifestyle{},
		Characteristics: []Characteristic{},
	}
}

// MainPhoto returns the photo flagged as main, if any.
func (p *Pet) MainPhoto() *Photo {
	for i := range p.Photos {
		if p.Photos[i].IsMain {
			return &p.Photos[i]
		}
	}
	return nil
}

// FullyVaccinated reports whether both core vaccinations are recorded.
func (p *Pet) FullyVaccinated() bool {
	return p.RabiesVaccinated && p.DHPPVaccinated
}

// SetLifestyle replaces the lifestyle tags, dropping repeated values.
func (p *Pet) SetLifestyle(tags []Lifestyle) {
	p.Lifestyle = dedupe(tags)
}

// SetCharacteristics replaces the characteristic tags, dropping repeated values.
func (p *Pet) SetCharacteristics(tags []Characteristic) {
	p.Characteristics = dedupe(tags)
}

// MediaKeys lists every stored object owned by the pet.
func (p *Pet) MediaKeys() []string {
	keys := make([]string, 0, len(p.Photos)+len(p.Videos)+1)
	for _, photo := range p.Photos {
		if photo.Image != "" {
			keys = append(keys, photo.Image)
		}
	}
	for _, video := range p.Videos {
		if video.Video != "" {
			keys = append(keys, video.Video)
		}
	}
	if p.HealthCertificate != "" {
		keys = append(keys, p.HealthCertificate)
	}
	return keys
}

// Validate checks every field rule and the cross-field health rules.
func (p *Pet) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		v.Add("name", MsgRequired)
	}
	checkMaxLength(v, "name", p.Name, NameMaxLength)
	checkMaxLength(v, "color", p.Color, ColorMaxLength)
	checkMaxLength(v, "location", p.Location, LocationMaxLength)
	checkMaxLength(v, "registration_number", p.RegistrationNumber, RegistrationMaxLength)
	checkMaxLength(v, "microchip_number", p.MicrochipNumber, MicrochipMaxLength)

	if !p.Size.Valid() {
		v.Add("size", InvalidChoiceMessage(string(p.Size)))
	}
	if !p.Gender.Valid() {
		v.Add("gender", InvalidChoiceMessage(string(p.Gender)))
	}
	if !p.Status.Valid() {
		v.Add("status", InvalidChoiceMessage(string(p.Status)))
	}
	if p.AgeMonths != nil && *p.AgeMonths < 0 {
		v.Add("age_months", MsgNegative)
	}
	checkDecimal(v, "weight", p.WeightKg, weightDigits, weightPlaces)
	checkDecimal(v, "price", p.Price, priceDigits, pricePlaces)

	for _, tag := range p.Lifestyle {
		if !tag.Valid() {
			v.Add("lifestyle", fmt.Sprintf("'%s' is not a valid lifestyle choice.", tag))
			break
		}
	}
	for _, tag := range p.Characteristics {
		if !tag.Valid() {
			v.Add("characteristics", fmt.Sprintf("'%s' is not a valid characteristic choice.", tag))
			break
		}
	}

	if p.RabiesVaccinated && p.RabiesVaccinationDate == nil {
		v.Add("rabies_vaccination_date", MsgVaccinationDate)
	}
	if p.DHPPVaccinated && p.DHPPVaccinationDate == nil {
		v.Add("dhpp_vaccination_date", MsgVaccinationDate)
	}
	if p.Microchipped && strings.TrimSpace(p.MicrochipNumber) == "" {
		v.Add("microchip_number", MsgMicrochipNumber)
	}
	if p.KCIRegistered && strings.TrimSpace(p.RegistrationNumber) == "" {
		v.Add("registration_number", MsgRegistrationNumber)
	}
	return v.Err()
}

// Clone returns a deep copy safe to mutate independently.
func (p *Pet) Clone() *Pet {
	if p == nil {
		return nil
	}
	c := *p
	c.WeightKg = cloneFloat(p.WeightKg)
	c.Price = cloneFloat(p.Price)
	c.AgeMonths = cloneInt(p.AgeMonths)
	c.RabiesVaccinationDate = cloneTime(p.RabiesVaccinationDate)
	c.DHPPVaccinationDate = cloneTime(p.DHPPVaccinationDate)
	c.DewormingDate = cloneTime(p.DewormingDate)
	c.Lifestyle = append([]Lifestyle{}, p.Lifestyle...)
	c.Characteristics = append([]Characteristic{}, p.Characteristics...)
	c.BreedID = cloneUUID(p.BreedID)
	c.FatherID = cloneUUID(p.FatherID)
	c.MotherID = cloneUUID(p.MotherID)
	if p.Breed != nil {
		b := *p.Breed
		c.Breed = &b
	}
	c.Father = p.Father.Clone()
	c.Mother = p.Mother.Clone()
	c.Photos = append([]Photo(nil), p.Photos...)
	c.Videos = append([]Video(nil), p.Videos...)
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneUUID(v *uuid.UUID) *uuid.UUID {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
