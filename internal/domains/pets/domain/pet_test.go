package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPet_AppliesDefaults(t *testing.T) {
	pet := NewPet(uuid.New(), "Rex")

	require.Equal(t, SizeMedium, pet.Size)
	require.Equal(t, GenderUnknown, pet.Gender)
	require.Equal(t, StatusAvailable, pet.Status)
	require.NotNil(t, pet.Lifestyle)
	require.NotNil(t, pet.Characteristics)
	require.NoError(t, pet.Validate())
}

func TestValidate_CrossFieldHealthRules(t *testing.T) {
	pet := NewPet(uuid.New(), "Rex")
	pet.RabiesVaccinated = true
	pet.DHPPVaccinated = true
	pet.Microchipped = true
	pet.KCIRegistered = true

	err := pet.Validate()
	v, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, MsgVaccinationDate, v.Fields["rabies_vaccination_date"])
	assert.Equal(t, MsgVaccinationDate, v.Fields["dhpp_vaccination_date"])
	assert.Equal(t, MsgMicrochipNumber, v.Fields["microchip_number"])
	assert.Equal(t, MsgRegistrationNumber, v.Fields["registration_number"])

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	pet.RabiesVaccinationDate = &now
	pet.DHPPVaccinationDate = &now
	pet.MicrochipNumber = "985112003456789"
	pet.RegistrationNumber = "KCI-2024-0042"
	require.NoError(t, pet.Validate())
}

func TestValidate_RejectsUnknownTags(t *testing.T) {
	pet := NewPet(uuid.New(), "Rex")
	pet.SetLifestyle([]Lifestyle{LifestyleNeedsYard, "couch_potato"})
	pet.SetCharacteristics([]Characteristic{"grumpy"})

	v, ok := AsValidationError(pet.Validate())
	require.True(t, ok)
	assert.Equal(t, "'couch_potato' is not a valid lifestyle choice.", v.Fields["lifestyle"])
	assert.Equal(t, "'grumpy' is not a valid characteristic choice.", v.Fields["characteristics"])
}

func TestSetLifestyle_DropsDuplicates(t *testing.T) {
	pet := NewPet(uuid.New(), "Rex")
	pet.SetLifestyle([]Lifestyle{LifestyleNeedsYard, LifestyleGoodWithKids, LifestyleNeedsYard})
	pet.SetCharacteristics([]Characteristic{CharacteristicCalm, CharacteristicCalm})

	require.Equal(t, []Lifestyle{LifestyleNeedsYard, LifestyleGoodWithKids}, pet.Lifestyle)
	require.Equal(t, []Characteristic{CharacteristicCalm}, pet.Characteristics)
}

func TestValidate_ScalarBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Pet)
		field  string
	}{
		{name: "blank name", mutate: func(p *Pet) { p.Name = "  " }, field: "name"},
		{name: "long color", mutate: func(p *Pet) { p.Color = string(make([]byte, 51)) }, field: "color"},
		{name: "bad size", mutate: func(p *Pet) { p.Size = "huge" }, field: "size"},
		{name: "bad status", mutate: func(p *Pet) { p.Status = "deleted" }, field: "status"},
		{name: "negative age", mutate: func(p *Pet) { age := -1; p.AgeMonths = &age }, field: "age_months"},
		{name: "price precision", mutate: func(p *Pet) { price := 10.123; p.Price = &price }, field: "price"},
		{name: "weight digits", mutate: func(p *Pet) { w := 1000.0; p.WeightKg = &w }, field: "weight"},
		{name: "price not a number", mutate: func(p *Pet) { price := math.NaN(); p.Price = &price }, field: "price"},
		{name: "infinite weight", mutate: func(p *Pet) { w := math.Inf(1); p.WeightKg = &w }, field: "weight"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pet := NewPet(uuid.New(), "Rex")
			tc.mutate(pet)
			v, ok := AsValidationError(pet.Validate())
			require.True(t, ok)
			assert.Contains(t, v.Fields, tc.field)
		})
	}
}

func TestMainPhotoAndFullyVaccinated(t *testing.T) {
	pet := NewPet(uuid.New(), "Rex")
	require.Nil(t, pet.MainPhoto())
	require.False(t, pet.FullyVaccinated())

	pet.Photos = []Photo{{ID: uuid.New(), Image: "a.jpg"}, {ID: uuid.New(), Image: "b.jpg", IsMain: true}}
	pet.RabiesVaccinated, pet.DHPPVaccinated = true, true

	require.Equal(t, "b.jpg", pet.MainPhoto().Image)
	require.True(t, pet.FullyVaccinated())
}

func TestMediaCaps(t *testing.T) {
	photos := make([]Photo, 0, MaxPhotosPerPet)
	for i := 0; i < MaxPhotosPerPet; i++ {
		require.NoError(t, CanAddPhoto(photos, Photo{ID: uuid.New(), IsMain: i == 0}))
		photos = append(photos, Photo{ID: uuid.New(), IsMain: i == 0})
	}
	require.ErrorIs(t, CanAddPhoto(photos, Photo{ID: uuid.New()}), ErrPhotoLimit)
	require.ErrorIs(t, CanAddPhoto(photos[:2], Photo{ID: uuid.New(), IsMain: true}), ErrMainPhotoTaken)
	require.NoError(t, CanPromotePhoto(photos, photos[0].ID))
	require.ErrorIs(t, CanPromotePhoto(photos, photos[1].ID), ErrMainPhotoTaken)

	videos := []Video{{ID: uuid.New()}, {ID: uuid.New()}}
	require.ErrorIs(t, CanAddVideo(videos), ErrVideoLimit)

	v, ok := MediaViolation(ErrVideoLimit)
	require.True(t, ok)
	require.Equal(t, MsgVideoLimit, v.Fields["videos"])
}

func TestSortPhotos_ByOrderThenCreation(t *testing.T) {
	base := time.Now()
	photos := []Photo{
		{Image: "c", Order: 1, CreatedAt: base},
		{Image: "b", Order: 0, CreatedAt: base.Add(time.Second)},
		{Image: "a", Order: 0, CreatedAt: base},
	}
	SortPhotos(photos)
	require.Equal(t, []string{"a", "b", "c"}, []string{photos[0].Image, photos[1].Image, photos[2].Image})
}
