package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffset_SaturatesForHugePages(t *testing.T) {
	assert.Equal(t, 0, PetListQuery{Page: 1, PageSize: 12}.Offset())
	assert.Equal(t, 24, PetListQuery{Page: 3, PageSize: 12}.Offset())
	assert.Equal(t, math.MaxInt, PetListQuery{Page: math.MaxInt / 2, PageSize: 12}.Offset())
	assert.Equal(t, math.MaxInt, BreedListQuery{Page: math.MaxInt, PageSize: 12}.Offset())
	assert.Equal(t, math.MaxInt, ParentListQuery{Page: math.MaxInt, PageSize: 12}.Offset())
}

func TestPage_HasNext(t *testing.T) {
	assert.True(t, Page[int]{Total: 13, Page: 1, PageSize: 12}.HasNext())
	assert.False(t, Page[int]{Total: 12, Page: 1, PageSize: 12}.HasNext())
	assert.False(t, Page[int]{Total: 0, Page: 1, PageSize: 12}.HasNext())
	assert.False(t, Page[int]{Total: 5, Page: math.MaxInt, PageSize: 12}.HasNext())
}
