package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Per-pet media caps.
const (
	MaxPhotosPerPet = 5
	MaxVideosPerPet = 2
)

var (
	ErrPhotoLimit     = errors.New("photo limit reached")
	ErrMainPhotoTaken = errors.New("main photo already set")
	ErrVideoLimit     = errors.New("video limit reached")
)

// Photo is a gallery image attached to a pet. Image holds the storage key.
type Photo struct {
	ID        uuid.UUID
	PetID     uuid.UUID
	Image     string
	Order     int
	IsMain    bool
	CreatedAt time.Time
}

// Video is a clip attached to a pet. Video holds the storage key.
type Video struct {
	ID        uuid.UUID
	PetID     uuid.UUID
	Video     string
	Title     string
	CreatedAt time.Time
}

// Validate checks the photo field rules.
func (p *Photo) Validate() error {
	v := &ValidationError{}
	if p.Image == "" {
		v.Add("image", MsgRequired)
	}
	if p.Order < 0 || p.Order > 32767 {
		v.Add("order", "Ensure this value is between 0 and 32767.")
	}
	return v.Err()
}

// Validate checks the video field rules.
func (v *Video) Validate() error {
	errs := &ValidationError{}
	if v.Video == "" {
		errs.Add("video", MsgRequired)
	}
	checkMaxLength(errs, "title", v.Title, TitleMaxLength)
	return errs.Err()
}

// CanAddPhoto checks the caps against the photos already attached.
func CanAddPhoto(existing []Photo, candidate Photo) error {
	if len(existing) >= MaxPhotosPerPet {
		return ErrPhotoLimit
	}
	if candidate.IsMain && hasOtherMain(existing, candidate.ID) {
		return ErrMainPhotoTaken
	}
	return nil
}

// CanPromotePhoto checks that no other photo already holds the main flag.
func CanPromotePhoto(existing []Photo, photoID uuid.UUID) error {
	if hasOtherMain(existing, photoID) {
		return ErrMainPhotoTaken
	}
	return nil
}

// CanAddVideo checks the video cap.
func CanAddVideo(existing []Video) error {
	if len(existing) >= MaxVideosPerPet {
		return ErrVideoLimit
	}
	return nil
}

// MediaViolation translates a cap error into a field-scoped violation.
func MediaViolation(err error) (*ValidationError, bool) {
	switch {
	case errors.Is(err, ErrPhotoLimit):
		return NewValidationError("photos", MsgPhotoLimit), true
	case errors.Is(err, ErrMainPhotoTaken):
		return NewValidationError("is_main", MsgMainPhotoTaken), true
	case errors.Is(err, ErrVideoLimit):
		return NewValidationError("videos", MsgVideoLimit), true
	}
	return nil, false
}

// SortPhotos orders photos by position, then creation time.
func SortPhotos(photos []Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		if photos[i].Order != photos[j].Order {
			return photos[i].Order < photos[j].Order
		}
		return photos[i].CreatedAt.Before(photos[j].CreatedAt)
	})
}

// SortVideos orders videos by creation time.
func SortVideos(videos []Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].CreatedAt.Before(videos[j].CreatedAt)
	})
}

func hasOtherMain(photos []Photo, exclude uuid.UUID) bool {
	for _, photo := range photos {
		if photo.IsMain && photo.ID != exclude {
			return true
		}
	}
	return false
}
