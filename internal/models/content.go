package models

import (
	"github.com/shopspring/decimal"
)

// ClassObjectType is the CMS object type of Pilates classes
const ClassObjectType = "classes"

// Access type keys
const (
	AccessFree    = "free"
	AccessPremium = "premium"
)

// CosmicFile is a media reference returned by the CMS
type CosmicFile struct {
	URL      string `json:"url"`
	ImgixURL string `json:"imgix_url"`
}

// SelectOption is a CMS select-dropdown value
type SelectOption struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Instructor is a studio instructor, embedded in classes at depth 1
type Instructor struct {
	ID       string             `json:"id"`
	Slug     string             `json:"slug"`
	Title    string             `json:"title"`
	Metadata InstructorMetadata `json:"metadata"`
}

// InstructorMetadata holds the instructor's CMS fields
type InstructorMetadata struct {
	Name        string     `json:"name"`
	Photo       CosmicFile `json:"photo"`
	Bio         string     `json:"bio"`
	Specialties string     `json:"specialties,omitempty"`
}

// PilatesClass is a class offered by the studio
type PilatesClass struct {
	ID       string        `json:"id"`
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Metadata ClassMetadata `json:"metadata"`
}

// ClassMetadata holds the class's CMS fields
type ClassMetadata struct {
	Description     string          `json:"description"`
	FeaturedImage   CosmicFile      `json:"featured_image"`
	VideoURL        string          `json:"video_url,omitempty"`
	Duration        int             `json:"duration"`
	DifficultyLevel SelectOption    `json:"difficulty_level"`
	Category        SelectOption    `json:"category"`
	AccessType      SelectOption    `json:"access_type"`
	Instructor      *Instructor     `json:"instructor,omitempty"`
	Price           decimal.Decimal `json:"price"`
}

// IsFree returns true if the class cannot be purchased
func (c *PilatesClass) IsFree() bool {
	return c.Metadata.AccessType.Key == AccessFree || c.Metadata.Price.IsZero()
}

// InstructorName returns the instructor's display name, or "" when none is linked
func (c *PilatesClass) InstructorName() string {
	if c.Metadata.Instructor == nil {
		return ""
	}
	if c.Metadata.Instructor.Metadata.Name != "" {
		return c.Metadata.Instructor.Metadata.Name
	}
	return c.Metadata.Instructor.Title
}

// CartItemInput returns the cart entry for this class
func (c *PilatesClass) CartItemInput() CartItemInput {
	return CartItemInput{
		ID:       c.ID,
		Slug:     c.Slug,
		Title:    c.Title,
		Price:    c.Metadata.Price,
		Image:    c.Metadata.FeaturedImage.ImgixURL,
		Duration: c.Metadata.Duration,
	}
}
