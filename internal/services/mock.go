package services

import (
	"context"
	"fmt"

	"pilates-studio/internal/models"

	"github.com/shopspring/decimal"
)

// MockContentService provides demo classes when no CMS bucket is configured
type MockContentService struct {
	classes []*models.PilatesClass
}

// NewMockContentService creates a content service backed by demo data
func NewMockContentService() *MockContentService {
	return &MockContentService{classes: demoClasses()}
}

func (m *MockContentService) GetClasses(ctx context.Context) ([]*models.PilatesClass, error) {
	out := make([]*models.PilatesClass, len(m.classes))
	copy(out, m.classes)
	return out, nil
}

func (m *MockContentService) GetClassBySlug(ctx context.Context, slug string) (*models.PilatesClass, error) {
	for _, class := range m.classes {
		if class.Slug == slug {
			return class, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrClassNotFound, slug)
}

func demoClasses() []*models.PilatesClass {
	instructor := &models.Instructor{
		ID:    "demo-instructor-1",
		Slug:  "maya-chen",
		Title: "Maya Chen",
		Metadata: models.InstructorMetadata{
			Name: "Maya Chen",
			Bio:  "Classically trained instructor focused on alignment and breath.",
		},
	}

	return []*models.PilatesClass{
		{
			ID:    "demo-class-1",
			Slug:  "mat-foundations",
			Title: "Mat Foundations",
			Metadata: models.ClassMetadata{
				Description:     "Build core strength and body awareness with the classical mat repertoire.",
				FeaturedImage:   models.CosmicFile{ImgixURL: "https://imgix.cosmicjs.com/demo/mat-foundations.jpg"},
				Duration:        45,
				DifficultyLevel: models.SelectOption{Key: "beginner", Value: "Beginner"},
				Category:        models.SelectOption{Key: "strength", Value: "Strength"},
				AccessType:      models.SelectOption{Key: models.AccessPremium, Value: "Premium"},
				Instructor:      instructor,
				Price:           decimal.NewFromInt(20),
			},
		},
		{
			ID:    "demo-class-2",
			Slug:  "reformer-flow",
			Title: "Reformer Flow",
			Metadata: models.ClassMetadata{
				Description:     "A flowing reformer sequence for mobility and control.",
				FeaturedImage:   models.CosmicFile{ImgixURL: "https://imgix.cosmicjs.com/demo/reformer-flow.jpg"},
				Duration:        50,
				DifficultyLevel: models.SelectOption{Key: "intermediate", Value: "Intermediate"},
				Category:        models.SelectOption{Key: "mobility", Value: "Mobility"},
				AccessType:      models.SelectOption{Key: models.AccessPremium, Value: "Premium"},
				Instructor:      instructor,
				Price:           decimal.RequireFromString("15.50"),
			},
		},
		{
			ID:    "demo-class-3",
			Slug:  "evening-stretch",
			Title: "Evening Stretch",
			Metadata: models.ClassMetadata{
				Description:     "Unwind with a gentle stretch and breathing session.",
				FeaturedImage:   models.CosmicFile{ImgixURL: "https://imgix.cosmicjs.com/demo/evening-stretch.jpg"},
				Duration:        30,
				DifficultyLevel: models.SelectOption{Key: "beginner", Value: "Beginner"},
				Category:        models.SelectOption{Key: "relaxation", Value: "Relaxation"},
				AccessType:      models.SelectOption{Key: models.AccessFree, Value: "Free"},
			},
		},
	}
}
