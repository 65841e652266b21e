package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pilates-studio/internal/cache"
	"pilates-studio/internal/models"

	"golang.org/x/sync/singleflight"
)

var classProps = []string{"id", "title", "slug", "metadata"}

// ContentService reads class content from the CMS through a cache
type ContentService struct {
	cms   CMSClient
	cache cache.ContentCache
	sfg   singleflight.Group
}

// NewContentService creates a new content service
func NewContentService(cms CMSClient, contentCache cache.ContentCache) *ContentService {
	if contentCache == nil {
		contentCache = cache.NopCache{}
	}
	return &ContentService{cms: cms, cache: contentCache}
}

// GetClasses returns every class, or an empty list when the bucket has none
func (s *ContentService) GetClasses(ctx context.Context) ([]*models.PilatesClass, error) {
	v, err, _ := s.sfg.Do("classes", func() (interface{}, error) {
		var classes []*models.PilatesClass
		if err := s.cache.Get(ctx, "classes", &classes); err == nil {
			return classes, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		var resp struct {
			Objects []*models.PilatesClass `json:"objects"`
		}
		err := s.cms.FindObjects(ctx, ObjectQuery{
			Type:  models.ClassObjectType,
			Props: classProps,
			Depth: 1,
		}, &resp)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch classes: %w", err)
		}

		classes = resp.Objects
		if classes == nil {
			classes = []*models.PilatesClass{}
		}
		s.store(ctx, "classes", classes)
		return classes, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]*models.PilatesClass), nil
}

// GetClassBySlug returns the class with the given slug or models.ErrClassNotFound
func (s *ContentService) GetClassBySlug(ctx context.Context, slug string) (*models.PilatesClass, error) {
	if slug == "" {
		return nil, models.ErrClassNotFound
	}

	key := "class:" + slug
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		var class models.PilatesClass
		if err := s.cache.Get(ctx, key, &class); err == nil {
			return &class, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		err := s.cms.FindOneObject(ctx, ObjectQuery{
			Type:  models.ClassObjectType,
			Slug:  slug,
			Props: classProps,
			Depth: 1,
		}, &class)
		if err != nil {
			if models.IsNotFound(err) {
				return nil, fmt.Errorf("%w: %s", models.ErrClassNotFound, slug)
			}
			return nil, fmt.Errorf("failed to fetch class: %w", err)
		}

		s.store(ctx, key, &class)
		return &class, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.PilatesClass), nil
}

func (s *ContentService) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(context.WithoutCancel(ctx), key, value); err != nil {
		log.Printf("cache set error: %v", err)
	}
}
