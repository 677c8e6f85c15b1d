package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"table-service/internal/database"
	"table-service/internal/logger"
	"table-service/internal/models"
	"table-service/internal/money"
)

var (
	// ErrMenuItemNotFound is returned when no menu item matches the given ID
	ErrMenuItemNotFound = errors.New("menu item not found")

	// ErrTagNotFound is returned when no tag matches the given ID
	ErrTagNotFound = errors.New("tag not found")

	// ErrDuplicateName is returned when a menu item name is already taken
	ErrDuplicateName = errors.New("menu item with that name already exists")
)

// Service manages menu items and tags
type Service struct {
	db     *database.DB
	cache  *Cache
	logger *logger.Logger
}

// NewService creates a new menu service. The cache may be nil, in which case
// every listing hits the database.
func NewService(db *database.DB, cache *Cache, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		logger: log,
	}
}

// CreateMenuItem adds a menu item with its tags
func (s *Service) CreateMenuItem(ctx context.Context, req *models.CreateMenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Tags:        req.Tags,
	}

	err := s.db.QueryRow(ctx, database.InsertMenuItemSQL, req.Name, req.Description, req.Price.Cents()).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		s.logger.Error("db_insert_failed", "Failed to create menu item", requestID, err, map[string]interface{}{
			"name": req.Name,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.replaceTags(ctx, item.ID, req.Tags); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	s.logger.Info("menu_item_created", fmt.Sprintf("Created menu item %q", item.Name), requestID, map[string]interface{}{
		"menu_item_id": item.ID,
		"price":        item.Price.String(),
	})

	return &item, nil
}

// ListMenuItems returns all menu items with their tags, optionally filtered to
// items carrying every one of the selected tags. Unfiltered listings are
// served from the cache when possible.
func (s *Service) ListMenuItems(ctx context.Context, selectedTags []string, requestID string) ([]models.MenuItem, error) {
	if len(selectedTags) == 0 && s.cache != nil {
		cached, err := s.cache.GetMenu(ctx)
		if err != nil {
			s.logger.Error("cache_read_failed", "Menu cache read failed, falling back to database", requestID, err, nil)
		} else if cached != nil {
			return cached, nil
		}
	}

	items, err := s.loadMenuItems(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if len(selectedTags) == 0 {
		if s.cache != nil {
			if err := s.cache.SetMenu(ctx, items); err != nil {
				s.logger.Error("cache_write_failed", "Failed to populate menu cache", requestID, err, nil)
			}
		}
		return items, nil
	}

	var filtered []models.MenuItem
	for _, item := range items {
		if hasAllTags(item.Tags, selectedTags) {
			filtered = append(filtered, item)
		}
	}

	return filtered, nil
}

// hasAllTags reports whether every selected tag appears on the item
func hasAllTags(itemTags, selected []string) bool {
	tagSet := make(map[string]bool, len(itemTags))
	for _, tag := range itemTags {
		tagSet[tag] = true
	}
	for _, tag := range selected {
		if !tagSet[tag] {
			return false
		}
	}
	return true
}

func (s *Service) loadMenuItems(ctx context.Context, requestID string) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to list menu items", requestID, err, nil)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		var cents int64
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &cents, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		item.Price = money.FromCents(cents)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	for i := range items {
		tags, err := s.tagsForItem(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Tags = tags
	}

	return items, nil
}

// GetMenuItem returns a single menu item with its tags
func (s *Service) GetMenuItem(ctx context.Context, id int, requestID string) (*models.MenuItem, error) {
	var item models.MenuItem
	var cents int64
	err := s.db.QueryRow(ctx, database.GetMenuItemByIDSQL, id).
		Scan(&item.ID, &item.Name, &item.Description, &cents, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		s.logger.Error("db_query_failed", "Failed to query menu item", requestID, err, map[string]interface{}{
			"menu_item_id": id,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	item.Price = money.FromCents(cents)

	tags, err := s.tagsForItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Tags = tags

	return &item, nil
}

// UpdateMenuItem applies a partial update to a menu item
func (s *Service) UpdateMenuItem(ctx context.Context, id int, req *models.UpdateMenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetMenuItem(ctx, id, requestID)
	if err != nil {
		return nil, err
	}

	description := current.Description
	if req.Description != nil {
		description = *req.Description
	}
	price := current.Price
	if req.Price != nil {
		price = *req.Price
	}

	if err := s.db.Exec(ctx, database.UpdateMenuItemSQL, description, price.Cents(), id); err != nil {
		s.logger.Error("db_update_failed", "Failed to update menu item", requestID, err, map[string]interface{}{
			"menu_item_id": id,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Tags != nil {
		if err := s.replaceTags(ctx, id, req.Tags); err != nil {
			return nil, err
		}
	}

	s.invalidateCache(ctx)

	return s.GetMenuItem(ctx, id, requestID)
}

// DeleteMenuItem removes a menu item
func (s *Service) DeleteMenuItem(ctx context.Context, id int, requestID string) error {
	tag, err := s.db.Pool.Exec(ctx, database.DeleteMenuItemSQL, id)
	if err != nil {
		s.logger.Error("db_delete_failed", "Failed to delete menu item", requestID, err, map[string]interface{}{
			"menu_item_id": id,
		})
		return fmt.Errorf("database error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}

	s.invalidateCache(ctx)
	return nil
}

// CreateTag creates a tag, returning the existing one on a name collision
func (s *Service) CreateTag(ctx context.Context, req *models.CreateTagRequest, requestID string) (*models.Tag, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tag := models.Tag{Name: req.Name}
	err := s.db.QueryRow(ctx, database.InsertTagSQL, req.Name).Scan(&tag.ID, &tag.CreatedAt)
	if err != nil {
		s.logger.Error("db_insert_failed", "Failed to create tag", requestID, err, map[string]interface{}{
			"name": req.Name,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &tag, nil
}

// ListTags returns all tags
func (s *Service) ListTags(ctx context.Context, requestID string) ([]models.Tag, error) {
	rows, err := s.db.Query(ctx, database.ListTagsSQL)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to list tags", requestID, err, nil)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// DeleteTag removes a tag and its menu item links
func (s *Service) DeleteTag(ctx context.Context, id int, requestID string) error {
	tag, err := s.db.Pool.Exec(ctx, database.DeleteTagSQL, id)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTagNotFound
	}

	s.invalidateCache(ctx)
	return nil
}

// replaceTags rewrites the item's tag links, creating missing tags on the fly
func (s *Service) replaceTags(ctx context.Context, itemID int, tagNames []string) error {
	if err := s.db.Exec(ctx, database.UnlinkMenuItemTagsSQL, itemID); err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	for _, name := range tagNames {
		var tagID int
		var createdAt interface{}
		if err := s.db.QueryRow(ctx, database.InsertTagSQL, name).Scan(&tagID, &createdAt); err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if err := s.db.Exec(ctx, database.LinkMenuItemTagSQL, itemID, tagID); err != nil {
			return fmt.Errorf("database error: %w", err)
		}
	}

	return nil
}

func (s *Service) tagsForItem(ctx context.Context, itemID int) ([]string, error) {
	rows, err := s.db.Query(ctx, database.GetTagsForMenuItemSQL, itemID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		tags = append(tags, name)
	}

	return tags, rows.Err()
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
