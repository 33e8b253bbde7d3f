package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/pizzagpt/models"
)

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

type ListMenuItemsParams struct {
	// Name is a case-insensitive substring filter; empty matches everything.
	Name       string
	OnlyActive bool
}

// ListItems returns menu items ordered by name, then size.
func (s *MenuService) ListItems(ctx context.Context, p ListMenuItemsParams) ([]models.MenuItem, error) {
	query := s.db.WithContext(ctx).Model(&models.MenuItem{})
	if p.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(name))+"%")
	}

	items := make([]models.MenuItem, 0)
	if err := query.Order("name ASC").Order("size ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

func (s *MenuService) GetItem(ctx context.Context, rawID string) (*models.MenuItem, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}

	var item models.MenuItem
	err = s.db.WithContext(ctx).First(&item, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("menu item not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &item, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes s match literally inside a LIKE pattern using '!' as the
// escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
