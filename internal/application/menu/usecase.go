// Package menu expone el catálogo de la cafetería en solo lectura:
// categorías, ítems, modificadores, reglas de precio e historial de
// disponibilidad.
package menu

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/api"
)

const (
	categoriesPath     = "/api/categories/"
	itemsPath          = "/api/menu-items/"
	modifierGroupsPath = "/api/modifier-groups/"
	modifiersPath      = "/api/modifiers/"
	pricingRulesPath   = "/api/pricing-rules/"
	availabilityPath   = "/api/availability-history/"
)

// Service caso de uso del catálogo del menú.
type Service struct {
	client *api.Client
}

// NewService construye el caso de uso sobre el cliente HTTP dado.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Categories lista todas las categorías del menú.
func (s *Service) Categories(ctx context.Context) ([]dto.Category, error) {
	var out []dto.Category
	if err := s.client.Get(ctx, categoriesPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Category obtiene una categoría por id.
func (s *Service) Category(ctx context.Context, id int64) (*dto.Category, error) {
	var out dto.Category
	if err := s.client.Get(ctx, fmt.Sprintf("%s%d/", categoriesPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Items lista todos los ítems del menú.
func (s *Service) Items(ctx context.Context) ([]dto.MenuItem, error) {
	var out []dto.MenuItem
	if err := s.client.Get(ctx, itemsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Item obtiene un ítem por id.
func (s *Service) Item(ctx context.Context, id int64) (*dto.MenuItem, error) {
	var out dto.MenuItem
	if err := s.client.Get(ctx, fmt.Sprintf("%s%d/", itemsPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ItemsByCategory lista los ítems de una categoría.
func (s *Service) ItemsByCategory(ctx context.Context, categoryID int64) ([]dto.MenuItem, error) {
	var out []dto.MenuItem
	path := itemsPath + "?category=" + strconv.FormatInt(categoryID, 10)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Featured lista los ítems destacados.
func (s *Service) Featured(ctx context.Context) ([]dto.MenuItem, error) {
	var out []dto.MenuItem
	if err := s.client.Get(ctx, itemsPath+"?is_featured=true", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ModifierGroups lista todos los grupos de modificadores.
func (s *Service) ModifierGroups(ctx context.Context) ([]dto.ModifierGroup, error) {
	var out []dto.ModifierGroup
	if err := s.client.Get(ctx, modifierGroupsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ModifierGroup obtiene un grupo de modificadores por id.
func (s *Service) ModifierGroup(ctx context.Context, id int64) (*dto.ModifierGroup, error) {
	var out dto.ModifierGroup
	if err := s.client.Get(ctx, fmt.Sprintf("%s%d/", modifierGroupsPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Modifiers lista todos los modificadores.
func (s *Service) Modifiers(ctx context.Context) ([]dto.Modifier, error) {
	var out []dto.Modifier
	if err := s.client.Get(ctx, modifiersPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ModifiersByGroup lista los modificadores de un grupo.
func (s *Service) ModifiersByGroup(ctx context.Context, groupID int64) ([]dto.Modifier, error) {
	var out []dto.Modifier
	path := modifiersPath + "?group=" + strconv.FormatInt(groupID, 10)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PricingRules lista todas las reglas de precio.
func (s *Service) PricingRules(ctx context.Context) ([]dto.PricingRule, error) {
	var out []dto.PricingRule
	if err := s.client.Get(ctx, pricingRulesPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PricingRulesByItem lista las reglas de precio de un ítem.
func (s *Service) PricingRulesByItem(ctx context.Context, menuItemID int64) ([]dto.PricingRule, error) {
	var out []dto.PricingRule
	q := url.Values{"menu_item": {strconv.FormatInt(menuItemID, 10)}}
	if err := s.client.Get(ctx, pricingRulesPath+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailabilityHistory lista todo el historial de disponibilidad.
func (s *Service) AvailabilityHistory(ctx context.Context) ([]dto.MenuItemAvailability, error) {
	var out []dto.MenuItemAvailability
	if err := s.client.Get(ctx, availabilityPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailabilityHistoryByItem lista el historial de disponibilidad de un ítem.
func (s *Service) AvailabilityHistoryByItem(ctx context.Context, menuItemID int64) ([]dto.MenuItemAvailability, error) {
	var out []dto.MenuItemAvailability
	q := url.Values{"menu_item": {strconv.FormatInt(menuItemID, 10)}}
	if err := s.client.Get(ctx, availabilityPath+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}
