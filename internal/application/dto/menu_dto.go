package dto

// Category categoría del menú.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
	Created      string `json:"created"`
	Updated      string `json:"updated"`
}

// MenuItem ítem del menú. BasePrice llega como string decimal del backend
// y se conserva así; el carrito lo parsea una sola vez al agregarlo.
type MenuItem struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Category        int64   `json:"category"`
	CategoryName    string  `json:"category_name,omitempty"`
	BasePrice       string  `json:"base_price"`
	IsAvailable     bool    `json:"is_available"`
	IsFeatured      bool    `json:"is_featured"`
	ImageURL        string  `json:"image_url,omitempty"`
	Calories        int     `json:"calories,omitempty"`
	Allergens       string  `json:"allergens,omitempty"`
	PreparationTime int     `json:"preparation_time,omitempty"`
	ModifierGroups  []int64 `json:"modifier_groups"`
	DisplayOrder    int     `json:"display_order"`
	Created         string  `json:"created"`
	Updated         string  `json:"updated"`
}

// ModifierGroup grupo de modificadores (ej. "tipo de leche").
type ModifierGroup struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	IsRequired    bool   `json:"is_required"`
	MaxSelections int    `json:"max_selections"`
	DisplayOrder  int    `json:"display_order"`
	IsActive      bool   `json:"is_active"`
	Created       string `json:"created"`
	Updated       string `json:"updated"`
}

// Modifier modificador individual dentro de un grupo.
type Modifier struct {
	ID              int64  `json:"id"`
	Group           int64  `json:"group"`
	Name            string `json:"name"`
	PriceAdjustment string `json:"price_adjustment"`
	IsAvailable     bool   `json:"is_available"`
	DisplayOrder    int    `json:"display_order"`
	Created         string `json:"created"`
	Updated         string `json:"updated"`
}

// PricingRule regla de precio por horario/día para un ítem.
type PricingRule struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description,omitempty"`
	MenuItem             int64  `json:"menu_item"`
	PriceAdjustment      string `json:"price_adjustment"`
	PercentageAdjustment string `json:"percentage_adjustment"`
	StartTime            string `json:"start_time,omitempty"`
	EndTime              string `json:"end_time,omitempty"`
	DaysOfWeek           string `json:"days_of_week,omitempty"`
	IsActive             bool   `json:"is_active"`
	Created              string `json:"created"`
	Updated              string `json:"updated"`
}

// MenuItemAvailability cambio histórico de disponibilidad de un ítem.
type MenuItemAvailability struct {
	ID          int64  `json:"id"`
	MenuItem    int64  `json:"menu_item"`
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason,omitempty"`
	ChangedBy   string `json:"changed_by,omitempty"`
	ChangedAt   string `json:"changed_at"`
}
