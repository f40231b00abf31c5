// Package admin expone las métricas agregadas del back-office.
package admin

import (
	"context"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/api"
)

const dashboardPath = "/api/admin/dashboard/"

// Service caso de uso administrativo.
type Service struct {
	client *api.Client
}

// NewService construye el caso de uso sobre el cliente HTTP dado.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// DashboardStats obtiene las métricas del dashboard.
func (s *Service) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	var out dto.DashboardStats
	if err := s.client.Get(ctx, dashboardPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
