package dto

// DashboardStats métricas agregadas del dashboard administrativo.
type DashboardStats struct {
	TotalUsers      int     `json:"totalUsers"`
	TotalOrders     int     `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TodayOrders     int     `json:"todayOrders"`
	TodayRevenue    float64 `json:"todayRevenue"`
	LowStockItems   int     `json:"lowStockItems"`
	PendingOrders   int     `json:"pendingOrders"`
	CompletedOrders int     `json:"completedOrders"`
}
