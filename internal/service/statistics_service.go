package service

import (
	"context"
	"time"

	"salesos/internal/model"

	"gorm.io/gorm"
)

// ScenarioCount is one slice of the sales-by-VAT-treatment breakdown
type ScenarioCount struct {
	AccountCode string  `json:"account_code"`
	TradeCount  int64   `json:"trade_count"`
	TotalSales  float64 `json:"total_sales"`
}

// ShopperRanking ranks shoppers by allocated commission
type ShopperRanking struct {
	ShopperID       string  `json:"shopper_id"`
	ShopperName     string  `json:"shopper_name"`
	TradeCount      int64   `json:"trade_count"`
	TotalCommission float64 `json:"total_commission"`
}

// DashboardResponse is the aggregate view over a date range
type DashboardResponse struct {
	TimeRangeStartDate        time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate          time.Time        `json:"time_range_end_date"`
	TradeCount                int64            `json:"trade_count"`
	TotalSalesExVAT           float64          `json:"total_sales_ex_vat"`
	TotalGrossMargin          float64          `json:"total_gross_margin"`
	TotalCommissionableMargin float64          `json:"total_commissionable_margin"`
	ByScenario                []ScenarioCount  `json:"by_scenario"`
	TopShoppers               []ShopperRanking `json:"top_shoppers"`
}

type StatisticsService interface {
	GetDashboard(ctx context.Context, startDate, endDate time.Time) (DashboardResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetDashboard aggregates trade figures in the range. Cancelled trades are
// excluded from every figure.
func (s *statisticsService) GetDashboard(ctx context.Context, startDate, endDate time.Time) (DashboardResponse, error) {
	var response DashboardResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.Trade{}).
			Where("status != ? AND created_at >= ? AND created_at <= ?",
				model.TradeStatusCancelled, startDate, endDate)
	}

	if err := base().Count(&response.TradeCount).Error; err != nil {
		return response, err
	}

	var totals struct {
		Sales          float64
		Gross          float64
		Commissionable float64
	}
	err := base().
		Select("COALESCE(SUM(sale_amount_ex_vat), 0) as sales, COALESCE(SUM(gross_margin), 0) as gross, COALESCE(SUM(commissionable_margin), 0) as commissionable").
		Scan(&totals).Error
	if err != nil {
		return response, err
	}
	response.TotalSalesExVAT = totals.Sales
	response.TotalGrossMargin = totals.Gross
	response.TotalCommissionableMargin = totals.Commissionable

	err = base().
		Select("account_code, COUNT(*) as trade_count, COALESCE(SUM(sale_amount_ex_vat), 0) as total_sales").
		Group("account_code").
		Order("total_sales DESC").
		Scan(&response.ByScenario).Error
	if err != nil {
		return response, err
	}

	err = s.db.WithContext(ctx).Table("allocations").
		Select("shoppers.id as shopper_id, shoppers.name as shopper_name, COUNT(*) as trade_count, COALESCE(SUM(allocations.commission_amount), 0) as total_commission").
		Joins("JOIN shoppers ON shoppers.id = allocations.shopper_id").
		Where("allocations.status = ? AND allocations.created_at >= ? AND allocations.created_at <= ?",
			model.AllocationActive, startDate, endDate).
		Group("shoppers.id, shoppers.name").
		Order("total_commission DESC").
		Limit(5).
		Scan(&response.TopShoppers).Error
	if err != nil {
		return response, err
	}

	return response, nil
}
