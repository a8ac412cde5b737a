package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
)

type InsightsRepositoryInterface interface {
	GetDailyRevenue(ctx context.Context) ([]entities.DailyRevenue, error)
	GetStaffPerformance(ctx context.Context) ([]entities.StaffPerformance, error)
	GetCustomerInsights(ctx context.Context) ([]entities.CustomerInsight, error)
}

type InsightsRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewInsightsRepository(storage *pgxpool.Pool, logger *zap.Logger) InsightsRepositoryInterface {
	return &InsightsRepository{storage: storage, logger: logger}
}

// queryAll runs builder and scans every row with scan.
func queryAll[T any](ctx context.Context, q Querier, builder sq.SelectBuilder, scan func(pgx.Rows) (T, error)) ([]T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *InsightsRepository) GetDailyRevenue(ctx context.Context) ([]entities.DailyRevenue, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"to_char(date, 'YYYY-MM-DD')", "total_workflows",
			"COALESCE(daily_revenue, 0)::float8", "COALESCE(avg_satisfaction, 0)::float8",
			"COALESCE(avg_processing_time, 0)::float8",
		).
		From("daily_revenue_summary").
		OrderBy("date DESC")

	return queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.DailyRevenue, error) {
		var d entities.DailyRevenue
		err := rows.Scan(&d.Date, &d.TotalWorkflows, &d.DailyRevenue, &d.AvgSatisfaction, &d.AvgProcessingTime)
		return d, err
	})
}

func (r *InsightsRepository) GetStaffPerformance(ctx context.Context) ([]entities.StaffPerformance, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"staff_email", "total_assignments",
			"COALESCE(avg_customer_rating, 0)::float8", "COALESCE(total_revenue_generated, 0)::float8",
			"COALESCE(avg_processing_time, 0)::float8",
		).
		From("staff_performance_summary").
		OrderBy("total_assignments DESC")

	return queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.StaffPerformance, error) {
		var s entities.StaffPerformance
		err := rows.Scan(&s.StaffEmail, &s.TotalAssignments, &s.AvgCustomerRating, &s.TotalRevenueGenerated, &s.AvgProcessingTime)
		return s, err
	})
}

func (r *InsightsRepository) GetCustomerInsights(ctx context.Context) ([]entities.CustomerInsight, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"customer_name", "customer_email", "total_shipments",
			"COALESCE(total_spent, 0)::float8", "COALESCE(avg_satisfaction, 0)::float8",
			"last_activity", "COALESCE(repeat_customer, false)",
		).
		From("customer_insights").
		OrderBy("total_spent DESC NULLS LAST")

	return queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.CustomerInsight, error) {
		var c entities.CustomerInsight
		err := rows.Scan(&c.CustomerName, &c.CustomerEmail, &c.TotalShipments, &c.TotalSpent, &c.AvgSatisfaction, &c.LastActivity, &c.RepeatCustomer)
		return c, err
	})
}
