package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"app-catalog-backend/pkg/logger"
	"app-catalog-backend/pkg/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore PostgreSQL存储实现
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore 创建PostgreSQL存储实例
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = strings.TrimSpace(dsn)
	strategies := []string{
		addConnectionParams(dsn, "connect_timeout=10"),
		dsn, // 最后尝试原始DSN
	}

	var lastErr error
	for i, strategy := range strategies {
		db, err := sql.Open("postgres", strategy)
		if err != nil {
			logger.Warn("postgres open failed", zap.Int("strategy", i+1), zap.Error(err))
			lastErr = err
			continue
		}

		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err != nil {
			logger.Warn("postgres ping failed", zap.Int("strategy", i+1), zap.Error(err))
			db.Close()
			lastErr = err
			continue
		}

		logger.Info("postgres connection established", zap.Int("strategy", i+1))
		return &PostgresStore{db: db}, nil
	}

	return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", lastErr)
}

// NewPostgresStoreFromDB wraps an existing connection pool.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// addConnectionParams 添加连接参数到DSN
func addConnectionParams(dsn, params string) string {
	if params == "" || strings.Contains(dsn, params) {
		return dsn
	}

	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}

	return dsn + separator + params
}

const appColumns = `id, name, description, long_description, logo, category, department,
       rating, usage_count, reviews, features, access_status, popularity, date_added, tags`

const requestColumns = `id, app_id, app_name, reason, department, status, request_date, approved_date`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApp(row rowScanner) (models.App, error) {
	var app models.App
	var reviews []byte
	err := row.Scan(
		&app.ID, &app.Name, &app.Description, &app.LongDescription, &app.Logo, &app.Category,
		pq.Array(&app.Department), &app.Rating, &app.UsageCount, &reviews, pq.Array(&app.Features),
		&app.AccessStatus, &app.Popularity, &app.DateAdded, pq.Array(&app.Tags),
	)
	if err != nil {
		return models.App{}, err
	}
	if len(reviews) > 0 {
		if err := json.Unmarshal(reviews, &app.Reviews); err != nil {
			return models.App{}, fmt.Errorf("failed to decode reviews for app %s: %w", app.ID, err)
		}
	}
	return app, nil
}

func scanRequest(row rowScanner) (models.AccessRequest, error) {
	var req models.AccessRequest
	var approved models.Date
	err := row.Scan(
		&req.ID, &req.AppID, &req.AppName, &req.Reason, &req.Department,
		&req.Status, &req.RequestDate, &approved,
	)
	if err != nil {
		return models.AccessRequest{}, err
	}
	if !approved.IsZero() {
		req.ApprovedDate = &approved
	}
	return req, nil
}

// ListApps 按目录顺序列出应用
func (s *PostgresStore) ListApps(ctx context.Context) ([]models.App, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+appColumns+` FROM apps ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	defer rows.Close()

	apps := []models.App{}
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate apps: %w", err)
	}
	return apps, nil
}

// GetApp 根据ID获取应用
func (s *PostgresStore) GetApp(ctx context.Context, id string) (*models.App, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+appColumns+` FROM apps WHERE id = $1`, id)
	app, err := scanApp(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("app", id)
		}
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	return &app, nil
}

// ListRequests 按创建顺序列出访问申请
func (s *PostgresStore) ListRequests(ctx context.Context) ([]models.AccessRequest, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+requestColumns+` FROM access_requests ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []models.AccessRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return requests, nil
}

// GetRequest 根据ID获取访问申请
func (s *PostgresStore) GetRequest(ctx context.Context, id string) (*models.AccessRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM access_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("request", id)
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &req, nil
}

// CreateRequest 创建访问申请
func (s *PostgresStore) CreateRequest(ctx context.Context, req *models.AccessRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO access_requests (id, app_id, app_name, reason, department, status, request_date, approved_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, req.ID, req.AppID, req.AppName, req.Reason, req.Department, req.Status, req.RequestDate, req.ApprovedDate)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// UpdateRequest 在事务中锁定行、应用修改并写回
func (s *PostgresStore) UpdateRequest(ctx context.Context, id string, mutate func(*models.AccessRequest) error) (*models.AccessRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM access_requests WHERE id = $1 FOR UPDATE`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("request", id)
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}

	if err := mutate(&req); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE access_requests
        SET status = $1, approved_date = $2, updated_at = NOW()
        WHERE id = $3
    `, req.Status, req.ApprovedDate, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit request update: %w", err)
	}
	return &req, nil
}

// HealthCheck 健康检查
func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 关闭连接
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Seed 在一个事务中写入初始应用和申请，已存在的行保持不变
func (s *PostgresStore) Seed(ctx context.Context, apps []models.App, requests []models.AccessRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, app := range apps {
		reviews, err := json.Marshal(app.Reviews)
		if err != nil {
			return fmt.Errorf("failed to encode reviews for %s: %w", app.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO apps (position, `+appColumns+`)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
            ON CONFLICT (id) DO NOTHING
        `, i, app.ID, app.Name, app.Description, app.LongDescription, app.Logo, app.Category,
			pq.Array(app.Department), app.Rating, app.UsageCount, reviews, pq.Array(app.Features),
			app.AccessStatus, app.Popularity, app.DateAdded, pq.Array(app.Tags))
		if err != nil {
			return fmt.Errorf("failed to seed app %s: %w", app.ID, err)
		}
	}

	for _, req := range requests {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO access_requests (`+requestColumns+`)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT (id) DO NOTHING
        `, req.ID, req.AppID, req.AppName, req.Reason, req.Department, req.Status, req.RequestDate, req.ApprovedDate)
		if err != nil {
			return fmt.Errorf("failed to seed request %s: %w", req.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	logger.Info("seed data written", zap.Int("apps", len(apps)), zap.Int("requests", len(requests)))
	return nil
}
