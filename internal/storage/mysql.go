package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smart-recruit/internal/config"
	"smart-recruit/internal/constants"
	"smart-recruit/internal/storage/models"
)

var mysqlTracer = otel.Tracer("smart-recruit/storage/mysql")

type gormSpanKey struct{}

// GormTracingPlugin adds OpenTelemetry spans around database operations.
type GormTracingPlugin struct {
	tracer         trace.Tracer
	dbName         string
	disableErrSkip bool
}

// Name returns the plugin name.
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize registers the before/after callbacks for every CRUD verb.
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}

	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}

	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}

	if err := cb.Row().Before("gorm:row").Register("otel:before_row", p.before("ROW")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("otel:after_row", p.after()); err != nil {
		return err
	}

	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW")); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after()); err != nil {
		return err
	}

	return nil
}

func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if p.disableErrSkip && db.Statement.SkipHooks {
			return
		}

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		spanName := fmt.Sprintf("%s %s", operation, tableName)
		opts := []trace.SpanStartOption{
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		}

		newCtx, span := p.tracer.Start(ctx, spanName, opts...)
		db.Statement.Context = context.WithValue(newCtx, gormSpanKey{}, span)
	}
}

func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(gormSpanKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		if db.Error != nil {
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				// Not-found is part of normal flow, not a span error.
				span.SetAttributes(attribute.String("error.type", "record_not_found"))
				span.SetStatus(codes.Ok, "record not found")
			} else {
				span.SetAttributes(attribute.String("error.type", "database_error"))
				span.RecordError(db.Error)
				span.SetStatus(codes.Error, db.Error.Error())
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// NewGormTracingPlugin creates the tracing plugin for the named database.
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer:         mysqlTracer,
		dbName:         dbName,
		disableErrSkip: true,
	}
}

// Database is the relational storage surface the rest of the service uses.
type Database interface {
	DB() *gorm.DB
	Close() error
}

var _ Database = (*MySQL)(nil)

// MySQL wraps the gorm connection and the domain queries built on it.
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL opens the connection, tunes the pool, registers tracing and
// migrates the schema.
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mysql config cannot be nil")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds)

	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	case 4:
		logLevel = logger.Info
	default:
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	m := &MySQL{
		db:  db,
		cfg: cfg,
	}

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
	}

	if err := m.autoMigrateSchema(); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return m, nil
}

func (m *MySQL) autoMigrateSchema() error {
	currentLogger := m.db.Logger

	// Migration output is noisy at SQL level, run it silent.
	silentLogger := logger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})

	err := silentDB.AutoMigrate(
		&models.Candidate{},
		&models.Job{},
		&models.Resume{},
		&models.Ranking{},
	)

	m.db = m.db.Session(&gorm.Session{Logger: currentLogger})

	if err != nil {
		return fmt.Errorf("gorm auto-migration failed: %w", err)
	}
	return nil
}

// DB returns the gorm handle for callers composing their own queries.
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close closes the underlying connection pool.
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// CreateResume inserts a new resume row. A missing ID is generated here.
func (m *MySQL) CreateResume(ctx context.Context, resume *models.Resume) error {
	if resume.ResumeID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate resume ID: %w", err)
		}
		resume.ResumeID = id.String()
	}
	if resume.ProcessingStatus == "" {
		resume.ProcessingStatus = constants.StatusPendingParse
	}
	return m.db.WithContext(ctx).Create(resume).Error
}

// GetResumeByID loads one resume row.
func (m *MySQL) GetResumeByID(ctx context.Context, resumeID string) (*models.Resume, error) {
	var resume models.Resume
	err := m.db.WithContext(ctx).First(&resume, "resume_id = ?", resumeID).Error
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// UpdateResumeProcessingStatus moves a resume to a new pipeline status.
// The error message is cleared unless the status is FAILED.
func (m *MySQL) UpdateResumeProcessingStatus(ctx context.Context, resumeID, status, errMsg string) error {
	updates := map[string]interface{}{
		"processing_status": status,
		"processing_error":  "",
	}
	if status == constants.StatusFailed {
		updates["processing_error"] = errMsg
	}
	return m.db.WithContext(ctx).Model(&models.Resume{}).
		Where("resume_id = ?", resumeID).
		Updates(updates).Error
}

// UpdateResumeFields applies a partial update to one resume row.
func (m *MySQL) UpdateResumeFields(ctx context.Context, resumeID string, updates map[string]interface{}) error {
	return m.db.WithContext(ctx).Model(&models.Resume{}).
		Where("resume_id = ?", resumeID).
		Updates(updates).Error
}

// FindOrCreateCandidate reuses an existing candidate by email when one
// exists, otherwise creates a fresh record. Either way the stored profile is
// refreshed from the latest extraction.
func (m *MySQL) FindOrCreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if candidate.Email != "" {
			var existing models.Candidate
			err := tx.First(&existing, "email = ?", candidate.Email).Error
			if err == nil {
				candidate.CandidateID = existing.CandidateID
				candidate.CreatedAt = existing.CreatedAt
				return tx.Save(candidate).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if candidate.CandidateID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate candidate ID: %w", err)
			}
			candidate.CandidateID = id.String()
		}
		return tx.Create(candidate).Error
	})
}

// GetCandidateByID loads one candidate row.
func (m *MySQL) GetCandidateByID(ctx context.Context, candidateID string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := m.db.WithContext(ctx).First(&candidate, "candidate_id = ?", candidateID).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// ListCandidatesForJob returns the candidates whose resumes completed
// processing for the given job.
func (m *MySQL) ListCandidatesForJob(ctx context.Context, jobID string) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := m.db.WithContext(ctx).
		Joins("JOIN resumes ON resumes.candidate_id = candidates.candidate_id").
		Where("resumes.job_id = ? AND resumes.processing_status = ?", jobID, constants.StatusCompleted).
		Distinct("candidates.*").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// CreateJob inserts a new job row. A missing ID is generated here.
func (m *MySQL) CreateJob(ctx context.Context, job *models.Job) error {
	if job.JobID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate job ID: %w", err)
		}
		job.JobID = id.String()
	}
	return m.db.WithContext(ctx).Create(job).Error
}

// GetJobByID loads one job row.
func (m *MySQL) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	err := m.db.WithContext(ctx).First(&job, "job_id = ?", jobID).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ReplaceJobRankings atomically swaps a job's ranking rows for the results of
// a fresh run.
func (m *MySQL) ReplaceJobRankings(ctx context.Context, jobID string, rows []models.Ranking) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).Delete(&models.Ranking{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous rankings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("failed to insert rankings: %w", err)
		}
		return nil
	})
}

// GetJobRankings returns a job's ranking rows in rank order with candidates
// preloaded.
func (m *MySQL) GetJobRankings(ctx context.Context, jobID string) ([]models.Ranking, error) {
	var rows []models.Ranking
	err := m.db.WithContext(ctx).
		Preload("Candidate").
		Where("job_id = ?", jobID).
		Order("rank_position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAllRankingScores returns every stored (job, overall score) pair for
// analytics over the whole pool.
func (m *MySQL) ListAllRankingScores(ctx context.Context) (scores []float64, jobIDs []string, err error) {
	var rows []models.Ranking
	if err := m.db.WithContext(ctx).
		Select("job_id", "overall_score").
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	scores = make([]float64, 0, len(rows))
	jobIDs = make([]string, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, row.OverallScore)
		jobIDs = append(jobIDs, row.JobID)
	}
	return scores, jobIDs, nil
}
