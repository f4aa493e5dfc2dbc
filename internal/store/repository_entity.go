package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

// entityRepository is the PostgreSQL-backed implementation of
// [EntityRepository]. Links and collections share the "entities" table and
// are told apart by the entity_kind column; attributes are stored as jsonb.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (user_id, entity_kind, entity_id).
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] backed by the
// provided database connection and logger.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	logger.Debug().Msg("creating entity repository")
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (models.Entity, error) {
	var (
		e          models.Entity
		attributes []byte
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(&e.ID, &e.UserID, &attributes, &createdAt, &updatedAt); err != nil {
		return models.Entity{}, err
	}
	e.Attributes = attributes
	e.CreatedAt = &createdAt
	e.UpdatedAt = &updatedAt
	return e, nil
}

func (r *entityRepository) ListEntities(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListEntitiesQuery(userID, kind)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.ListEntities").Msg("failed to create query")
		return nil, err
	}

	var entities []models.Entity
	err = r.withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		entities = make([]models.Entity, 0, 50)
		for rows.Next() {
			e, scanErr := scanEntity(rows)
			if scanErr != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
			}
			entities = append(entities, e)
		}

		if rowsErr := rows.Err(); rowsErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.ListEntities").
			Str("user_id", userID).
			Str("entity_kind", kind.String()).
			Msg("failed to list entities")
		return nil, err
	}

	return entities, nil
}

func (r *entityRepository) GetEntity(ctx context.Context, userID string, kind models.EntityKind, id string) (models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetEntityQuery(userID, kind, id)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.GetEntity").Msg("failed to create query")
		return models.Entity{}, err
	}

	entity, err := scanEntity(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, ErrEntityNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.GetEntity").
			Str("user_id", userID).
			Str("entity_id", id).
			Msg("failed to get entity")
		return models.Entity{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entity, nil
}

func (r *entityRepository) CreateEntity(ctx context.Context, kind models.EntityKind, entity models.Entity) (models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertEntityQuery(kind, entity)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.CreateEntity").Msg("failed to create query")
		return models.Entity{}, err
	}

	var createdAt, updatedAt time.Time
	err = r.withRetry(ctx, func(ctx context.Context) error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.CreateEntity").
			Str("user_id", entity.UserID).
			Str("entity_kind", kind.String()).
			Str("entity_id", entity.ID).
			Msg("failed to insert entity")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Entity{}, ErrEntityAlreadyExists
		default:
			return models.Entity{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	entity.CreatedAt = &createdAt
	entity.UpdatedAt = &updatedAt
	entity.Pending = false

	return entity, nil
}

func (r *entityRepository) UpdateEntity(ctx context.Context, kind models.EntityKind, entity models.Entity) (models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateEntityQuery(kind, entity)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.UpdateEntity").Msg("failed to create query")
		return models.Entity{}, err
	}

	var updated models.Entity
	err = r.withRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		updated, scanErr = scanEntity(r.DB.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, ErrEntityNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.UpdateEntity").
			Str("user_id", entity.UserID).
			Str("entity_kind", kind.String()).
			Str("entity_id", entity.ID).
			Msg("failed to update entity")
		return models.Entity{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return updated, nil
}

func (r *entityRepository) DeleteEntity(ctx context.Context, userID string, kind models.EntityKind, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteEntityQuery(userID, kind, id)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.DeleteEntity").Msg("failed to create query")
		return err
	}

	var affected int64
	err = r.withRetry(ctx, func(ctx context.Context) error {
		res, err := r.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.DeleteEntity").
			Str("user_id", userID).
			Str("entity_kind", kind.String()).
			Str("entity_id", id).
			Msg("failed to delete entity")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		return ErrEntityNotFound
	}

	return nil
}

func (r *entityRepository) CountLinksInCollection(ctx context.Context, userID string, collectionID string) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountLinksInCollectionQuery(userID, collectionID)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.CountLinksInCollection").Msg("failed to create query")
		return 0, err
	}

	var count int
	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "entityRepository.CountLinksInCollection").
			Str("user_id", userID).
			Str("collection_id", collectionID).
			Msg("failed to count links in collection")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}
