package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-link-keeper/models"
)

const entitiesTable = "entities"

var entityColumns = []string{"id", "user_id", "attributes", "created_at", "updated_at"}

// psql builds Postgres queries with $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildListEntitiesQuery(userID string, kind models.EntityKind) (string, []any, error) {
	query, args, err := psql.
		Select(entityColumns...).
		From(entitiesTable).
		Where("user_id = ? AND entity_kind = ?", userID, kind.String()).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildGetEntityQuery(userID string, kind models.EntityKind, id string) (string, []any, error) {
	query, args, err := psql.
		Select(entityColumns...).
		From(entitiesTable).
		Where("id = ? AND user_id = ? AND entity_kind = ?", id, userID, kind.String()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertEntityQuery(kind models.EntityKind, entity models.Entity) (string, []any, error) {
	query, args, err := psql.
		Insert(entitiesTable).
		Columns("id", "user_id", "entity_kind", "attributes").
		Values(entity.ID, entity.UserID, kind.String(), []byte(entity.Attributes)).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateEntityQuery(kind models.EntityKind, entity models.Entity) (string, []any, error) {
	query, args, err := psql.
		Update(entitiesTable).
		Set("attributes", []byte(entity.Attributes)).
		Set("updated_at", sq.Expr("now()")).
		Where("id = ? AND user_id = ? AND entity_kind = ?", entity.ID, entity.UserID, kind.String()).
		Suffix("RETURNING id, user_id, attributes, created_at, updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteEntityQuery(userID string, kind models.EntityKind, id string) (string, []any, error) {
	query, args, err := psql.
		Delete(entitiesTable).
		Where("id = ? AND user_id = ? AND entity_kind = ?", id, userID, kind.String()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountLinksInCollectionQuery(userID, collectionID string) (string, []any, error) {
	query, args, err := psql.
		Select("count(*)").
		From(entitiesTable).
		Where("user_id = ? AND entity_kind = ?", userID, models.EntityKindLinks.String()).
		Where("attributes ->> 'collection_id' = ?", collectionID).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
