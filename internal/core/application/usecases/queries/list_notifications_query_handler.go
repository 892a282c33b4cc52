package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"orderhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewListNotificationsQueryHandler(db *gorm.DB) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{db: db}
}

func (h ListNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListNotificationsQuery,
) ([]ListNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stmt := h.db.WithContext(ctx).
		Table("notifications").
		Select("id, type, title, message, data, action_url, icon, priority, read_at, created_at").
		Where("user_id = ?", query.UserID().Raw())
	if query.UnreadOnly() {
		stmt = stmt.Where("read_at IS NULL")
	}

	rows, err := stmt.Order("created_at DESC, id").Limit(query.Limit()).Offset(query.Offset()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ListNotificationsQueryResponse, 0)
	for rows.Next() {
		var resp ListNotificationsQueryResponse
		var id uuid.UUID
		var data []byte
		var readAt sql.NullTime
		var createdAt time.Time

		if err = rows.Scan(&id, &resp.Type, &resp.Title, &resp.Message, &data,
			&resp.ActionURL, &resp.Icon, &resp.Priority, &readAt, &createdAt); err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromRaw(id); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err = json.Unmarshal(data, &resp.Data); err != nil {
				return nil, err
			}
		}
		if readAt.Valid {
			t := readAt.Time.UTC()
			resp.ReadAt = &t
		}
		resp.CreatedAt = createdAt.UTC()

		result = append(result, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

type UnreadCountQueryHandler struct {
	db *gorm.DB
}

func NewUnreadCountQueryHandler(db *gorm.DB) UnreadCountQueryHandler {
	return UnreadCountQueryHandler{db: db}
}

func (h UnreadCountQueryHandler) Handle(ctx context.Context, query UnreadCountQuery) (int, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := h.db.WithContext(ctx).
		Table("notifications").
		Where("user_id = ? AND read_at IS NULL", query.UserID().Raw()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}
