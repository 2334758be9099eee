package repository

import (
	"context"
	"fmt"

	"HLTVSync/internal/model"

	"gorm.io/gorm"
)

type HighlightRepository interface {
	// ReplaceForEvent 删除赛事全部集锦后批量插入；highlights 为空时不做任何修改
	ReplaceForEvent(ctx context.Context, eventID uint64, highlights []model.ScrapedHighlight) (deleted int64, err error)
	// TopByViews 按播放量倒序（无播放量的排最后）
	TopByViews(ctx context.Context, eventID uint64, limit int) ([]*model.EventHighlight, error)
}

type highlightRepository struct {
	db *gorm.DB
}

func NewHighlightRepository(db *gorm.DB) HighlightRepository {
	return &highlightRepository{db: db}
}

func (r *highlightRepository) ReplaceForEvent(ctx context.Context, eventID uint64, highlights []model.ScrapedHighlight) (int64, error) {
	if len(highlights) == 0 {
		return 0, nil
	}
	rows := make([]*model.EventHighlight, 0, len(highlights))
	for _, h := range highlights {
		platform := h.Platform
		if platform == "" {
			platform = model.DefaultHighlightPlatform
		}
		rows = append(rows, &model.EventHighlight{
			EventID:     eventID,
			Title:       h.Title,
			URL:         h.URL,
			EmbedURL:    h.EmbedURL,
			Thumbnail:   h.Thumbnail,
			VideoID:     h.VideoID,
			Duration:    h.Duration,
			Platform:    platform,
			ViewCount:   h.ViewCount,
			HighlightID: h.HighlightID,
		})
	}

	var deleted int64
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Where("event_id = ?", eventID).Delete(&model.EventHighlight{})
		if result.Error != nil {
			return fmt.Errorf("删除旧集锦失败: %w, event_id: %d", result.Error, eventID)
		}
		deleted = result.RowsAffected
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("写入集锦失败: %w, event_id: %d", err, eventID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *highlightRepository) TopByViews(ctx context.Context, eventID uint64, limit int) ([]*model.EventHighlight, error) {
	var list []*model.EventHighlight
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("view_count DESC NULLS LAST").Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
