package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HLTVSync/internal/model"

	"gorm.io/gorm"
)

// EventRepository 赛事仓储
type EventRepository interface {
	// UpsertEvents 按 external_id 对齐：存在则覆盖抓取字段，不存在则以 upcoming 新建；整批一个事务
	UpsertEvents(ctx context.Context, events []model.ScrapedEvent) (model.ReconcileResult, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.Event, error)
	// GetByKey 先按 external_id 再按 slug 查找
	GetByKey(ctx context.Context, key string) (*model.Event, error)
	List(ctx context.Context, status string, limit int) ([]*model.Event, error)
	ListByStatuses(ctx context.Context, statuses []string) ([]*model.Event, error)
	ListWithEndDate(ctx context.Context) ([]*model.Event, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) UpsertEvents(ctx context.Context, events []model.ScrapedEvent) (model.ReconcileResult, error) {
	var res model.ReconcileResult
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		for i := range events {
			sc := &events[i]
			var existing model.Event
			err := tx.Where("external_id = ?", sc.ExternalID).Limit(1).Find(&existing).Error
			if err != nil {
				return fmt.Errorf("查询Event失败: %w, external_id: %s", err, sc.ExternalID)
			}
			if existing.ID != 0 {
				applyScrapedEvent(&existing, sc)
				if err := tx.Save(&existing).Error; err != nil {
					return fmt.Errorf("更新Event失败: %w, external_id: %s", err, sc.ExternalID)
				}
				res.Updated++
				continue
			}
			ev := &model.Event{ExternalID: sc.ExternalID, Status: model.EventStatusUpcoming}
			applyScrapedEvent(ev, sc)
			if err := tx.Create(ev).Error; err != nil {
				return fmt.Errorf("保存Event失败: %w, external_id: %s", err, sc.ExternalID)
			}
			res.Created++
		}
		return nil
	})
	if err != nil {
		return model.ReconcileResult{}, err
	}
	return res, nil
}

// applyScrapedEvent 覆盖所有抓取字段（空值同样覆盖），不动 status
func applyScrapedEvent(ev *model.Event, sc *model.ScrapedEvent) {
	ev.Slug = sc.Slug
	ev.Name = sc.Slug
	if sc.Name != nil {
		ev.Name = *sc.Name
	}
	ev.StartDate = utcPtr(sc.StartDate)
	ev.EndDate = utcPtr(sc.EndDate)
	ev.Type = sc.Type
	ev.PrizePool = sc.PrizePool
	ev.Location = sc.Location
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	var ev model.Event
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Event, error) {
	var ev model.Event
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) GetByKey(ctx context.Context, key string) (*model.Event, error) {
	ev, err := r.GetByExternalID(ctx, key)
	if err == nil {
		return ev, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return r.GetBySlug(ctx, key)
}

// List status 为空时不过滤；按开始日期倒序，无日期的排最后
func (r *eventRepository) List(ctx context.Context, status string, limit int) ([]*model.Event, error) {
	db := r.db.WithContext(ctx).Model(&model.Event{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var list []*model.Event
	if err := db.Order("start_date DESC NULLS LAST").Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *eventRepository) ListByStatuses(ctx context.Context, statuses []string) ([]*model.Event, error) {
	var list []*model.Event
	if err := r.db.WithContext(ctx).Where("status IN ?", statuses).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *eventRepository) ListWithEndDate(ctx context.Context) ([]*model.Event, error) {
	var list []*model.Event
	if err := r.db.WithContext(ctx).Where("end_date IS NOT NULL").Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"status": status})
}

// UpdateFields 单事务更新指定列，找不到记录返回 gorm.ErrRecordNotFound
func (r *eventRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		fields["updated_at"] = time.Now().UTC()
		result := tx.Model(&model.Event{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return fmt.Errorf("更新Event失败: %w, id: %d", result.Error, id)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// withTx 事务执行 fn：出错或 panic 回滚，成功提交
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
