package repository

import (
	"context"
	"fmt"

	"HLTVSync/internal/model"

	"gorm.io/gorm"
)

// MatchRepository 比赛仓储
type MatchRepository interface {
	// UpsertMatches 按 external_id 对齐写入某赛事的比赛，整批一个事务
	UpsertMatches(ctx context.Context, eventID uint64, matches []model.ScrapedMatch) (model.ReconcileResult, error)
	// ListByEvent 按比赛时间倒序（无时间的排最后）
	ListByEvent(ctx context.Context, eventID uint64, limit int) ([]*model.Match, error)
	// ListFinishedByEvent 已完赛且双方比分齐全，按时间正序，供战队数据重算
	ListFinishedByEvent(ctx context.Context, eventID uint64) ([]*model.Match, error)
	ListAllByEvent(ctx context.Context, eventID uint64) ([]*model.Match, error)
	UpdateLogos(ctx context.Context, id uint64, team1Logo, team2Logo *string) error
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) UpsertMatches(ctx context.Context, eventID uint64, matches []model.ScrapedMatch) (model.ReconcileResult, error) {
	var res model.ReconcileResult
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		for i := range matches {
			sc := &matches[i]
			var existing model.Match
			if err := tx.Where("external_id = ?", sc.ExternalID).Limit(1).Find(&existing).Error; err != nil {
				return fmt.Errorf("查询Match失败: %w, external_id: %s", err, sc.ExternalID)
			}
			if existing.ID != 0 {
				applyScrapedMatch(&existing, sc)
				if err := tx.Save(&existing).Error; err != nil {
					return fmt.Errorf("更新Match失败: %w, external_id: %s", err, sc.ExternalID)
				}
				res.Updated++
				continue
			}
			m := &model.Match{ExternalID: sc.ExternalID, EventID: eventID}
			applyScrapedMatch(m, sc)
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("保存Match失败: %w, external_id: %s", err, sc.ExternalID)
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

func applyScrapedMatch(m *model.Match, sc *model.ScrapedMatch) {
	m.Team1Name = sc.Team1Name
	m.Team1Logo = sc.Team1Logo
	m.Team2Name = sc.Team2Name
	m.Team2Logo = sc.Team2Logo
	m.Team1Score = sc.Team1Score
	m.Team2Score = sc.Team2Score
	m.Date = utcPtr(sc.Date)
	m.Map = sc.Map
	m.Status = sc.Status()
}

func (r *matchRepository) ListByEvent(ctx context.Context, eventID uint64, limit int) ([]*model.Match, error) {
	var list []*model.Match
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("date DESC NULLS LAST").Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *matchRepository) ListFinishedByEvent(ctx context.Context, eventID uint64) ([]*model.Match, error) {
	var list []*model.Match
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, model.MatchStatusFinished).
		Where("team1_score IS NOT NULL AND team2_score IS NOT NULL").
		Order("date ASC NULLS FIRST").Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *matchRepository) ListAllByEvent(ctx context.Context, eventID uint64) ([]*model.Match, error) {
	var list []*model.Match
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *matchRepository) UpdateLogos(ctx context.Context, id uint64, team1Logo, team2Logo *string) error {
	return r.db.WithContext(ctx).Model(&model.Match{}).Where("id = ?", id).
		Updates(map[string]interface{}{"team1_logo": team1Logo, "team2_logo": team2Logo}).Error
}
