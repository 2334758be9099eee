package repository

import (
	"context"
	"fmt"
	"time"

	"HLTVSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository 赛事选手/战队数据仓储，自然键为 (event_id, 名称)
type StatsRepository interface {
	UpsertPlayerStats(ctx context.Context, eventID uint64, stats []model.ScrapedPlayerStat) (model.ReconcileResult, error)
	UpsertTeamStats(ctx context.Context, eventID uint64, stats []model.ScrapedTeamStat) (model.ReconcileResult, error)
	// SaveTeamAggregates 写入由比赛重算出的战队汇总（冲突即覆盖）
	SaveTeamAggregates(ctx context.Context, eventID uint64, aggs []model.TeamAggregate) error
	TopPlayers(ctx context.Context, eventID uint64, limit int) ([]*model.EventPlayerStat, error)
	TopTeams(ctx context.Context, eventID uint64, limit int) ([]*model.EventTeamStat, error)
	ListTeamStats(ctx context.Context, eventID uint64) ([]*model.EventTeamStat, error)
	UpdateTeamLogo(ctx context.Context, id uint64, logo string) error
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) UpsertPlayerStats(ctx context.Context, eventID uint64, stats []model.ScrapedPlayerStat) (model.ReconcileResult, error) {
	var res model.ReconcileResult
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		for i := range stats {
			sc := &stats[i]
			var row model.EventPlayerStat
			if err := tx.Where("event_id = ? AND player_name = ?", eventID, sc.PlayerName).Limit(1).Find(&row).Error; err != nil {
				return fmt.Errorf("查询选手数据失败: %w, player: %s", err, sc.PlayerName)
			}
			isNew := row.ID == 0
			row.EventID = eventID
			row.PlayerName = sc.PlayerName
			row.TeamName = sc.TeamName
			row.Kills = sc.Kills
			row.Deaths = sc.Deaths
			row.Rating = sc.Rating
			row.HSPercent = sc.HSPercent
			row.KDRatio = sc.KDRatio
			row.MapsPlayed = sc.MapsPlayed
			if err := saveRow(tx, &row, isNew); err != nil {
				return fmt.Errorf("保存选手数据失败: %w, player: %s", err, sc.PlayerName)
			}
			if isNew {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return model.ReconcileResult{}, err
	}
	return res, nil
}

func (r *statsRepository) UpsertTeamStats(ctx context.Context, eventID uint64, stats []model.ScrapedTeamStat) (model.ReconcileResult, error) {
	var res model.ReconcileResult
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		for i := range stats {
			sc := &stats[i]
			var row model.EventTeamStat
			if err := tx.Where("event_id = ? AND team_name = ?", eventID, sc.TeamName).Limit(1).Find(&row).Error; err != nil {
				return fmt.Errorf("查询战队数据失败: %w, team: %s", err, sc.TeamName)
			}
			isNew := row.ID == 0
			row.EventID = eventID
			row.TeamName = sc.TeamName
			row.TeamLogo = sc.TeamLogo
			row.Wins = sc.Wins
			row.Losses = sc.Losses
			row.WinRate = sc.WinRate
			row.MapsPlayed = sc.MapsPlayed
			if err := saveRow(tx, &row, isNew); err != nil {
				return fmt.Errorf("保存战队数据失败: %w, team: %s", err, sc.TeamName)
			}
			if isNew {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return model.ReconcileResult{}, err
	}
	return res, nil
}

func saveRow(tx *gorm.DB, row interface{}, isNew bool) error {
	if isNew {
		return tx.Create(row).Error
	}
	return tx.Save(row).Error
}

func (r *statsRepository) SaveTeamAggregates(ctx context.Context, eventID uint64, aggs []model.TeamAggregate) error {
	if len(aggs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]*model.EventTeamStat, 0, len(aggs))
	for _, a := range aggs {
		wins, losses, maps := a.Wins, a.Losses, a.MapsPlayed
		rows = append(rows, &model.EventTeamStat{
			EventID:    eventID,
			TeamName:   a.TeamName,
			TeamLogo:   a.TeamLogo,
			Wins:       &wins,
			Losses:     &losses,
			WinRate:    a.WinRate,
			MapsPlayed: &maps,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "team_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"team_logo", "wins", "losses", "win_rate", "maps_played", "updated_at"}),
		}).Create(&rows).Error; err != nil {
			return fmt.Errorf("写入战队汇总失败: %w, event_id: %d", err, eventID)
		}
		return nil
	})
}

func (r *statsRepository) TopPlayers(ctx context.Context, eventID uint64, limit int) ([]*model.EventPlayerStat, error) {
	var list []*model.EventPlayerStat
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("rating DESC NULLS LAST").Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *statsRepository) TopTeams(ctx context.Context, eventID uint64, limit int) ([]*model.EventTeamStat, error) {
	var list []*model.EventTeamStat
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("win_rate DESC NULLS LAST").Order("wins DESC NULLS LAST").Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *statsRepository) ListTeamStats(ctx context.Context, eventID uint64) ([]*model.EventTeamStat, error) {
	var list []*model.EventTeamStat
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *statsRepository) UpdateTeamLogo(ctx context.Context, id uint64, logo string) error {
	return r.db.WithContext(ctx).Model(&model.EventTeamStat{}).Where("id = ?", id).Update("team_logo", logo).Error
}
