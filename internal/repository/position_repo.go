package repository

import (
	"context"
	"errors"
	"strings"

	"options-monitor/internal/dto"
	"options-monitor/internal/model"

	"gorm.io/gorm"
)

var ErrPositionNotFound = errors.New("position not found")

type PositionRepository interface {
	Get(ctx context.Context, param dto.GetPositionsParam) ([]model.Position, error)
	GetByID(ctx context.Context, id uint) (*model.Position, error)
	Create(ctx context.Context, position *model.Position) error
	Update(ctx context.Context, position *model.Position) error
	UpdateColumns(ctx context.Context, id uint, values map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Get(ctx context.Context, param dto.GetPositionsParam) ([]model.Position, error) {
	var positions []model.Position

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if len(param.IDs) > 0 {
		qFilter = append(qFilter, "id IN (?)")
		qFilterParam = append(qFilterParam, param.IDs)
	}

	if len(param.Tickers) > 0 {
		qFilter = append(qFilter, "ticker IN (?)")
		qFilterParam = append(qFilterParam, param.Tickers)
	}

	if param.Enabled != nil {
		qFilter = append(qFilter, "enabled = ?")
		qFilterParam = append(qFilterParam, *param.Enabled)
	}

	query := r.db.WithContext(ctx).Order("id")
	if len(qFilter) > 0 {
		query = query.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}

	if err := query.Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (r *positionRepository) GetByID(ctx context.Context, id uint) (*model.Position, error) {
	var position model.Position
	if err := r.db.WithContext(ctx).First(&position, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	return &position, nil
}

func (r *positionRepository) Create(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *positionRepository) Update(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).Save(position).Error
}

func (r *positionRepository) UpdateColumns(ctx context.Context, id uint, values map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Position{}).Where("id = ?", id).Updates(values).Error
}

func (r *positionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Position{}, id).Error
}
