package implementation

import (
	"context"
	"errors"
	"time"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/mapper"
	"auth-chat-be/internal/model"
	"auth-chat-be/internal/repository/contract"
	"auth-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.SessionToModel(session)
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where(`"sessionToken" = ?`, token).
		Delete(&model.Session{}).Error
}

func (r *SessionRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where(`"userId" = ?`, userId).
		Delete(&model.Session{}).Error
}

func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires <= ?", now).
		Delete(&model.Session{}).Error
}
