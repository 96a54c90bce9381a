package implementation

import (
	"context"
	"errors"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/mapper"
	"auth-chat-be/internal/model"
	"auth-chat-be/internal/repository/contract"
	"auth-chat-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.UserToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.UserToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.UserToModel(user)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.UserToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserToEntity(&m), nil
}

func (r *UserRepositoryImpl) SaveAccount(ctx context.Context, account *entity.Account) error {
	m := r.mapper.AccountToModel(account)
	// Re-linking the same provider identity just refreshes the tokens.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "providerAccountId"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (r *UserRepositoryImpl) FindAccount(ctx context.Context, specs ...specification.Specification) (*entity.Account, error) {
	var m model.Account
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AccountToEntity(&m), nil
}

func (r *UserRepositoryImpl) CreateVerificationToken(ctx context.Context, token *entity.VerificationToken) error {
	m := r.mapper.VerificationTokenToModel(token)
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *UserRepositoryImpl) FindVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.VerificationToken, error) {
	var m model.VerificationToken
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.VerificationTokenToEntity(&m), nil
}

func (r *UserRepositoryImpl) DeleteVerificationToken(ctx context.Context, identifier, token string) error {
	return r.db.WithContext(ctx).
		Where("identifier = ? AND token = ?", identifier, token).
		Delete(&model.VerificationToken{}).Error
}
