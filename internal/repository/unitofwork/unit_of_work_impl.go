package unitofwork

import (
	"context"
	"fmt"

	"shopquery-be/internal/repository/contract"
	"shopquery-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil when operating outside one
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionRepository() contract.SessionRepository {
	return implementation.NewSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SearchHistoryRepository() contract.SearchHistoryRepository {
	return implementation.NewSearchHistoryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UserEventRepository() contract.UserEventRepository {
	return implementation.NewUserEventRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FavoriteRepository() contract.FavoriteRepository {
	return implementation.NewFavoriteRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ComparisonSessionRepository() contract.ComparisonSessionRepository {
	return implementation.NewComparisonSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ComparisonProductRepository() contract.ComparisonProductRepository {
	return implementation.NewComparisonProductRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatMessageRepository() contract.ChatMessageRepository {
	return implementation.NewChatMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ProductRepository() contract.ProductRepository {
	return implementation.NewProductRepository(u.getDB())
}
