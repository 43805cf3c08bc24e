package repository

import (
	"raffler/application"
	"raffler/database"
	"raffler/domain/interfaces"
)

// NewTestUnitOfWorkFactory creates a unit of work factory for tests.
// Tests should provide their own transactional publisher mock.
func NewTestUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return NewUnitOfWorkFactory(db)
}

// CreateTestUnitOfWork creates a unit of work for testing with the provided
// transactional publisher
func CreateTestUnitOfWork(db *database.DB, transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	factory := NewTestUnitOfWorkFactory(db)
	return factory.CreateWithPublisher(transactionalPublisher)
}
