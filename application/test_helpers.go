package application

// TestUnitOfWorkFactory creates unit of work instances from a fixed
// constructor, letting tests inject an in-memory or containerized backend
type TestUnitOfWorkFactory struct {
	NewUnitOfWork func() UnitOfWork
}

// Create returns a fresh UnitOfWork for each call to avoid transaction
// state bleeding between uses
func (f *TestUnitOfWorkFactory) Create() UnitOfWork {
	return f.NewUnitOfWork()
}

var _ UnitOfWorkFactory = (*TestUnitOfWorkFactory)(nil)
