package postgres

import (
	"context"
	"database/sql"

	"triphoto/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) RoomRepo() port.RoomRepository {
	if u.tx != nil {
		return NewSQLRoomRepository(u.tx)
	}
	return NewSQLRoomRepository(u.db)
}

func (u *sqlUnitOfWork) PhotoRepo() port.PhotoRepository {
	if u.tx != nil {
		return NewSQLPhotoRepository(u.tx)
	}
	return NewSQLPhotoRepository(u.db)
}

func (u *sqlUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	if u.tx != nil {
		return NewSQLUploadSessionRepository(u.tx)
	}
	return NewSQLUploadSessionRepository(u.db)
}

func (u *sqlUnitOfWork) UploadLogRepo() port.UploadLogRepository {
	if u.tx != nil {
		return NewSQLUploadLogRepository(u.tx)
	}
	return NewSQLUploadLogRepository(u.db)
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
