package store

import (
	"context"

	"go.uber.org/zap"
)

// Open returns the backend selected by driver. For "mongo" dsn is the
// connection URI and database the database name. SQL backends log through zl.
func Open(ctx context.Context, driver, dsn, database string, zl *zap.Logger) (Store, error) {
	if driver == "mongo" {
		s, err := OpenMongo(ctx, dsn, database)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := OpenGorm(driver, dsn, zl)
	if err != nil {
		return nil, err
	}
	return s, nil
}
