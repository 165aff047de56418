package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRejectsEmptyURL(t *testing.T) {
	db, err := Connect(context.Background(), "")
	assert.Nil(t, db)
	assert.EqualError(t, err, "database URL cannot be empty")
}
