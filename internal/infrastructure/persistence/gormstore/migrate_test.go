package gormstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// newMockMySQL gorm(mysql方言)接到sqlmock上,不需要真实的MySQL
func newMockMySQL(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestBinaryTitleKey_MySQL(t *testing.T) {
	db, mock := newMockMySQL(t)

	mock.ExpectExec(regexp.QuoteMeta(titleKeyDDL)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, binaryTitleKey(db))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, titleKeyDDL, "COLLATE utf8mb4_bin")
}

func TestBinaryTitleKey_Error(t *testing.T) {
	db, mock := newMockMySQL(t)

	mock.ExpectExec(regexp.QuoteMeta(titleKeyDDL)).
		WillReturnError(errors.New("ALTER command denied"))

	err := binaryTitleKey(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALTER command denied")
}

// 小写后字节不同的书名在数据库层也不能冲突
func TestBookStore_AccentVariantsAreDistinct(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pairs := [][2]string{
		{"Cafe", "Café"},
		{"Strasse", "Straße"},
	}
	for _, p := range pairs {
		_, err := store.Insert(ctx, p[0], "Author")
		require.NoError(t, err)
		_, err = store.Insert(ctx, p[1], "Author")
		require.NoError(t, err, "%s 和 %s 不应冲突", p[0], p[1])
	}

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCatalog_ConcurrentCreateSameTitle_SQLite(t *testing.T) {
	catalog := book.NewCatalog(setupTestStore(t))

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		errs      []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := "Race"
			if i%2 == 1 {
				title = "RACE"
			}
			_, err := catalog.Create(context.Background(), title, fmt.Sprintf("author-%d", i))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else {
				errs = append(errs, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	for _, err := range errs {
		assert.ErrorIs(t, err, book.ErrTitleDuplicate)
	}

	items, total, err := catalog.List(context.Background(), book.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}
