package gormstore

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// dbError 驱动错误统一成数据库错误码,原始错误只进日志
func dbError(err error, op string) error {
	return apperrors.ErrDatabaseError.WithDetail(fmt.Errorf("%s: %w", op, err))
}

// isDuplicateError 判断是否为唯一索引冲突错误
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - SQLite: UNIQUE constraint failed: books.title_key
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// TranslateError开启后驱动会翻译成gorm.ErrDuplicatedKey
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
