package book

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrTitleDuplicate 书名已存在(不区分大小写)
	ErrTitleDuplicate = apperrors.New(apperrors.ErrCodeTitleDuplicate, "书名已存在")

	// ErrInvalidTitle 书名不合法
	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空且不超过100个字符")

	// ErrInvalidAuthor 作者不合法
	ErrInvalidAuthor = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空且不超过100个字符")
)
