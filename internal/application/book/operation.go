package book

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "book-usecase"

// 操作名称,同时用作Span名和指标标签
const (
	opList    = "list"
	opGet     = "get"
	opCreate  = "create"
	opReplace = "replace"
	opPatch   = "patch"
	opDelete  = "delete"
)

// operation 一次用例执行的观测信息(Span + 耗时)
type operation struct {
	name  string
	span  trace.Span
	start time.Time
}

func startOperation(ctx context.Context, name, spanName string) (context.Context, *operation) {
	ctx, span := tracing.StartSpan(ctx, tracerName, spanName)
	return ctx, &operation{name: name, span: span, start: time.Now()}
}

// finish 记录指标并结束Span
func (op *operation) finish(err error) {
	metrics.ObserveBookOperation(op.name, resultOf(err), time.Since(op.start).Seconds())
	tracing.EndSpan(op.span, err)
}

// resultOf 把错误归类为指标的result标签
func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, book.ErrBookNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, book.ErrTitleDuplicate):
		return metrics.ResultConflict
	case apperrors.GetAppError(err).Code == apperrors.ErrCodeInvalidParams:
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

// ensureExists 入参校验失败时先确认图书存在,不存在时返回ErrBookNotFound
// 对未知ID的写操作总是返回NotFound,与请求体是否合法无关
func ensureExists(ctx context.Context, catalog book.Catalog, id uint, invalid error) error {
	if _, err := catalog.Get(ctx, id); err != nil {
		return err
	}
	return invalid
}
