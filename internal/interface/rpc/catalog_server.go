package rpc

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// CatalogServer gRPC接口层,与HTTP的BookHandler共用同一组用例
type CatalogServer struct {
	listBooksUseCase   *appbook.ListBooksUseCase
	getBookUseCase     *appbook.GetBookUseCase
	createBookUseCase  *appbook.CreateBookUseCase
	replaceBookUseCase *appbook.ReplaceBookUseCase
	patchBookUseCase   *appbook.PatchBookUseCase
	deleteBookUseCase  *appbook.DeleteBookUseCase
	log                *zap.Logger
}

// NewCatalogServer 创建gRPC服务实现
func NewCatalogServer(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	replaceBookUseCase *appbook.ReplaceBookUseCase,
	patchBookUseCase *appbook.PatchBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	log *zap.Logger,
) *CatalogServer {
	return &CatalogServer{
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		createBookUseCase:  createBookUseCase,
		replaceBookUseCase: replaceBookUseCase,
		patchBookUseCase:   patchBookUseCase,
		deleteBookUseCase:  deleteBookUseCase,
		log:                log,
	}
}

var _ BookCatalogServer = (*CatalogServer)(nil)

// ListBooks 请求: {author?, skip?, limit?}  响应: {items, total}
func (s *CatalogServer) ListBooks(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := listRequest(in)
	if err != nil {
		return nil, s.toStatus(err)
	}

	resp, err := s.listBooksUseCase.Execute(ctx, req)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return listStruct(resp), nil
}

// GetBook 请求: {id}
func (s *CatalogServer) GetBook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(in)
	if err != nil {
		return nil, s.toStatus(err)
	}

	resp, err := s.getBookUseCase.Execute(ctx, id)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return bookStruct(resp), nil
}

// CreateBook 请求: {title, author}
func (s *CatalogServer) CreateBook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	title, err := requiredString(in, "title")
	if err != nil {
		return nil, s.toStatus(err)
	}
	author, err := requiredString(in, "author")
	if err != nil {
		return nil, s.toStatus(err)
	}

	resp, err := s.createBookUseCase.Execute(ctx, appbook.CreateBookRequest{Title: title, Author: author})
	if err != nil {
		return nil, s.toStatus(err)
	}
	return bookStruct(resp), nil
}

// ReplaceBook 请求: {id, title, author}
func (s *CatalogServer) ReplaceBook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(in)
	if err != nil {
		return nil, s.toStatus(err)
	}

	title, err := requiredString(in, "title")
	if err != nil {
		return nil, s.invalidFor(ctx, id, err)
	}
	author, err := requiredString(in, "author")
	if err != nil {
		return nil, s.invalidFor(ctx, id, err)
	}

	resp, err := s.replaceBookUseCase.Execute(ctx, appbook.ReplaceBookRequest{
		ID:     id,
		Title:  title,
		Author: author,
	})
	if err != nil {
		return nil, s.toStatus(err)
	}
	return bookStruct(resp), nil
}

// PatchBook 请求: {id, title?, author?},未出现的字段保持不变
func (s *CatalogServer) PatchBook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(in)
	if err != nil {
		return nil, s.toStatus(err)
	}

	title, err := stringField(in, "title")
	if err != nil {
		return nil, s.invalidFor(ctx, id, err)
	}
	author, err := stringField(in, "author")
	if err != nil {
		return nil, s.invalidFor(ctx, id, err)
	}

	resp, err := s.patchBookUseCase.Execute(ctx, appbook.PatchBookRequest{
		ID:     id,
		Title:  title,
		Author: author,
	})
	if err != nil {
		return nil, s.toStatus(err)
	}
	return bookStruct(resp), nil
}

// DeleteBook 请求: {id}
func (s *CatalogServer) DeleteBook(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	id, err := idField(in)
	if err != nil {
		return nil, s.toStatus(err)
	}

	if err := s.deleteBookUseCase.Execute(ctx, id); err != nil {
		return nil, s.toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// invalidFor 请求字段不合法时,图书不存在优先返回NotFound
func (s *CatalogServer) invalidFor(ctx context.Context, id uint, fieldErr error) error {
	if _, err := s.getBookUseCase.Execute(ctx, id); err != nil {
		return s.toStatus(err)
	}
	return s.toStatus(fieldErr)
}

// toStatus 把业务错误映射为gRPC状态码
//
//	图书不存在   → NotFound
//	书名重复     → AlreadyExists
//	参数错误     → InvalidArgument(附带BadRequest字段说明)
//	其余         → Internal,不暴露内部原因
func (s *CatalogServer) toStatus(err error) error {
	var fe *fieldError
	if errors.As(err, &fe) {
		return invalidArgument("参数错误", fe.field, fe.desc)
	}

	switch {
	case errors.Is(err, book.ErrBookNotFound):
		return status.Error(codes.NotFound, book.ErrBookNotFound.Message)
	case errors.Is(err, book.ErrTitleDuplicate):
		return status.Error(codes.AlreadyExists, book.ErrTitleDuplicate.Message)
	case errors.Is(err, book.ErrInvalidTitle):
		return invalidArgument(book.ErrInvalidTitle.Message, "title", book.ErrInvalidTitle.Message)
	case errors.Is(err, book.ErrInvalidAuthor):
		return invalidArgument(book.ErrInvalidAuthor.Message, "author", book.ErrInvalidAuthor.Message)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && apperrors.HTTPStatus(appErr.Code) == 400 {
		return status.Error(codes.InvalidArgument, appErr.Message)
	}

	s.log.Error("gRPC请求处理失败", zap.Error(err))
	return status.Error(codes.Internal, apperrors.ErrInternal.Message)
}

func invalidArgument(message, field, desc string) error {
	st := status.New(codes.InvalidArgument, message)
	detailed, err := st.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: field, Description: desc},
		},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
