package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase   *appbook.ListBooksUseCase
	getBookUseCase     *appbook.GetBookUseCase
	createBookUseCase  *appbook.CreateBookUseCase
	replaceBookUseCase *appbook.ReplaceBookUseCase
	patchBookUseCase   *appbook.PatchBookUseCase
	deleteBookUseCase  *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	replaceBookUseCase *appbook.ReplaceBookUseCase,
	patchBookUseCase *appbook.PatchBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		createBookUseCase:  createBookUseCase,
		replaceBookUseCase: replaceBookUseCase,
		patchBookUseCase:   patchBookUseCase,
		deleteBookUseCase:  deleteBookUseCase,
	}
}

// RegisterRoutes 注册/books路由
func (h *BookHandler) RegisterRoutes(r gin.IRouter) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.POST("", h.CreateBook)
		books.GET("/:id", h.GetBook)
		books.PUT("/:id", h.ReplaceBook)
		books.PATCH("/:id", h.PatchBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  按作者过滤(子串,不区分大小写)后分页,total为过滤后的总数
// @Tags         图书
// @Produce      json
// @Param        author query string false "作者关键字"
// @Param        skip   query int    false "跳过条数" minimum(0) default(0)
// @Param        limit  query int    false "返回条数" minimum(1) maximum(50) default(10)
// @Success      200 {object} response.Response{data=dto.ListBooksResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var query dto.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), query.ToUseCase())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewListBooksResponse(result))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewBookResponse(result))
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  书名不区分大小写唯一
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误或书名已存在"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewBookResponse(result))
}

// ReplaceBook 整体更新图书
// @Summary      整体更新图书
// @Description  书名和作者都必填;图书不存在时总是返回404
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int                    true "图书ID"
// @Param        request body dto.ReplaceBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误或书名已存在"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [put]
func (h *BookHandler) ReplaceBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ReplaceBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, id, err)
		return
	}

	result, err := h.replaceBookUseCase.Execute(c.Request.Context(), appbook.ReplaceBookRequest{
		ID:     id,
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewBookResponse(result))
}

// PatchBook 部分更新图书
// @Summary      部分更新图书
// @Description  只修改请求中出现的字段;两个字段都不出现时原样返回
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int                  true "图书ID"
// @Param        request body dto.PatchBookRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误或书名已存在"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [patch]
func (h *BookHandler) PatchBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.PatchBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, id, err)
		return
	}

	result, err := h.patchBookUseCase.Execute(c.Request.Context(), req.ToUseCase(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewBookResponse(result))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Param        id path int true "图书ID"
// @Success      204 "删除成功"
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// bindFailed 请求体解析失败:图书不存在时返回404,否则返回参数错误
func (h *BookHandler) bindFailed(c *gin.Context, id uint, bindErr error) {
	if _, err := h.getBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+bindErr.Error())
}

// parseID 解析路径中的图书ID,失败时直接写400响应
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return 0, false
	}
	return uint(id), true
}
