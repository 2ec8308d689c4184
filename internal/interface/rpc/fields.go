package rpc

import (
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// fieldError 请求字段类型或取值不合法,转换成BadRequest的FieldViolation
type fieldError struct {
	field string
	desc  string
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.desc
}

// idField 读取必填的id字段,必须是非负整数
func idField(in *structpb.Struct) (uint, error) {
	v, ok := in.GetFields()["id"]
	if !ok {
		return 0, &fieldError{field: "id", desc: "必填"}
	}
	n, ok := integer(v)
	if !ok || n < 0 {
		return 0, &fieldError{field: "id", desc: "必须是非负整数"}
	}
	return uint(n), nil
}

// intField 读取可选整数字段,未提供时返回ok=false
func intField(in *structpb.Struct, name string) (value int, ok bool, err error) {
	v, present := in.GetFields()[name]
	if !present {
		return 0, false, nil
	}
	n, isInt := integer(v)
	if !isInt {
		return 0, false, &fieldError{field: name, desc: "必须是整数"}
	}
	return int(n), true, nil
}

// stringField 读取字符串字段
// 未提供→None;显式null→Some(""),交给校验拒绝;其他类型→字段错误
func stringField(in *structpb.Struct, name string) (book.Optional[string], error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return book.None[string](), nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return book.Some(kind.StringValue), nil
	case *structpb.Value_NullValue:
		return book.Some(""), nil
	default:
		return book.None[string](), &fieldError{field: name, desc: "必须是字符串"}
	}
}

func integer(v *structpb.Value) (int64, bool) {
	kind, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	n := kind.NumberValue
	if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return int64(n), true
}

// listRequest 解析ListBooks请求
// limit显式提供时必须在1..50之间,与HTTP接口一致
func listRequest(in *structpb.Struct) (appbook.ListBooksRequest, error) {
	var req appbook.ListBooksRequest

	author, err := stringField(in, "author")
	if err != nil {
		return req, err
	}
	req.Author, _ = author.Get()

	skip, _, err := intField(in, "skip")
	if err != nil {
		return req, err
	}
	if skip < 0 {
		return req, &fieldError{field: "skip", desc: "不能为负数"}
	}
	req.Skip = skip

	limit, ok, err := intField(in, "limit")
	if err != nil {
		return req, err
	}
	if ok && (limit < 1 || limit > book.MaxLimit) {
		return req, &fieldError{field: "limit", desc: "必须在1到50之间"}
	}
	req.Limit = limit

	return req, nil
}

// requiredString PUT/Create的必填字符串字段
func requiredString(in *structpb.Struct, name string) (string, error) {
	opt, err := stringField(in, name)
	if err != nil {
		return "", err
	}
	v, ok := opt.Get()
	if !ok {
		return "", &fieldError{field: name, desc: "必填"}
	}
	return v, nil
}

func bookStruct(b *appbook.BookResponse) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":     structpb.NewNumberValue(float64(b.ID)),
		"title":  structpb.NewStringValue(b.Title),
		"author": structpb.NewStringValue(b.Author),
	}}
}

func listStruct(resp *appbook.ListBooksResponse) *structpb.Struct {
	items := make([]*structpb.Value, 0, len(resp.Items))
	for i := range resp.Items {
		items = append(items, structpb.NewStructValue(bookStruct(&resp.Items[i])))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"items": structpb.NewListValue(&structpb.ListValue{Values: items}),
		"total": structpb.NewNumberValue(float64(resp.Total)),
	}}
}
