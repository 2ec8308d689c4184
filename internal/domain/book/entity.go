package book

import (
	"strings"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ID由RecordStore在插入时分配,之后不再变化,删除后也不会被复用
// 2. Title在所有图书中唯一(不区分大小写)
// 3. Author没有唯一性约束
type Book struct {
	ID     uint
	Title  string // 书名
	Author string // 作者
}

// Clone 返回副本,存储实现用它避免调用方修改内部状态
func (b *Book) Clone() *Book {
	c := *b
	return &c
}

// TitleKey 书名的比较键(小写),数据库唯一索引也用它
func TitleKey(title string) string {
	return strings.ToLower(title)
}

// SameTitle 书名比较:小写后完全相等
func SameTitle(a, b string) bool {
	return TitleKey(a) == TitleKey(b)
}

// AuthorContains 作者过滤:小写后子串包含
// 注意与SameTitle是两种不同的比较方式,不要合并
func (b *Book) AuthorContains(fragment string) bool {
	return strings.Contains(strings.ToLower(b.Author), strings.ToLower(fragment))
}

// apply 按PatchInput覆盖显式提供的字段
func (b *Book) apply(in PatchInput) {
	if title, ok := in.Title.Get(); ok {
		b.Title = title
	}
	if author, ok := in.Author.Get(); ok {
		b.Author = author
	}
}
