package book

// Optional 三态可选值:未提供 / 提供了某个值
// 部分更新用它区分"不修改"和"修改为某值",零值即"未提供"
type Optional[T any] struct {
	value T
	set   bool
}

// Some 构造一个已提供的值
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None 构造一个未提供的值
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get 返回值以及是否提供
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet 是否提供
func (o Optional[T]) IsSet() bool {
	return o.set
}

// PatchInput 部分更新输入,只有IsSet的字段会被覆盖
type PatchInput struct {
	Title  Optional[string]
	Author Optional[string]
}

// Empty 没有任何字段被提供
func (p PatchInput) Empty() bool {
	return !p.Title.IsSet() && !p.Author.IsSet()
}
