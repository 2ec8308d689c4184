package book

import "unicode/utf8"

// MaxFieldLength 书名、作者的最大字符数
const MaxFieldLength = 100

// ValidateTitle 校验书名:非空且不超过100个字符
func ValidateTitle(title string) error {
	if !validField(title) {
		return ErrInvalidTitle
	}
	return nil
}

// ValidateAuthor 校验作者:非空且不超过100个字符
func ValidateAuthor(author string) error {
	if !validField(author) {
		return ErrInvalidAuthor
	}
	return nil
}

func validField(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= MaxFieldLength
}
