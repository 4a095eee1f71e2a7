package converter

import (
	"errors"
	"fmt"
	"strings"
)

// 预定义错误
var (
	// ErrEmptyInput 必需的输入为空或只包含空白
	ErrEmptyInput = errors.New("empty input provided")

	// ErrUnknownFormat 未注册的打包格式
	ErrUnknownFormat = errors.New("unknown package format")
)

// AnchorError 严格合并模式下，某些部分找不到可注入的锚点
type AnchorError struct {
	Parts []string // 未能注入的部分（css、js）
}

// Error 实现error接口
func (e *AnchorError) Error() string {
	return fmt.Sprintf("merge: no anchor to attach %s", strings.Join(e.Parts, ", "))
}

// MissingFileError 反向转换时主文件为空
type MissingFileError struct {
	Format Format
	Path   string
}

// Error 实现error接口
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: required file %q is empty", e.Format, e.Path)
}

// Unwrap 返回原因错误
func (e *MissingFileError) Unwrap() error {
	return ErrEmptyInput
}

// UnknownFormatError 未知格式错误，附带相近的候选名称
type UnknownFormatError struct {
	Name        string
	Suggestions []string
}

// Error 实现error接口
func (e *UnknownFormatError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("unknown package format %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("unknown package format %q", e.Name)
}

// Unwrap 返回原因错误
func (e *UnknownFormatError) Unwrap() error {
	return ErrUnknownFormat
}
