// Package fileio 在本地文件系统上读写转换的输入和结果
package fileio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadText 读取文本文件并统一转换为 UTF-8
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeText(data), nil
}

// DecodeText 识别 BOM 和常见的本地编码，返回 UTF-8 文本
// 无法识别时按原样返回
func DecodeText(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return string(data[3:])
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		if res, ok := decodeWith(xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM), data[2:]); ok {
			return res
		}
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		if res, ok := decodeWith(xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM), data[2:]); ok {
			return res
		}
	}

	if utf8.Valid(data) {
		return string(data)
	}

	// 网页中最常见的本地编码排在前面
	encodings := []encoding.Encoding{
		simplifiedchinese.GB18030,
		traditionalchinese.Big5,
		japanese.ShiftJIS,
		japanese.EUCJP,
		korean.EUCKR,
		charmap.Windows1252,
	}
	for _, enc := range encodings {
		if res, ok := decodeWith(enc, data); ok && isReasonableText(res) {
			return res
		}
	}

	return string(data)
}

func decodeWith(enc encoding.Encoding, data []byte) (string, bool) {
	res, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil || !utf8.Valid(res) {
		return "", false
	}
	return string(res), true
}

// isReasonableText 超过 90% 为可打印字符
func isReasonableText(text string) bool {
	total, printable := 0, 0
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	return total > 0 && float64(printable)/float64(total) > 0.9
}
