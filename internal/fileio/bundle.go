package fileio

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nerdneilsfield/go-html-packager/pkg/converter"
)

// ReadBundle 从目录或 .zip 文件读取指定的文件
// 不存在的文件读作空字符串，由调用方决定是否必需
func ReadBundle(src string, inputs []string) (converter.Bundle, error) {
	info, err := os.Stat(src)
	if err != nil {
		return converter.Bundle{}, fmt.Errorf("open bundle: %w", err)
	}

	if info.IsDir() {
		return readDirBundle(src, inputs)
	}
	if strings.EqualFold(filepath.Ext(src), ".zip") {
		return readZipBundle(src, inputs)
	}
	return converter.Bundle{}, fmt.Errorf("bundle must be a directory or a .zip file: %s", src)
}

func readDirBundle(dir string, inputs []string) (converter.Bundle, error) {
	var b converter.Bundle
	for _, name := range inputs {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if errors.Is(err, os.ErrNotExist) {
			b.Set(name, "")
			continue
		}
		if err != nil {
			return converter.Bundle{}, fmt.Errorf("read %s: %w", name, err)
		}
		b.Set(name, DecodeText(data))
	}
	return b, nil
}

func readZipBundle(zipPath string, inputs []string) (converter.Bundle, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return converter.Bundle{}, fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	entries := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries[path.Clean(f.Name)] = f
	}
	prefix := commonRoot(entries)

	var b converter.Bundle
	for _, name := range inputs {
		f, ok := entries[name]
		if !ok && prefix != "" {
			f, ok = entries[prefix+"/"+name]
		}
		if !ok {
			b.Set(name, "")
			continue
		}

		data, err := readZipFile(f)
		if err != nil {
			return converter.Bundle{}, fmt.Errorf("read %s: %w", name, err)
		}
		b.Set(name, DecodeText(data))
	}
	return b, nil
}

// commonRoot 所有条目都位于同一个顶层目录下时返回该目录名
func commonRoot(entries map[string]*zip.File) string {
	root := ""
	for name := range entries {
		i := strings.Index(name, "/")
		if i < 0 {
			return ""
		}
		if root == "" {
			root = name[:i]
		} else if root != name[:i] {
			return ""
		}
	}
	return root
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// WriteFile 写入单个文件，必要时创建父目录
func WriteFile(name, content string) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// WriteDir 将每个文件写到目录下对应的相对路径，返回写入的路径
func WriteDir(dir string, b converter.Bundle) ([]string, error) {
	written := make([]string, 0, b.Len())
	for _, f := range b.Files() {
		target, err := safeJoin(dir, f.Path)
		if err != nil {
			return written, err
		}
		if err := WriteFile(target, f.Content); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

// safeJoin 拒绝指向目录之外的相对路径
func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path: %s", name)
	}
	return target, nil
}

// ArchiveResult 写入多文件结果的方式
type ArchiveResult struct {
	Path     string   // zip 文件路径，回退时为写入的目录
	Fallback bool     // zip 创建失败，已逐个写出文件
	Files    []string // 回退时写入的文件
	Cause    error    // 回退的原因
}

// WriteArchive 将多文件结果写为 zip
// 先写入同目录下的临时文件再重命名；创建失败时把文件逐个写到去掉 .zip 后缀的目录中，
// 只有回退也失败时才返回错误
func WriteArchive(archivePath string, b converter.Bundle) (ArchiveResult, error) {
	err := writeZip(archivePath, b)
	if err == nil {
		return ArchiveResult{Path: archivePath}, nil
	}

	dir := strings.TrimSuffix(archivePath, filepath.Ext(archivePath))
	if dir == archivePath {
		dir += "_files"
	}
	files, ferr := WriteDir(dir, b)
	if ferr != nil {
		return ArchiveResult{}, fmt.Errorf("write archive: %w; fallback: %v", err, ferr)
	}

	return ArchiveResult{Path: dir, Fallback: true, Files: files, Cause: err}, nil
}

func writeZip(archivePath string, b converter.Bundle) (err error) {
	if dir := filepath.Dir(archivePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := archivePath + "." + uuid.NewString() + ".tmp"
	zipFile, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	for _, f := range b.Files() {
		w, werr := zipWriter.Create(path.Clean(f.Path))
		if werr != nil {
			zipFile.Close()
			return werr
		}
		if _, werr := io.WriteString(w, f.Content); werr != nil {
			zipFile.Close()
			return werr
		}
	}
	if err := zipWriter.Close(); err != nil {
		zipFile.Close()
		return err
	}
	if err := zipFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, archivePath)
}
