package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrPathIsDir  = errors.New("supplied path is a directory")
	ErrPathIsFile = errors.New("supplied path is a file")
)

// CreateP creates a file and all of its parent directories.
// Make sure you close the file when using this function!
func CreateP(filePath string, perm fs.FileMode) (*os.File, error) {
	absDirPath, err := filepath.Abs(filepath.Dir(filePath))
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(absDirPath, perm); err != nil {
		return nil, err
	}

	return os.Create(filePath)
}

// WriteTo writes text to filePath, creating the file and its directories.
func WriteTo(filePath string, text string) error {
	f, err := CreateP(filePath, 0750)
	if err != nil {
		return err
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	_, err = f.WriteString(text)
	return err
}

// AppendTo appends text to filePath, creating the file if it does not exist.
// This is the write side of a tailed log, truncation never happens here.
func AppendTo(filePath string, text string) error {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	_, err = f.WriteString(text)
	return err
}

func Info(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Exists returns nil if path exists and is a regular file.
func Exists(path string) error {
	s, err := Info(path)
	if err != nil {
		return err
	}

	if s.IsDir() {
		return ErrPathIsDir
	}

	return nil
}

func IsDir(path string) error {
	s, err := Info(path)
	if err != nil {
		return err
	}

	if !s.IsDir() {
		return ErrPathIsFile
	}

	return nil
}

func Size(filePath string) (int64, error) {
	s, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}

	return s.Size(), nil
}
