package common

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hrpilot/internal/errors"
	"hrpilot/internal/types"
	"hrpilot/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a file processor that rejects inputs larger than
// maxSize bytes (0 disables the limit).
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.Discard()
	}
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return string(content), nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	return fp.WriteBytes(filename, []byte(content))
}

// WriteBytes writes data to a file, creating parent directories.
func (fp *FileProcessor) WriteBytes(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateAndReadFiles validates and reads multiple input files
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))

	for i, filename := range filenames {
		if err := utils.ValidateInputFile(filename, fp.maxSize); err != nil {
			return nil, errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		if !utils.IsTextFile(filename) {
			fp.logger.Warn("File may not be a text file", "filename", filename)
		}

		content, err := fp.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		contents[i] = content
	}

	return contents, nil
}

// ReadArg returns arg itself, or the content of the file it names when it is
// prefixed with '@' ("@jd.txt").
func (fp *FileProcessor) ReadArg(arg string) (string, error) {
	name, ok := strings.CutPrefix(arg, "@")
	if !ok {
		return arg, nil
	}
	contents, err := fp.ValidateAndReadFiles(name)
	if err != nil {
		return "", err
	}
	return contents[0], nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}

// SaveMedia writes asset to dir/stem<ext> and returns the path. Raw PCM
// audio is wrapped as WAV.
func (fp *FileProcessor) SaveMedia(dir, stem string, asset *types.MediaAsset) (string, error) {
	if asset.Empty() {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "no media to save", nil)
	}

	data := asset.Data
	if utils.IsRawPCM(asset.MIMEType) {
		var buf bytes.Buffer
		if err := utils.WriteWAV(&buf, data, utils.PCMSampleRate(asset.MIMEType)); err != nil {
			return "", errors.NewInternalError("WAV_ENCODE_FAILED", "Cannot encode audio", err)
		}
		data = buf.Bytes()
	}

	path := filepath.Join(dir, stem+utils.ExtensionForMIME(asset.MIMEType))
	if err := fp.WriteBytes(path, data); err != nil {
		return "", err
	}
	fp.logger.Debug("Media saved", "path", path, "mime_type", asset.MIMEType, "size", utils.FormatFileSize(int64(len(data))))
	return path, nil
}

// MediaFromDataURI decodes a base64 data URI back into an asset. An empty
// string yields nil.
func MediaFromDataURI(uri string) (*types.MediaAsset, error) {
	if uri == "" {
		return nil, nil
	}
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no payload")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return &types.MediaAsset{MIMEType: mimeType, Data: data}, nil
}
