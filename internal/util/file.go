package util

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

var ErrFileType = errors.New("file type not allowed")

// ValidateMimeType 按文件头嗅探 MIME 类型，返回不带参数的媒体类型
// allowedTypes 可以是前缀（"video/"）或完整类型（"application/pdf"）
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}

	detected := http.DetectContentType(buffer[:n])
	mediaType, _, err := mime.ParseMediaType(detected)
	if err != nil {
		mediaType = detected
	}

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mediaType, allowed) {
			return mediaType, nil
		}
	}
	return mediaType, fmt.Errorf("%w: %s", ErrFileType, mediaType)
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeVideo)
}
