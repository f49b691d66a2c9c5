package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 内容附件允许的 MIME 类型
const (
	MimeVideo = "video/"
	MimeImage = "image/"
	MimePDF   = "application/pdf"
	MimeText  = "text/plain"
)

var (
	AllowedAttachmentTypes = []string{MimeVideo, MimeImage, MimePDF, MimeText}
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v"}
)

// MaxAttachmentSize 单个附件上限 200MB
const MaxAttachmentSize = 200 << 20
