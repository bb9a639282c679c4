package file

import "time"

// BucketAttendance holds check-in and check-out photos.
const BucketAttendance = "attendance"

type StoredFile struct {
	ID           int64
	ContentHash  string
	Bucket       string
	ObjectKey    string
	StoredName   string
	URL          string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	CreatedAt    time.Time
}
