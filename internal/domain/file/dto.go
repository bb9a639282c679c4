package file

type StorePhotoRequest struct {
	Content      []byte
	OriginalName string
}

type StoreResult struct {
	URL          string `json:"url"`
	ContentHash  string `json:"contentHash"`
	IsDuplicate  bool   `json:"isDuplicate"`
	OriginalName string `json:"originalName"`
}
