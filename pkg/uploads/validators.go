package uploads

import "mime/multipart"

// UploadPayload takes the file from the "file" field of a multipart form.
type UploadPayload struct {
	FormFiles map[string]*multipart.FileHeader `json:"-" form:"-"`
}
