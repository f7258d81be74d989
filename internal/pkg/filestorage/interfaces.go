package filestorage

// FileStorage defines the interface for archiving uploaded files
type FileStorage interface {
	// Save stores data under a unique name derived from filename and returns the stored path
	Save(filename string, data []byte) (string, error)

	// Delete removes a previously stored file
	Delete(storedPath string) error
}
