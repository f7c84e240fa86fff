package storage

import "io"

// BlobStore holds uploaded answer artifacts (diagram scans, worked files)
// and question attachments.
type BlobStore interface {
	// Put stores the blob and returns its canonical key.
	Put(key string, r io.Reader) (string, error)
	Get(key string) (io.ReadCloser, error)
	// SignedURL returns a fetchable URL for the key. The FS store returns a
	// file:// URL, which is enough for single-host offline sites.
	SignedURL(key string) (string, error)
}
