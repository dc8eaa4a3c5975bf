package docxstore

import (
	"fmt"
	"io"
	"os"

	"github.com/docforge/redline/model"
)

// Store reads and writes DOCX files. It satisfies the patch engine's
// document store port.
type Store struct{}

// NewStore creates a Store.
func NewStore() *Store {
	return &Store{}
}

// Load parses the DOCX file at path into a document model.
func (s *Store) Load(path string) (*model.Document, error) {
	return load(path)
}

// Save writes the document as a DOCX package at path.
func (s *Store) Save(doc *model.Document, path string) error {
	return save(doc, path)
}

// Copy duplicates the file at src to dst byte for byte. It is used for the
// pre-session backup.
func (s *Store) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}
