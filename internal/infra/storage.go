package infra

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileAnexoStore persists base64-uploaded attachments (receipt photos, closing
// slips, product photos) on the local filesystem. References are relative paths
// under the storage root, served back through the /anexos static route.
type FileAnexoStore struct {
	root   string
	domain string
}

func NewFileAnexoStore(root, domain string) (*FileAnexoStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("anexos: create storage dir: %w", err)
	}
	return &FileAnexoStore{root: root, domain: strings.TrimRight(domain, "/")}, nil
}

// Salvar decodes the payload and writes it under root/categoria. Accepts both
// bare base64 and data-URI form ("data:image/png;base64,....").
func (s *FileAnexoStore) Salvar(categoria, conteudoBase64 string) (string, error) {
	ext := ".jpg"
	raw := conteudoBase64
	if strings.HasPrefix(raw, "data:") {
		header, rest, ok := strings.Cut(raw, ",")
		if !ok {
			return "", fmt.Errorf("anexos: data URI mal formado")
		}
		raw = rest
		switch {
		case strings.Contains(header, "image/png"):
			ext = ".png"
		case strings.Contains(header, "application/pdf"):
			ext = ".pdf"
		}
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("anexos: decode base64: %w", err)
	}

	dir := filepath.Join(s.root, categoria)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("anexos: create dir: %w", err)
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("anexos: write file: %w", err)
	}
	return categoria + "/" + name, nil
}

// Remover apaga um anexo pelo ref relativo. Best effort: um arquivo órfão não
// justifica falhar a operação que o descartou.
func (s *FileAnexoStore) Remover(ref string) {
	_ = os.Remove(filepath.Join(s.root, filepath.Clean(ref)))
}

// URL resolves a stored reference to the public address it is served from.
func (s *FileAnexoStore) URL(ref string) string {
	return s.domain + "/anexos/" + ref
}

// Root exposes the storage directory for the static file route.
func (s *FileAnexoStore) Root() string { return s.root }
