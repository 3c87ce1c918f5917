// Package storage implementa billing.ObjectStorage sobre S3 y sobre disco local.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/domain"
)

var _ billing.ObjectStorage = (*Local)(nil)

// Local guarda los objetos bajo un directorio raíz. Pensado para desarrollo.
type Local struct {
	root    string
	baseURL string
}

// NewLocal crea el directorio raíz si no existe. Con baseURL vacío las URLs son file://.
func NewLocal(dir, baseURL string) (*Local, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: ruta %q: %w", dir, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", root, err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) path(key string) (string, error) {
	p := filepath.Join(l.root, filepath.FromSlash(key))
	if !strings.HasPrefix(p, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: clave fuera del directorio raíz %q: %w", key, domain.ErrInvalidInput)
	}
	return p, nil
}

// Put escribe el objeto y devuelve su URL.
func (l *Local) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	p, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", key, err)
	}
	if l.baseURL != "" {
		return l.baseURL + "/" + key, nil
	}
	return "file://" + filepath.ToSlash(p), nil
}

// Get lee el objeto. domain.ErrNotFound si no existe.
func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	body, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: leer %s: %w", key, err)
	}
	return body, nil
}
