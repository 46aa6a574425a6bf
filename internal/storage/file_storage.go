package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/ferdiebergado/hbnb/internal/model"
)

var _ Engine = (*FileStorage)(nil)

// FileStorage keeps live entities in memory and writes them as one JSON
// object, keyed by model.Key, to a single file.
type FileStorage struct {
	mu      sync.RWMutex
	path    string
	objects map[string]model.Entity
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{
		path:    path,
		objects: make(map[string]model.Entity),
	}
}

func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) All(_ context.Context, class string) (map[string]model.Entity, error) {
	if class != "" && !model.IsClass(class) {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownClass, class)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if class == "" {
		return maps.Clone(s.objects), nil
	}

	objects := make(map[string]model.Entity)
	for key, obj := range s.objects {
		if obj.ClassName() == class {
			objects[key] = obj
		}
	}
	return objects, nil
}

func (s *FileStorage) Get(_ context.Context, class, id string) (model.Entity, error) {
	if !model.IsClass(class) {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownClass, class)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[class+"."+id]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotFound, class, id)
	}
	return obj, nil
}

func (s *FileStorage) Count(ctx context.Context, class string) (int, error) {
	objects, err := s.All(ctx, class)
	if err != nil {
		return 0, err
	}
	return len(objects), nil
}

func (s *FileStorage) New(obj model.Entity) {
	if model.IsNil(obj) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[model.Key(obj)] = obj
}

func (s *FileStorage) Delete(obj model.Entity) {
	if model.IsNil(obj) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, model.Key(obj))
}

// Save writes every tracked entity to the file. The file is replaced
// atomically so a failed write leaves the previous state intact.
func (s *FileStorage) Save(_ context.Context) error {
	s.mu.RLock()
	dicts := make(map[string]map[string]any, len(s.objects))
	for key, obj := range s.objects {
		dicts[key] = obj.ToDict()
	}
	s.mu.RUnlock()

	data, err := json.Marshal(dicts)
	if err != nil {
		return fmt.Errorf("encode objects: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	slog.Debug("File storage saved.", "path", s.path, "objects", len(dicts))
	return nil
}

// Reload replaces the tracked entities with the content of the file. A
// missing or empty file means no prior state.
func (s *FileStorage) Reload(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No storage file yet.", "path", s.path)
			s.replace(make(map[string]model.Entity))
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var dicts map[string]map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &dicts); err != nil {
			return fmt.Errorf("decode %s: %w", s.path, err)
		}
	}

	objects := make(map[string]model.Entity, len(dicts))
	for key, d := range dicts {
		obj, err := model.FromDict(d)
		if err != nil {
			return fmt.Errorf("reload %s: %w", key, err)
		}
		if model.Key(obj) != key {
			return fmt.Errorf("%w: %s holds %s", ErrKeyMismatch, key, model.Key(obj))
		}
		objects[model.Key(obj)] = obj
	}

	s.replace(objects)
	slog.Debug("File storage reloaded.", "path", s.path, "objects", len(objects))
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}

func (s *FileStorage) replace(objects map[string]model.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = objects
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
