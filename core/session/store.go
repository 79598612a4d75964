package session

import (
	"crypto/sha256"
	"os"
	"sync"

	"github.com/gorilla/securecookie"
	"github.com/pkg/errors"
)

// storageKey is the fixed key sessions are serialized under.
const storageKey = "alyusr.session"

// MemoryStore keeps the session in memory only; it does not survive restarts.
type MemoryStore struct {
	mu sync.Mutex
	s  *Session
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (st *MemoryStore) Save(s Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = &s
	return nil
}

func (st *MemoryStore) Load() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s, nil
}

func (st *MemoryStore) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = nil
	return nil
}

// FileStore persists the session to a local file, signed and encoded with
// securecookie so tampered or corrupted state fails to decode and is
// discarded.
type FileStore struct {
	path  string
	codec *securecookie.SecureCookie
	mu    sync.Mutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path, secretKey string) *FileStore {
	hashKey := sha256.Sum256([]byte(secretKey + "." + storageKey))
	return &FileStore{
		path:  path,
		codec: securecookie.New(hashKey[:], nil),
	}
}

func (st *FileStore) Save(s Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	encoded, err := st.codec.Encode(storageKey, s)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return os.WriteFile(st.path, []byte(encoded), 0o600)
}

func (st *FileStore) Load() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading session file")
	}
	var s Session
	if err := st.codec.Decode(storageKey, string(data), &s); err != nil {
		return nil, errors.Wrap(err, "decoding session")
	}
	return &s, nil
}

func (st *FileStore) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
