package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
)

// Store persists a Session between invocations of the console.
type Store interface {
	Load(s *Session) error
	Save(s *Session) error
	Clear() error
}

const (
	fileMagic = "ACS1"
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

type record struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	SavedAt time.Time   `json:"saved_at"`
}

// FileStore keeps the session in a single file sealed with NaCl secretbox.
// The key is derived with HKDF from the configured passphrase, or from a
// host fingerprint when no passphrase is set.
type FileStore struct {
	path       string
	passphrase []byte
	now        func() time.Time
}

func NewFileStore(path, passphrase string) *FileStore {
	secret := passphrase
	if secret == "" {
		secret = hostFingerprint()
	}
	return &FileStore{path: path, passphrase: []byte(secret), now: time.Now}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(s *Session) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoSession
		}
		return fmt.Errorf("read session: %w", err)
	}
	plain, err := f.open(data)
	if err != nil {
		return err
	}
	var rec record
	if err := json.Unmarshal(plain, &rec); err != nil || rec.Token == "" {
		return ErrSessionCorrupt
	}
	if claims, err := Inspect(rec.Token); err == nil && claims.Expired(f.now()) {
		return ErrSessionExpired
	}
	s.Set(rec.Token, rec.User)
	return nil
}

func (f *FileStore) Save(s *Session) error {
	token := s.Token()
	if token == "" {
		return f.Clear()
	}
	plain, err := json.Marshal(record{Token: token, User: s.User(), SavedAt: f.now().UTC()})
	if err != nil {
		return err
	}
	sealed, err := f.seal(plain)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (f *FileStore) seal(plain []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	key, err := f.deriveKey(salt)
	if err != nil {
		return nil, err
	}

	header := make([]byte, 0, len(fileMagic)+saltSize+nonceSize+len(plain)+secretbox.Overhead)
	header = append(header, fileMagic...)
	header = append(header, salt...)
	header = append(header, nonce[:]...)
	return secretbox.Seal(header, plain, &nonce, key), nil
}

func (f *FileStore) open(data []byte) ([]byte, error) {
	minSize := len(fileMagic) + saltSize + nonceSize + secretbox.Overhead
	if len(data) < minSize || string(data[:len(fileMagic)]) != fileMagic {
		return nil, ErrSessionCorrupt
	}
	offset := len(fileMagic)
	salt := data[offset : offset+saltSize]
	offset += saltSize
	var nonce [nonceSize]byte
	copy(nonce[:], data[offset:offset+nonceSize])
	offset += nonceSize

	key, err := f.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	plain, ok := secretbox.Open(nil, data[offset:], &nonce, key)
	if !ok {
		return nil, ErrSessionCorrupt
	}
	return plain, nil
}

func (f *FileStore) deriveKey(salt []byte) (*[keySize]byte, error) {
	h := hkdf.New(sha256.New, f.passphrase, salt, []byte("admin-console session"))
	var key [keySize]byte
	if _, err := io.ReadFull(h, key[:]); err != nil {
		return nil, err
	}
	return &key, nil
}

func hostFingerprint() string {
	host, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	return fmt.Sprintf("%s|%s|%d", host, home, os.Getuid())
}
