package session

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// ErrBadPassphrase means the session file exists but does not open with the passphrase.
var ErrBadPassphrase = errors.New("session file cannot be decrypted")

// FileStore keeps the session in a file sealed with a passphrase-derived key.
// Layout: salt | nonce | secretbox(json).
type FileStore struct {
	notifier
	mu         sync.Mutex
	path       string
	passphrase []byte
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path, passphrase string) *FileStore {
	return &FileStore{path: path, passphrase: []byte(passphrase)}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) key(salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key(f.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}

func (f *FileStore) Load(context.Context) (AuthSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return AuthSession{}, ErrNoSession
	}
	if err != nil {
		return AuthSession{}, fmt.Errorf("read session: %w", err)
	}
	if len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return AuthSession{}, ErrBadPassphrase
	}
	key, err := f.key(raw[:saltSize])
	if err != nil {
		return AuthSession{}, err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])
	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return AuthSession{}, ErrBadPassphrase
	}
	var s AuthSession
	if err := json.Unmarshal(plain, &s); err != nil {
		return AuthSession{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (f *FileStore) Save(_ context.Context, s AuthSession) error {
	plain, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	header := make([]byte, saltSize+nonceSize)
	if _, err := io.ReadFull(rand.Reader, header); err != nil {
		return fmt.Errorf("read random: %w", err)
	}
	key, err := f.key(header[:saltSize])
	if err != nil {
		return err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], header[saltSize:])
	sealed := secretbox.Seal(header, plain, &nonce, key)

	f.mu.Lock()
	err = f.write(sealed)
	f.mu.Unlock()
	if err != nil {
		return err
	}
	f.notify(s)
	return nil
}

// write replaces the file atomically.
func (f *FileStore) write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	err := os.Remove(f.path)
	f.mu.Unlock()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	f.notify(AuthSession{})
	return nil
}

func (f *FileStore) OnSessionChange(fn func(AuthSession)) func() {
	return f.subscribe(fn)
}
