package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKey       = errors.New("invalid storage key")
	ErrSignatureInvalid = errors.New("invalid or expired signature")
)

// Store keeps document blobs on local disk under opaque keys and issues
// time-limited HMAC-signed URLs for reads. Keys are never exposed unsigned.
type Store struct {
	dir     string
	secret  []byte
	ttl     time.Duration
	baseURL string
}

func New(dir string, secret string, ttl time.Duration, baseURL string) *Store {
	return &Store{
		dir:     dir,
		secret:  []byte(secret),
		ttl:     ttl,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save writes an uploaded file under a fresh opaque key within the given
// category (e.g. "verification", "lease", "property").
func (s *Store) Save(category string, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".bin"
	}
	key := fmt.Sprintf("%s/%s%s", category, uuid.New().String(), ext)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return key, nil
}

// Path resolves a key to its on-disk location, rejecting traversal.
func (s *Store) Path(key string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean("/" + key))[1:]
	if clean != key || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

func (s *Store) Remove(key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// SignedURL returns a download URL valid for the store's TTL.
func (s *Store) SignedURL(key string) string {
	exp := time.Now().Add(s.ttl).Unix()
	sig := s.sign(key, exp)
	return fmt.Sprintf("%s/api/files/%s?exp=%d&sig=%s", s.baseURL, key, exp, sig)
}

// Verify checks the signature and expiry produced by SignedURL.
func (s *Store) Verify(key string, expStr string, sig string) error {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrSignatureInvalid
	}
	if time.Now().Unix() > exp {
		return ErrSignatureInvalid
	}
	expected := s.sign(key, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrSignatureInvalid
	}
	return nil
}

func (s *Store) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}
