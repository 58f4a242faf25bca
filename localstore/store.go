// Package localstore persists the handful of values the gateway keeps
// between runs: the platform session and the operator's language
// preference. It plays the part browser local storage played for the
// web client, backed by an embedded sqlite file.
package localstore

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// LanguageKey holds the operator's language preference. Session keys
// are owned by the platform client.
const LanguageKey = "app.language"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("localstore: key not found")

type Entry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string
	UpdatedAt time.Time
}

type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the store at path. Use
// "file::memory:?cache=shared" for an in-memory store in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key string) (string, error) {
	var e Entry
	if err := s.db.First(&e, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return e.Value, nil
}

func (s *Store) Set(key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&e).Error
}

func (s *Store) Delete(key string) error {
	return s.db.Delete(&Entry{}, "key = ?", key).Error
}

// ClearPrefix removes every key under the given prefix. Sign-out uses
// it to drop all session state regardless of the remote outcome.
func (s *Store) ClearPrefix(prefix string) error {
	return s.db.Delete(&Entry{}, "key LIKE ?", prefix+"%").Error
}

// Language returns the persisted language preference, or def when
// none is stored.
func (s *Store) Language(def string) string {
	v, err := s.Get(LanguageKey)
	if err != nil {
		return def
	}
	return v
}

func (s *Store) SetLanguage(lang string) error {
	return s.Set(LanguageKey, lang)
}
