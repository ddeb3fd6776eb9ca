// Package gallery is the SQLite storage behind the reference photo service:
// user accounts and the image records each user owns.
package gallery

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
)

// ErrConflict is returned when a user with the same email already exists.
var ErrConflict = errors.New("already exists")

// User is a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Image is one stored image record.
type Image struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Date        string
	Time        string
	Camera      string
	Scene       string
	Altitude    string
	Position    string
	Hashtags    []string
	CreatedAt   time.Time
}

// Field names accepted by UpdateField.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldHashtags    = "hashtags"
)

// Store wraps a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("mkdir", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// WAL lets the list endpoints read while an upload writes.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("configure", path, err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL DEFAULT '',
    time TEXT NOT NULL DEFAULT '',
    camera TEXT NOT NULL DEFAULT '',
    scene TEXT NOT NULL DEFAULT '',
    altitude TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT '',
    hashtags TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS images_user ON images(user_id, created_at);
`)
	if err != nil {
		return errors.WrapResource("migrate", "schema", "", err)
	}
	return nil
}

// CreateUser inserts a new account. It returns ErrConflict when the email is
// taken.
func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return User{}, ErrConflict
		}
		return User{}, errors.WrapResource("create", "user", u.Email, err)
	}
	return u, nil
}

// UserByEmail looks an account up by email.
func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.user(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

// UserByID looks an account up by ID.
func (s *Store) UserByID(ctx context.Context, id string) (User, error) {
	return s.user(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (s *Store) user(ctx context.Context, query, arg string) (User, error) {
	var u User
	var created string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &created)
	if err == sql.ErrNoRows {
		return User{}, errors.NewNotFoundError("user", arg)
	}
	if err != nil {
		return User{}, errors.WrapResource("fetch", "user", arg, err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return u, nil
}

// InsertImage stores a new image record.
func (s *Store) InsertImage(ctx context.Context, img Image) error {
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO images (id, user_id, title, description, date, time, camera, scene, altitude, position, hashtags, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.UserID, img.Title, img.Description, img.Date, img.Time,
		img.Camera, img.Scene, img.Altitude, img.Position, FormatTags(img.Hashtags),
		img.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return errors.WrapResource("create", "image", img.ID, err)
	}
	return nil
}

// ListImages returns the user's images in upload order. A non-empty tag
// restricts the result to images carrying it.
func (s *Store) ListImages(ctx context.Context, userID, tag string) ([]Image, error) {
	const cols = `SELECT id, user_id, title, description, date, time, camera, scene, altitude, position, hashtags, created_at FROM images`
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.QueryContext(ctx, cols+` WHERE user_id = ? ORDER BY created_at, rowid`, userID)
	} else {
		rows, err = s.db.QueryContext(ctx, cols+` WHERE user_id = ? AND instr(hashtags, ',' || ? || ',') > 0 ORDER BY created_at, rowid`,
			userID, strings.TrimSpace(tag))
	}
	if err != nil {
		return nil, errors.WrapResource("list", "images", userID, err)
	}
	defer rows.Close()

	images := []Image{}
	for rows.Next() {
		var img Image
		var tags, created string
		if err := rows.Scan(&img.ID, &img.UserID, &img.Title, &img.Description, &img.Date, &img.Time,
			&img.Camera, &img.Scene, &img.Altitude, &img.Position, &tags, &created); err != nil {
			return nil, errors.WrapResource("scan", "image", "", err)
		}
		img.Hashtags = ParseTags(tags)
		img.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "images", userID, err)
	}
	return images, nil
}

// ListHashtags returns the sorted, deduplicated tags across the user's images.
func (s *Store) ListHashtags(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT hashtags FROM images WHERE user_id = ?`, userID)
	if err != nil {
		return nil, errors.WrapResource("list", "hashtags", userID, err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, errors.WrapResource("scan", "hashtags", "", err)
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "hashtags", userID, err)
	}

	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// UpdateField overwrites one metadata field of an image the user owns.
// value is a string for title and description and a []string for hashtags.
func (s *Store) UpdateField(ctx context.Context, userID, id, field string, value any) error {
	var column, arg string
	switch field {
	case FieldTitle, FieldDescription:
		str, ok := value.(string)
		if !ok {
			return errors.NewValidationError(field, value, "must be a string")
		}
		column, arg = field, str
	case FieldHashtags:
		tags, ok := value.([]string)
		if !ok {
			return errors.NewValidationError(field, value, "must be a list of strings")
		}
		column, arg = "hashtags", FormatTags(tags)
	default:
		return errors.NewValidationError("field", field, "unknown field")
	}

	res, err := s.db.ExecContext(ctx, `UPDATE images SET `+column+` = ? WHERE id = ? AND user_id = ?`, arg, id, userID)
	if err != nil {
		return errors.WrapResource("update", "image", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WrapResource("update", "image", id, err)
	}
	if n == 0 {
		return errors.NewNotFoundError("image", id)
	}
	return nil
}

// FormatTags encodes tags as ",a,b," so a single tag can be matched with
// instr. Empty and duplicate tags are dropped.
func FormatTags(tags []string) string {
	seen := make(map[string]struct{}, len(tags))
	var b strings.Builder
	for _, t := range tags {
		t = strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		b.WriteString(",")
		b.WriteString(t)
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteString(",")
	return b.String()
}

// ParseTags decodes a stored tag column. It never returns nil.
func ParseTags(stored string) []string {
	stored = strings.Trim(stored, ",")
	if stored == "" {
		return []string{}
	}
	parts := strings.Split(stored, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
