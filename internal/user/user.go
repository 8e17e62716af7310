// Package user holds the identity directory consulted at login.
package user

import (
	"errors"
	"strings"
	"sync"

	"bookcatalog/internal/platform/crypto"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

var ErrAlreadyExists = errors.New("user already exists")

type User struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

// Directory resolves usernames case-insensitively.
type Directory interface {
	Find(username string) (User, bool)
}

type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryDirectory(users ...User) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[string]User, len(users))}
	for _, u := range users {
		d.users[strings.ToLower(u.Username)] = u
	}
	return d
}

func (d *MemoryDirectory) Find(username string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[strings.ToLower(strings.TrimSpace(username))]
	return u, ok
}

// Register hashes password and stores the user. Usernames are unique
// regardless of case.
func (d *MemoryDirectory) Register(username, password, role string) (User, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	key := strings.ToLower(strings.TrimSpace(username))
	if _, ok := d.users[key]; ok {
		return User{}, ErrAlreadyExists
	}
	u := User{Username: strings.TrimSpace(username), Role: role, PasswordHash: hash}
	d.users[key] = u
	return u, nil
}

// Credential is a plain-text seed entry.
type Credential struct {
	Username string
	Password string
	Role     string
}

// DefaultCredentials are the accounts available on a fresh start.
var DefaultCredentials = []Credential{
	{Username: "admin@example.com", Password: "Admin#123", Role: RoleAdmin},
	{Username: "user@example.com", Password: "User#123", Role: RoleUser},
}

// Seed builds a directory from plain-text credentials, hashing each password.
func Seed(creds ...Credential) (*MemoryDirectory, error) {
	d := NewMemoryDirectory()
	for _, c := range creds {
		if _, err := d.Register(c.Username, c.Password, c.Role); err != nil {
			return nil, err
		}
	}
	return d, nil
}
