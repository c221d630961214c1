package repository

import (
	"context"
	"sync"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
)

type userRepository struct {
	mu      sync.RWMutex
	users   []entity.User
	byEmail map[string]int
	nextID  int64
}

// NewUserRepository создает пустое хранилище пользователей в памяти
func NewUserRepository() UserRepository {
	return &userRepository{
		byEmail: make(map[string]int),
		nextID:  1,
	}
}

// Create сохраняет пользователя и записывает в него назначенный ID.
// Email сравнивается с учетом регистра.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrEmailTaken
	}

	user.ID = r.nextID
	r.nextID++

	r.byEmail[user.Email] = len(r.users)
	r.users = append(r.users, *user)

	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.users[idx]
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// ID выдаются подряд с 1, пользователи не удаляются
	if id < 1 || id > int64(len(r.users)) {
		return nil, ErrUserNotFound
	}
	user := r.users[id-1]
	return &user, nil
}
