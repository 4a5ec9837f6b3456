package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/icearena/booking-server/internal/model"
	"github.com/icearena/booking-server/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  The password arrives in the
// clear (already decrypted from the transit codec) and is digested here.
func (r *UserRepo) Create(ctx context.Context, email, password, role string) (int64, error) {
	email = strings.TrimSpace(email)
	hash := utils.HashPassword(password)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		// 1062 = MySQL duplicate key on uq_users_email
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetByCredentials fetches the user whose email matches case-insensitively
// and whose stored digest equals passwordHash.  sql.ErrNoRows means the
// credentials did not match; callers use EmailExists to tell a bad password
// from an unknown account.
func (r *UserRepo) GetByCredentials(ctx context.Context, email, passwordHash string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,reg_date FROM users WHERE LOWER(email)=LOWER(?) AND password_hash=? LIMIT 1",
		strings.TrimSpace(email), passwordHash).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.RegDate)
	return u, err
}

// EmailExists reports whether any account uses the email, case-insensitively.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)",
		strings.TrimSpace(email)).Scan(&n)
	return n > 0, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,reg_date FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.RegDate)
	return u, err
}
