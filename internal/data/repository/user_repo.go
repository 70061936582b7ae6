package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UserFilter narrows and orders grid listings. Empty fields do not filter.
type UserFilter struct {
	Username   string
	RealName   string
	Email      string
	Role       string
	SortColumn string
	SortDesc   bool
	Limit      int
	Offset     int
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
}

const userColumns = `id, username, password, real_name, role, email, street, postcode,
		       city, phone, birthday, is_active, last_seen, created_at, updated_at, deleted_at`

// qualifiedUserColumns prefixes userColumns with a table alias for joins.
func qualifiedUserColumns(alias string) string {
	cols := strings.Split(userColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

// sortable grid columns mapped to SQL expressions
var userSortColumns = map[string]string{
	"username":  "username",
	"real_name": "real_name",
	"email":     "email",
	"role":      "role",
	"last_seen": "last_seen",
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.RealName,
		&user.Role,
		&user.Email,
		&user.Street,
		&user.Postcode,
		&user.City,
		&user.Phone,
		&user.Birthday,
		&user.IsActive,
		&user.LastSeen,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, password, real_name, role, email, street,
		                   postcode, city, phone, birthday, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.RealName,
		user.Role,
		user.Email,
		user.Street,
		user.Postcode,
		user.City,
		user.Phone,
		user.Birthday,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` AND deleted_at IS NULL`

	user, err := scanUser(ur.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := ur.findOne(ctx, "id = $1", id)
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}
	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "lower(email) = lower($1)", email)
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "lower(username) = lower($1)", username)
	if err != nil {
		ur.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}
	return user, nil
}

// buildUserWhere renders the grid filter as a WHERE clause. Deleted rows are
// always excluded. Text filters are case-insensitive substring matches.
func buildUserWhere(filter UserFilter) (string, []any) {
	conds := []string{"deleted_at IS NULL"}
	var args []any

	like := func(column, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		args = append(args, "%"+escapeLike(value)+"%")
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}
	like("username", filter.Username)
	like("real_name", filter.RealName)
	like("email", filter.Email)

	if filter.Role != "" {
		args = append(args, filter.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildUserOrder only accepts whitelisted columns; anything else sorts by login.
func buildUserOrder(filter UserFilter) string {
	column, ok := userSortColumns[filter.SortColumn]
	if !ok {
		column = "username"
	}
	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}
	order := column + " " + dir
	if column == "last_seen" {
		order += " NULLS LAST"
	}
	return order + ", id ASC"
}

func buildUserListQuery(filter UserFilter) (string, []any) {
	where, args := buildUserWhere(filter)
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY ` + buildUserOrder(filter)
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return query, args
}

// List retrieves the filtered, ordered page of non-deleted users
func (ur *userRepository) List(ctx context.Context, filter UserFilter) ([]*entity.User, error) {
	query, args := buildUserListQuery(filter)

	rows, err := ur.db.Query(ctx, query, args...)
	if err != nil {
		ur.log.Error("Failed to list users",
			zap.Error(err),
			zap.Int("limit", filter.Limit),
			zap.Int("offset", filter.Offset),
		)
		return nil, fmt.Errorf("list users limit %d offset %d: %w", filter.Limit, filter.Offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	where, args := buildUserWhere(filter)
	query := `SELECT COUNT(*) FROM users WHERE ` + where

	var count int64
	if err := ur.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	return ur.Count(ctx, UserFilter{})
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, password = $3, real_name = $4, role = $5, email = $6,
		    street = $7, postcode = $8, city = $9, phone = $10, birthday = $11,
		    is_active = $12, updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.RealName,
		user.Role,
		user.Email,
		user.Street,
		user.Postcode,
		user.City,
		user.Phone,
		user.Birthday,
		user.IsActive,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found or already deleted", user.ID.String())
	}

	return nil
}

// Delete marks the user deleted; the row stays in storage.
func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	ur.log.Info("User soft-deleted", zap.String("id", id.String()))
	return nil
}

func (ur *userRepository) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_seen = $2 WHERE id = $1`

	if _, err := ur.db.Exec(ctx, query, id, at); err != nil {
		ur.log.Warn("Failed to update last seen", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("touch last seen %s: %w", id.String(), err)
	}
	return nil
}
