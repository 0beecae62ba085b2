package user_repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "users"
	colID           = "id"
	colName         = "name"
	colLogin        = "login"
	colPasswordHash = "password_hash"
	colBalance      = "balance"
	colBonusBalance = "bonus_balance"
	colVersion      = "version"
	colCreatedAt    = "created_at"
	colUpdatedAt    = "updated_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc *pgxpool.Pool
}

func NewUserRepository(dbc *pgxpool.Pool) repository.UserRepository {
	return &repo{
		dbc: dbc,
	}
}

// CreateUser - создает нового пользователя с нулевыми балансами.
// Возвращает ID созданного пользователя
func (r *repo) CreateUser(ctx context.Context, user *model.User) (string, error) {
	// Формируем запрос
	query := psql.Insert(table).
		Columns(colName, colLogin, colPasswordHash).
		Values(user.Name, user.Login, user.Password).
		Suffix("RETURNING " + colID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var id string
	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return "", apperr.ErrLoginTaken
		}
		return "", err
	}

	return id, nil
}

// GetUserByLogin - возвращает пользователя (ID, Name, Login, Password) по его логину
func (r *repo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	// Формируем запрос
	query := psql.Select(colID, colName, colLogin, colPasswordHash, colCreatedAt).
		From(table).
		Where(sq.Eq{colLogin: login})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user model.User
	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&user.ID, &user.Name, &user.Login, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetWallet - балансы пользователя и версия строки
func (r *repo) GetWallet(ctx context.Context, userID string) (*model.Wallet, error) {
	// Формируем запрос
	query := psql.Select(colBalance, colBonusBalance, colVersion).
		From(table).
		Where(sq.Eq{colID: userID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	wallet := model.Wallet{UserID: userID}
	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&wallet.Balance, &wallet.BonusBalance, &wallet.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	return &wallet, nil
}

// CompareAndSetWallet - условное обновление балансов по версии.
// Ноль затронутых строк значит, что кошелёк успели изменить
func (r *repo) CompareAndSetWallet(ctx context.Context, userID string, version int64, state model.BalanceState) (int64, error) {
	// Формируем запрос
	query := psql.Update(table).
		Set(colBalance, state.Balance).
		Set(colBonusBalance, state.BonusBalance).
		Set(colVersion, sq.Expr(colVersion+" + 1")).
		Set(colUpdatedAt, sq.Expr("now()")).
		Where(sq.Eq{colID: userID, colVersion: version}).
		Suffix("RETURNING " + colVersion)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var newVersion int64
	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.ErrBalanceConflict
		}
		return 0, err
	}

	return newVersion, nil
}
