package ydb

import (
	"context"
	"fmt"
	"time"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
)

const accountColumns = `account_id, email, password_hash, display_name, admin_claim, created_at, updated_at`

// CreateAccount создает учетную запись. Email должен быть уникален (email_idx).
func (c *YDBClient) CreateAccount(ctx context.Context, account *Account) error {
	query := `
		DECLARE $account_id AS Text;
		DECLARE $email AS Text;
		DECLARE $password_hash AS Text;
		DECLARE $display_name AS Optional<Text>;
		DECLARE $admin_claim AS Bool;
		DECLARE $created_at AS Timestamp;
		DECLARE $updated_at AS Timestamp;

		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($account_id, $email, $password_hash, $display_name, $admin_claim, $created_at, $updated_at)
	`

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	return c.execute(ctx, query,
		table.ValueParam("$account_id", types.TextValue(account.AccountID)),
		table.ValueParam("$email", types.TextValue(account.Email)),
		table.ValueParam("$password_hash", types.TextValue(account.PasswordHash)),
		optionalText("$display_name", account.DisplayName),
		table.ValueParam("$admin_claim", types.BoolValue(account.AdminClaim)),
		table.ValueParam("$created_at", types.TimestampValueFromTime(account.CreatedAt)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(account.UpdatedAt)),
	)
}

func scanAccount(res result.Result, a *Account) error {
	return res.ScanNamed(
		named.Required("account_id", &a.AccountID),
		named.Required("email", &a.Email),
		named.Required("password_hash", &a.PasswordHash),
		named.Optional("display_name", &a.DisplayName),
		named.OptionalWithDefault("admin_claim", &a.AdminClaim),
		named.OptionalWithDefault("created_at", &a.CreatedAt),
		named.OptionalWithDefault("updated_at", &a.UpdatedAt),
	)
}

func (c *YDBClient) getAccount(ctx context.Context, query string, params ...table.ParameterOption) (*Account, error) {
	var account Account
	var found bool

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(params...))
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			found = true
			if err := scanAccount(res, &account); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, app_errors.ErrAccountNotFound
	}
	return &account, nil
}

// GetAccountByID получает учетную запись по ID
func (c *YDBClient) GetAccountByID(ctx context.Context, accountID string) (*Account, error) {
	query := `
		DECLARE $account_id AS Text;
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $account_id
	`
	return c.getAccount(ctx, query, table.ValueParam("$account_id", types.TextValue(accountID)))
}

// GetAccountByEmail получает учетную запись по email
func (c *YDBClient) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		DECLARE $email AS Text;
		SELECT ` + accountColumns + `
		FROM accounts VIEW email_idx
		WHERE email = $email
	`
	return c.getAccount(ctx, query, table.ValueParam("$email", types.TextValue(email)))
}

// SetAdminClaim выставляет admin-claim учетной записи
func (c *YDBClient) SetAdminClaim(ctx context.Context, accountID string, admin bool) error {
	query := `
		DECLARE $account_id AS Text;
		DECLARE $admin_claim AS Bool;
		DECLARE $updated_at AS Timestamp;

		UPDATE accounts
		SET admin_claim = $admin_claim, updated_at = $updated_at
		WHERE account_id = $account_id
	`

	return c.execute(ctx, query,
		table.ValueParam("$account_id", types.TextValue(accountID)),
		table.ValueParam("$admin_claim", types.BoolValue(admin)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(time.Now())),
	)
}

const profileColumns = `user_id, email, display_name, username, bio, avatar_url, date_of_birth, role, is_admin, created_at, updated_at`

func scanProfile(res result.Result, p *UserProfile) error {
	return res.ScanNamed(
		named.Required("user_id", &p.UserID),
		named.OptionalWithDefault("email", &p.Email),
		named.Optional("display_name", &p.DisplayName),
		named.Optional("username", &p.Username),
		named.Optional("bio", &p.Bio),
		named.Optional("avatar_url", &p.AvatarURL),
		named.Optional("date_of_birth", &p.DateOfBirth),
		named.OptionalWithDefault("role", &p.Role),
		named.OptionalWithDefault("is_admin", &p.IsAdmin),
		named.OptionalWithDefault("created_at", &p.CreatedAt),
		named.OptionalWithDefault("updated_at", &p.UpdatedAt),
	)
}

// GetUserProfile получает профиль по ID
func (c *YDBClient) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	query := `
		DECLARE $user_id AS Text;
		SELECT ` + profileColumns + `
		FROM users
		WHERE user_id = $user_id
	`

	var profile UserProfile
	var found bool

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(userID)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			found = true
			if err := scanProfile(res, &profile); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, app_errors.ErrUserNotFound
	}
	return &profile, nil
}

// UpsertUserProfile записывает редактируемые поля профиля. role и is_admin не пишутся.
func (c *YDBClient) UpsertUserProfile(ctx context.Context, profile *UserProfile) error {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $email AS Text;
		DECLARE $display_name AS Optional<Text>;
		DECLARE $username AS Optional<Text>;
		DECLARE $bio AS Optional<Text>;
		DECLARE $avatar_url AS Optional<Text>;
		DECLARE $date_of_birth AS Optional<Timestamp>;
		DECLARE $created_at AS Timestamp;
		DECLARE $updated_at AS Timestamp;

		UPSERT INTO users (
			user_id, email, display_name, username, bio, avatar_url, date_of_birth, created_at, updated_at
		) VALUES ($user_id, $email, $display_name, $username, $bio, $avatar_url, $date_of_birth, $created_at, $updated_at)
	`

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	return c.execute(ctx, query,
		table.ValueParam("$user_id", types.TextValue(profile.UserID)),
		table.ValueParam("$email", types.TextValue(profile.Email)),
		optionalText("$display_name", profile.DisplayName),
		optionalText("$username", profile.Username),
		optionalText("$bio", profile.Bio),
		optionalText("$avatar_url", profile.AvatarURL),
		optionalTimestamp("$date_of_birth", profile.DateOfBirth),
		table.ValueParam("$created_at", types.TimestampValueFromTime(profile.CreatedAt)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(profile.UpdatedAt)),
	)
}

// MergeUserRole обновляет роль и зеркальный флаг администратора
func (c *YDBClient) MergeUserRole(ctx context.Context, userID, role string, isAdmin bool) error {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $role AS Text;
		DECLARE $is_admin AS Bool;
		DECLARE $updated_at AS Timestamp;

		UPSERT INTO users (user_id, role, is_admin, updated_at)
		VALUES ($user_id, $role, $is_admin, $updated_at)
	`

	return c.execute(ctx, query,
		table.ValueParam("$user_id", types.TextValue(userID)),
		table.ValueParam("$role", types.TextValue(role)),
		table.ValueParam("$is_admin", types.BoolValue(isAdmin)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(time.Now())),
	)
}

// ListUserProfiles возвращает страницу профилей и общее количество
func (c *YDBClient) ListUserProfiles(ctx context.Context, limit, offset int) ([]*UserProfile, int64, error) {
	query := `
		DECLARE $limit AS Uint64;
		DECLARE $offset AS Uint64;

		SELECT COUNT(*) AS total FROM users;

		SELECT ` + profileColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $limit OFFSET $offset;
	`

	var (
		total    uint64
		profiles []*UserProfile
	)

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		profiles = profiles[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$limit", types.Uint64Value(uint64(limit))),
				table.ValueParam("$offset", types.Uint64Value(uint64(offset))),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			if err := res.ScanNamed(named.Required("total", &total)); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}

		if res.NextResultSet(ctx) {
			for res.NextRow() {
				var p UserProfile
				if err := scanProfile(res, &p); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				profiles = append(profiles, &p)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, 0, err
	}
	return profiles, int64(total), nil
}
