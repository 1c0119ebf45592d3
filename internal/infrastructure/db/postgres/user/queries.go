package user

const (
	columns = `id, first_name, last_name, email, mobile, gender, status, location, profile, created_at, updated_at`

	// $1 is a pre-escaped ILIKE pattern.
	searchWhere = `
		WHERE first_name ILIKE $1 ESCAPE '\'
		   OR last_name ILIKE $1 ESCAPE '\'
		   OR email ILIKE $1 ESCAPE '\'
		   OR mobile ILIKE $1 ESCAPE '\'
		   OR location ILIKE $1 ESCAPE '\'`
	newestFirst = ` ORDER BY created_at DESC, id ASC`

	SelectUsersPage   = `SELECT ` + columns + ` FROM users` + newestFirst + ` LIMIT $1 OFFSET $2`
	SearchUsersPage   = `SELECT ` + columns + ` FROM users` + searchWhere + newestFirst + ` LIMIT $2 OFFSET $3`
	CountUsers        = `SELECT count(*) FROM users`
	CountSearchUsers  = `SELECT count(*) FROM users` + searchWhere
	SelectAllUsers    = `SELECT ` + columns + ` FROM users` + newestFirst
	SelectUserByID    = `SELECT ` + columns + ` FROM users WHERE id = $1`
	SelectUserByEmail = `SELECT ` + columns + ` FROM users WHERE email = $1`
	InsertUser        = `
		INSERT INTO users (first_name, last_name, email, mobile, gender, status, location, profile)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + columns
	UpdateUserByID = `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    email = COALESCE($4, email),
		    mobile = COALESCE($5, mobile),
		    gender = COALESCE($6, gender),
		    status = COALESCE($7, status),
		    location = COALESCE($8, location),
		    profile = COALESCE($9, profile),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + columns
	DeleteUserByID = `DELETE FROM users WHERE id = $1 RETURNING ` + columns
)
