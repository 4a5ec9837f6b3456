package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  Emails are
// unique case-insensitively; the stored hash is the base64 SHA-256 digest
// of the password, matching what the desktop client expects.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – base64(SHA-256) digest of the password.
//  Role         – "Admin" or "Client".
//  RegDate      – timestamp of registration.
type User struct {
	ID           int64     // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	RegDate      time.Time // users.reg_date
}

// Roles recognised by the server.  New registrations are always Client;
// Admin accounts are provisioned externally.
const (
	RoleAdmin  = "Admin"
	RoleClient = "Client"
)
