package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags and never
// expose PasswordHash.
//
// Fields:
//  ID           – primary key identifier of the user (users.user_id).
//  Username     – unique, case-sensitive username.
//  Email        – unique, case-sensitive email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – optional given name (nullable column).
//  LastName     – optional family name (nullable column).
//  IsActive     – whether the account is active; inactive users are
//                 treated as absent by every lookup.
//  CreatedAt    – timestamp of registration.
//  LastLogin    – timestamp of the most recent successful login
//                 (nil until the first login).
type User struct {
    ID           uint64     // users.user_id
    Username     string     // users.username
    Email        string     // users.email
    PasswordHash string     // users.password_hash
    FirstName    *string    // users.first_name (nullable)
    LastName     *string    // users.last_name (nullable)
    IsActive     bool       // users.is_active
    CreatedAt    time.Time  // users.created_at
    LastLogin    *time.Time // users.last_login (nullable)
}
