package model

import "time"

// User represents an application user record as stored in the
// `users` table. Users exist so bookings have an owner to enforce
// edit/cancel rights against; the auth surface built on top of them
// is deliberately thin.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address used for login.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    Name         string    // users.name
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
